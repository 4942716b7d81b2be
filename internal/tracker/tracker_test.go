package tracker

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := New(NewMemStore(), zerolog.Nop(), func() time.Time {
		return time.Date(2026, 8, 30, 10, 45, 12, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tr
}

func TestCreateIfAbsentRejectsDuplicates(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	if _, err := tr.CreateIfAbsent(ctx, "TXN1", npci.FamilyPay, []byte("<ReqPay/>")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := tr.CreateIfAbsent(ctx, "TXN1", npci.FamilyPay, []byte("<ReqPay/>"))
	if !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("second create: got %v, want ErrDuplicateTransaction", err)
	}
}

func TestCreateIfAbsentConcurrentRace(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	const goroutines = 16
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = tr.CreateIfAbsent(ctx, "RACE1", npci.FamilyPay, []byte("<ReqPay/>"))
		}(i)
	}
	wg.Wait()

	successes, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrDuplicateTransaction):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("got %d successes, want exactly 1", successes)
	}
	if duplicates != goroutines-1 {
		t.Fatalf("got %d duplicates, want %d", duplicates, goroutines-1)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	created, err := tr.CreateIfAbsent(ctx, "TXN2", npci.FamilyChkTxn, []byte("<ReqChkTxn/>"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.State != StateInit {
		t.Fatalf("created state = %s, want INIT", created.State)
	}
	if created.ReqInAt.IsZero() {
		t.Fatal("ReqInAt not stamped")
	}

	fwd, err := tr.MarkForwarded(ctx, "TXN2", Correlation{
		STAN: "123456", RRN: "000000000042", LocalTime: "104512", LocalDate: "0830",
	})
	if err != nil {
		t.Fatalf("MarkForwarded: %v", err)
	}
	if fwd.State != StateISOSent || fwd.STAN != "123456" || fwd.RRN != "000000000042" {
		t.Fatalf("forwarded record = %+v", fwd)
	}
	if fwd.ReqOutAt.IsZero() {
		t.Fatal("ReqOutAt not stamped")
	}

	term, err := tr.MarkTerminal(ctx, "TXN2", true, []byte("0230..."), "A12345")
	if err != nil {
		t.Fatalf("MarkTerminal: %v", err)
	}
	if term.State != StateSuccess || term.ApprovalNum != "A12345" {
		t.Fatalf("terminal record = %+v", term)
	}
	if !term.State.Terminal() {
		t.Fatal("SUCCESS not reported terminal")
	}
	if term.RespInAt.IsZero() {
		t.Fatal("RespInAt not stamped")
	}
	// Correlation fields must survive the terminal transition.
	if term.STAN != "123456" || term.RRN != "000000000042" {
		t.Fatalf("correlation lost on terminal: %+v", term)
	}

	done, err := tr.MarkResponseForwarded(ctx, "TXN2")
	if err != nil {
		t.Fatalf("MarkResponseForwarded: %v", err)
	}
	if done.RespOutAt.IsZero() {
		t.Fatal("RespOutAt not stamped")
	}

	latest, err := tr.FindByCorrelation(ctx, "TXN2")
	if err != nil {
		t.Fatalf("FindByCorrelation: %v", err)
	}
	if latest.Key != done.Key {
		t.Fatal("FindByCorrelation did not return the newest snapshot")
	}
}

func TestMarkTerminalSynthesizesApproval(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()
	pattern := regexp.MustCompile(`^\d{6}$`)

	for _, tc := range []struct {
		name    string
		txnID   string
		success bool
		state   State
	}{
		{"success leg", "SYN-OK", true, StateSuccess},
		{"failed leg", "SYN-KO", false, StateFailed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tr.CreateIfAbsent(ctx, tc.txnID, npci.FamilyPay, nil); err != nil {
				t.Fatalf("create: %v", err)
			}
			rec, err := tr.MarkTerminal(ctx, tc.txnID, tc.success, nil, "")
			if err != nil {
				t.Fatalf("MarkTerminal: %v", err)
			}
			if rec.State != tc.state {
				t.Fatalf("state = %s, want %s", rec.State, tc.state)
			}
			if !pattern.MatchString(rec.ApprovalNum) {
				t.Fatalf("approval %q not a 6 digit number", rec.ApprovalNum)
			}
		})
	}
}

func TestMarkForwardedUnknownTxn(t *testing.T) {
	tr := newTestTracker(t)
	_, err := tr.MarkForwarded(context.Background(), "NOPE", Correlation{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestFindByEmbeddedID(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	payload := []byte(`<ReqPay><Txn id="HDF00000000000000000000000000000001"/></ReqPay>`)
	if _, err := tr.CreateIfAbsent(ctx, "HDF00000000000000000000000000000001", npci.FamilyPay, payload); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := tr.MarkForwarded(ctx, "HDF00000000000000000000000000000001", Correlation{STAN: "654321"}); err != nil {
		t.Fatalf("forward: %v", err)
	}

	// A second outstanding transaction that must not match.
	other := []byte(`<ReqPay><Txn id="HDF00000000000000000000000000000002"/></ReqPay>`)
	if _, err := tr.CreateIfAbsent(ctx, "HDF00000000000000000000000000000002", npci.FamilyPay, other); err != nil {
		t.Fatalf("create other: %v", err)
	}
	if _, err := tr.MarkForwarded(ctx, "HDF00000000000000000000000000000002", Correlation{STAN: "111111"}); err != nil {
		t.Fatalf("forward other: %v", err)
	}

	rec, err := tr.FindByEmbeddedID(ctx, npci.FamilyPay, "HDF00000000000000000000000000000001")
	if err != nil {
		t.Fatalf("FindByEmbeddedID: %v", err)
	}
	if rec.STAN != "654321" {
		t.Fatalf("matched wrong record: %+v", rec)
	}

	if _, err := tr.FindByEmbeddedID(ctx, npci.FamilyPay, "HDF00000000000000000000000000000099"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown embedded id: got %v, want ErrNotFound", err)
	}
	if _, err := tr.FindByEmbeddedID(ctx, npci.FamilyPay, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty embedded id: got %v, want ErrNotFound", err)
	}
	// Terminal records are not outstanding and must not match.
	if _, err := tr.MarkTerminal(ctx, "HDF00000000000000000000000000000001", true, nil, "000001"); err != nil {
		t.Fatalf("terminal: %v", err)
	}
	if _, err := tr.FindByEmbeddedID(ctx, npci.FamilyPay, "HDF00000000000000000000000000000001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("terminal record matched embedded id lookup")
	}
}

func TestOutstandingOldestFirst(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		rec := Record{Key: id, TxnID: id, Type: npci.FamilyPay, State: StateISOSent}
		if err := store.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	out, err := store.Outstanding(ctx, npci.FamilyPay, StateISOSent)
	if err != nil {
		t.Fatalf("Outstanding: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	for i, want := range []string{"A", "B", "C"} {
		if out[i].TxnID != want {
			t.Fatalf("position %d = %s, want %s", i, out[i].TxnID, want)
		}
	}
}
