package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

func newBadgerFixture(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := NewBadgerStore("", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBadgerStore: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func TestBadgerCreateRejectsDuplicate(t *testing.T) {
	store := newBadgerFixture(t)
	ctx := context.Background()

	rec := Record{Key: "k1", TxnID: "TXN1", Type: npci.FamilyPay, State: StateInit}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := store.Create(ctx, rec); !errors.Is(err, ErrDuplicateTransaction) {
		t.Fatalf("second create: got %v, want ErrDuplicateTransaction", err)
	}
}

func TestBadgerLatestWinsAfterAppend(t *testing.T) {
	store := newBadgerFixture(t)
	ctx := context.Background()

	if err := store.Create(ctx, Record{Key: "k1", TxnID: "TXN2", Type: npci.FamilyPay, State: StateInit}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Append(ctx, Record{Key: "k2", TxnID: "TXN2", Type: npci.FamilyPay, State: StateISOSent, STAN: "123456"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	latest, err := store.LatestByTxnID(ctx, "TXN2")
	if err != nil {
		t.Fatalf("LatestByTxnID: %v", err)
	}
	if latest.State != StateISOSent || latest.STAN != "123456" {
		t.Fatalf("latest = %+v, want ISO_SENT snapshot", latest)
	}

	if _, err := store.LatestByTxnID(ctx, "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestBadgerOutstandingFiltersTypeAndState(t *testing.T) {
	store := newBadgerFixture(t)
	ctx := context.Background()

	seed := []Record{
		{Key: "a", TxnID: "A", Type: npci.FamilyPay, State: StateISOSent},
		{Key: "b", TxnID: "B", Type: npci.FamilyChkTxn, State: StateISOSent},
		{Key: "c", TxnID: "C", Type: npci.FamilyPay, State: StateSuccess},
	}
	for _, rec := range seed {
		if err := store.Create(ctx, rec); err != nil {
			t.Fatalf("create %s: %v", rec.TxnID, err)
		}
	}

	out, err := store.Outstanding(ctx, npci.FamilyPay, StateISOSent)
	if err != nil {
		t.Fatalf("Outstanding: %v", err)
	}
	if len(out) != 1 || out[0].TxnID != "A" {
		t.Fatalf("outstanding = %+v, want only A", out)
	}
}
