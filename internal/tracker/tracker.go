package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

var (
	approvalMu  sync.Mutex
	approvalRnd = rand.New(rand.NewSource(int64(uuid.New().ID())))
)

// SynthesizeApproval mints a 6 digit approval number for terminal records
// whose counterpart omitted one. A terminal record without an approval
// number is a scheme violation, so synthesis applies to SUCCESS and FAILED
// alike.
func SynthesizeApproval() string {
	approvalMu.Lock()
	defer approvalMu.Unlock()
	return fmt.Sprintf("%06d", approvalRnd.Intn(1000000))
}

// Correlation carries the identifiers copied off the outbound ISO message
// when a request is forwarded.
type Correlation struct {
	STAN      string
	RRN       string
	LocalTime string
	LocalDate string
}

// Tracker enforces transaction uniqueness and drives the lifecycle state
// machine: INIT -> ISO_SENT -> SUCCESS | FAILED.
type Tracker struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// New constructs a Tracker over the given store.
func New(store Store, logger zerolog.Logger, now func() time.Time) (*Tracker, error) {
	if store == nil {
		return nil, errors.New("tracker: store is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		store:  store,
		now:    now,
		logger: logger.With().Str("component", "tracker").Logger(),
	}, nil
}

// CreateIfAbsent records a new transaction in INIT state. It fails with
// ErrDuplicateTransaction when the id exists, and must be called before any
// downstream work starts.
func (t *Tracker) CreateIfAbsent(ctx context.Context, txnID string, typ npci.Family, payload []byte) (Record, error) {
	rec := Record{
		Key:        uuid.NewString(),
		TxnID:      txnID,
		Type:       typ,
		State:      StateInit,
		ReqPayload: append([]byte(nil), payload...),
		ReqInAt:    t.now(),
	}
	if err := t.store.Create(ctx, rec); err != nil {
		return Record{}, err
	}
	t.logger.Debug().Str("txn_id", txnID).Str("type", string(typ)).Msg("transaction created")
	return rec, nil
}

// MarkForwarded transitions the transaction to ISO_SENT and stores the
// correlation identifiers of the outbound message.
func (t *Tracker) MarkForwarded(ctx context.Context, txnID string, corr Correlation) (Record, error) {
	rec, err := t.store.LatestByTxnID(ctx, txnID)
	if err != nil {
		return Record{}, err
	}
	next := rec.WithState(StateISOSent)
	next.Key = uuid.NewString()
	next.STAN = corr.STAN
	next.RRN = corr.RRN
	next.LocalTime = corr.LocalTime
	next.LocalDate = corr.LocalDate
	next.ReqOutAt = t.now()
	if err := t.store.Append(ctx, next); err != nil {
		return Record{}, err
	}
	return next, nil
}

// MarkTerminal transitions the transaction to SUCCESS or FAILED. Any
// terminal record without an approval number gets a synthesized one.
func (t *Tracker) MarkTerminal(ctx context.Context, txnID string, success bool, respPayload []byte, approval string) (Record, error) {
	rec, err := t.store.LatestByTxnID(ctx, txnID)
	if err != nil {
		return Record{}, err
	}
	state := StateFailed
	if success {
		state = StateSuccess
	}
	if approval == "" {
		approval = SynthesizeApproval()
		t.logger.Info().
			Str("txn_id", txnID).
			Str("state", string(state)).
			Str("approval", approval).
			Msg("synthesized approval number for terminal record")
	}
	next := rec.WithState(state)
	next.Key = uuid.NewString()
	next.ApprovalNum = approval
	next.RespPayload = append([]byte(nil), respPayload...)
	next.RespInAt = t.now()
	if err := t.store.Append(ctx, next); err != nil {
		return Record{}, err
	}
	return next, nil
}

// MarkResponseForwarded stamps the response-out timestamp after the
// converted response has been sent onward to the original caller.
func (t *Tracker) MarkResponseForwarded(ctx context.Context, txnID string) (Record, error) {
	rec, err := t.store.LatestByTxnID(ctx, txnID)
	if err != nil {
		return Record{}, err
	}
	next := rec
	next.Key = uuid.NewString()
	next.RespOutAt = t.now()
	if err := t.store.Append(ctx, next); err != nil {
		return Record{}, err
	}
	return next, nil
}

// FindByCorrelation resolves a transaction by its business id. When
// degraded or test scenarios leave several historical rows with the same
// id, the newest wins.
func (t *Tracker) FindByCorrelation(ctx context.Context, txnID string) (Record, error) {
	return t.store.LatestByTxnID(ctx, txnID)
}

// FindByEmbeddedID is the secondary correlation path for response legs that
// only carry the original transaction identifier embedded inside the
// request payload. Outstanding ISO_SENT records of the right type are
// scanned oldest first for the id as a literal attribute value.
func (t *Tracker) FindByEmbeddedID(ctx context.Context, typ npci.Family, embeddedID string) (Record, error) {
	if embeddedID == "" {
		return Record{}, ErrNotFound
	}
	outstanding, err := t.store.Outstanding(ctx, typ, StateISOSent)
	if err != nil {
		return Record{}, err
	}
	needle := []byte(`id="` + embeddedID + `"`)
	for _, rec := range outstanding {
		if bytes.Contains(rec.ReqPayload, needle) {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}
