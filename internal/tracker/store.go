package tracker

import (
	"context"
	"errors"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

var (
	// ErrDuplicateTransaction is returned by Create when the business
	// transaction id already exists. It is the sole idempotency guard for
	// inbound requests.
	ErrDuplicateTransaction = errors.New("tracker: duplicate transaction")
	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("tracker: transaction not found")
)

// Store persists transaction snapshots. Create must be atomic with respect
// to the uniqueness check: two concurrent creates for the same txn id yield
// exactly one success and one ErrDuplicateTransaction.
type Store interface {
	// Create persists the first snapshot of a transaction, failing with
	// ErrDuplicateTransaction when the txn id already exists.
	Create(ctx context.Context, rec Record) error
	// Append persists a new snapshot of an existing transaction.
	Append(ctx context.Context, rec Record) error
	// LatestByTxnID returns the newest snapshot for the business id.
	LatestByTxnID(ctx context.Context, txnID string) (Record, error)
	// Outstanding returns the newest snapshot of every transaction of the
	// given type currently in the given state, oldest first.
	Outstanding(ctx context.Context, typ npci.Family, state State) ([]Record, error)
	Close() error
}
