package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

const recordPrefix = "txn|"

// BadgerStore persists transaction snapshots in a badger key-value store.
// Keys are "txn|<txnId>|<seq>" with a zero padded sequence, so a prefix
// iteration over one txn id yields snapshots in append order.
type BadgerStore struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger zerolog.Logger

	// createMu serializes Create so the existence check and the first
	// snapshot write form one atomic step across goroutines sharing this
	// store handle.
	createMu sync.Mutex
}

// NewBadgerStore opens a badger backed store at dir. An empty dir opens an
// in-memory database, useful for tests and ephemeral deployments.
func NewBadgerStore(dir string, logger zerolog.Logger) (*BadgerStore, error) {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("tracker: open badger store: %w", err)
	}
	seq, err := db.GetSequence([]byte("tracker|seq"), 128)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("tracker: open sequence: %w", err)
	}
	return &BadgerStore{
		db:     db,
		seq:    seq,
		logger: logger.With().Str("component", "badger-store").Logger(),
	}, nil
}

func recordKey(txnID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s|%020d", recordPrefix, txnID, seq))
}

// Create implements Store.
func (s *BadgerStore) Create(_ context.Context, rec Record) error {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	exists, err := s.txnExists(rec.TxnID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateTransaction
	}
	return s.write(rec)
}

// Append implements Store.
func (s *BadgerStore) Append(_ context.Context, rec Record) error {
	return s.write(rec)
}

func (s *BadgerStore) write(rec Record) error {
	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("tracker: next sequence: %w", err)
	}
	rec.Seq = n + 1 // sequences start at 0; keep Seq strictly positive
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("tracker: marshal record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.TxnID, rec.Seq), payload)
	})
	if err != nil {
		return fmt.Errorf("tracker: write record: %w", err)
	}
	return nil
}

func (s *BadgerStore) txnExists(txnID string) (bool, error) {
	exists := false
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(recordPrefix + txnID + "|")
		it := txn.NewIterator(opts)
		defer it.Close()
		it.Rewind()
		exists = it.Valid()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("tracker: check existence: %w", err)
	}
	return exists, nil
}

// LatestByTxnID implements Store: the newest snapshot wins.
func (s *BadgerStore) LatestByTxnID(_ context.Context, txnID string) (Record, error) {
	var latest Record
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix + txnID + "|")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				latest = rec
				found = true
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Record{}, fmt.Errorf("tracker: read records: %w", err)
	}
	if !found {
		return Record{}, ErrNotFound
	}
	return latest, nil
}

// Outstanding implements Store, returning matches oldest first.
func (s *BadgerStore) Outstanding(_ context.Context, typ npci.Family, state State) ([]Record, error) {
	latestByID := make(map[string]Record)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				// Keys iterate in append order per txn id, so the last
				// snapshot seen for an id is its newest.
				latestByID[rec.TxnID] = rec
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tracker: scan records: %w", err)
	}

	var out []Record
	for _, rec := range latestByID {
		if rec.Type == typ && rec.State == state {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Close releases the sequence and the underlying database.
func (s *BadgerStore) Close() error {
	var result *multierror.Error
	if err := s.seq.Release(); err != nil {
		result = multierror.Append(result, fmt.Errorf("release sequence: %w", err))
	}
	if err := s.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("close badger: %w", err))
	}
	return result.ErrorOrNil()
}
