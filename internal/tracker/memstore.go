package tracker

import (
	"context"
	"sort"
	"sync"

	"github.com/RUGU2211/IMPS-BACKEND-sub000/internal/npci"
)

// MemStore is an in-memory Store. The single mutex makes Create atomic with
// respect to the uniqueness check, which is the property the tracker's
// idempotency guard rests on.
type MemStore struct {
	mu   sync.Mutex
	seq  uint64
	byID map[string][]Record
}

// NewMemStore constructs an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string][]Record)}
}

// Create implements Store.
func (s *MemStore) Create(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.byID[rec.TxnID]) > 0 {
		return ErrDuplicateTransaction
	}
	s.seq++
	rec.Seq = s.seq
	s.byID[rec.TxnID] = []Record{rec}
	return nil
}

// Append implements Store.
func (s *MemStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.Seq = s.seq
	s.byID[rec.TxnID] = append(s.byID[rec.TxnID], rec)
	return nil
}

// LatestByTxnID implements Store: the newest snapshot wins.
func (s *MemStore) LatestByTxnID(_ context.Context, txnID string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshots := s.byID[txnID]
	if len(snapshots) == 0 {
		return Record{}, ErrNotFound
	}
	return snapshots[len(snapshots)-1], nil
}

// Outstanding implements Store, returning matches oldest first.
func (s *MemStore) Outstanding(_ context.Context, typ npci.Family, state State) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, snapshots := range s.byID {
		latest := snapshots[len(snapshots)-1]
		if latest.Type == typ && latest.State == state {
			out = append(out, latest)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }
