package scratch

import (
	"context"
	"sync"
	"time"

	"restock/internal/domain/imports"
)

// MemoryStore is an in-process scratch slot. Suitable for single-node
// deployments and tests; the redis-backed store survives restarts.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot *Snapshot

	ttl time.Duration
	now func() time.Time
}

// NewMemoryStore creates an in-memory scratch store. A non-positive ttl
// falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl: ttl,
		now: time.Now,
	}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, doc *imports.ImportTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &Snapshot{
		Transaction: doc,
		SavedAt:     s.now().UTC(),
	}
	return nil
}

// Load implements Store. Expired snapshots are cleared on read.
func (s *MemoryStore) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		return nil, nil
	}
	if s.now().Sub(s.snapshot.SavedAt) > s.ttl {
		s.snapshot = nil
		return nil, nil
	}
	return s.snapshot, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
