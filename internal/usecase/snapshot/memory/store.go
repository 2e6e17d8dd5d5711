// Package memory is the default Snapshot Store: an in-process holder of
// the last snapshot taken, with no persistence across restarts. It
// exists so the engine always has a Store to write through even when no
// Redis is configured (SPEC_FULL.md §1/§6: snapshotting is a boundary
// concern, not a hard dependency on external storage).
package memory

import (
	"context"
	"sync"

	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
)

// Store holds the most recently written snapshot in memory.
type Store struct {
	mu       sync.RWMutex
	current  *snapshotv1.Snapshot
	hasValue bool
}

// New constructs an empty Store.
func New() *Store {
	return &Store{}
}

// Store replaces the held snapshot.
func (s *Store) Store(_ context.Context, snapshot *snapshotv1.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snapshot
	s.hasValue = true
	return nil
}

// LoadStore returns the most recently stored snapshot, or
// snapshotv1.ErrNoSnapshot if none has been written yet.
func (s *Store) LoadStore(_ context.Context) (*snapshotv1.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasValue {
		return nil, snapshotv1.ErrNoSnapshot
	}
	return s.current, nil
}
