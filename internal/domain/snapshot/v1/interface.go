package snapshotv1

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by LoadStore before any snapshot has been
// written. Every Store implementation returns this sentinel rather than
// one of its own, so callers need not know which backend is configured.
var ErrNoSnapshot = errors.New("snapshot: no snapshot stored yet")

// Store persists and retrieves the most recent Snapshot for a symbol.
// matching-core ships two implementations: an in-memory default (no
// persistence across process restarts) and an optional Redis-backed one.
type Store interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	LoadStore(ctx context.Context) (*Snapshot, error)
}
