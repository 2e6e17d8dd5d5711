// Package redis is the optional Redis-backed Snapshot Store, grounded
// nearly verbatim on matching-engine's usecase/snapshot/store.go, with
// pkg/errors.NewTracer wraps replaced by plain fmt.Errorf sentinels (see
// DESIGN.md: pkg/errors is not carried forward by this module).
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	redisclient "github.com/muhammadchandra19/exchange/services/matching-core/pkg/redis"

	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
)

// Store persists one symbol's Snapshot to Redis as JSON, keyed by symbol.
type Store struct {
	symbol string
	client redisclient.Client
	logger *logger.Logger
}

// New constructs a Store for symbol using an already-connected client.
func New(client redisclient.Client, symbol string, log *logger.Logger) *Store {
	return &Store{symbol: symbol, client: client, logger: log}
}

// Store serializes snapshot as JSON and writes it to Redis with no
// expiration — the engine overwrites it on every snapshot cycle.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", s.symbol, err)
	}

	if err := s.client.Set(ctx, s.symbol, buf, 0); err != nil {
		s.logger.Error(err, logger.Field{Key: "symbol", Value: s.symbol})
		return fmt.Errorf("store snapshot for %s: %w", s.symbol, err)
	}

	s.logger.Info("snapshot stored", logger.Field{Key: "symbol", Value: s.symbol})
	return nil
}

// LoadStore reads and deserializes the symbol's snapshot from Redis.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.client.Get(ctx, s.symbol)
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", s.symbol, err)
	}
	if data == "" {
		return nil, snapshotv1.ErrNoSnapshot
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot for %s: %w", s.symbol, err)
	}
	return &snapshot, nil
}
