package redis

import (
	"context"
	"time"
)

// Client defines the subset of Redis operations the snapshot store needs:
// connection lifecycle plus plain key/value get/set. The wider command
// surface the teacher's client exposed (hashes, sorted sets, streams,
// pub/sub) served services this module does not carry forward; see
// DESIGN.md for the per-dependency accounting.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Reconnect(ctx context.Context) bool

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
