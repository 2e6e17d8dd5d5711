package matchpublisherv1

import "context"

// MatchPublisher publishes executed trades to an external consumer. The
// engine calls it once per trade after a dispatcher step completes; a
// failure to publish never rolls back the trade itself (the book has
// already moved) — it is logged and the engine continues.
type MatchPublisher interface {
	PublishTrade(ctx context.Context, event TradeEvent) error
	Close() error
}
