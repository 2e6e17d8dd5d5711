package engine

import (
	"time"

	matchpublisherv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/matchpublisher/v1"
	ordersourcev1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/ordersource/v1"
)

// Options configures the parts of Engine that have sensible defaults but
// are worth overriding in tests or alternate deployments.
type Options struct {
	// SnapshotInterval is how often the snapshot manager stores a new
	// snapshot. Defaults to one minute.
	SnapshotInterval time.Duration

	// OrderSource, if set, feeds Submit/Cancel/Modify from an external
	// boundary (Kafka) instead of relying solely on direct in-process
	// calls. Optional.
	OrderSource ordersourcev1.OrderSource

	// MatchPublisher, if set, receives every trade the engine executes.
	// Optional.
	MatchPublisher matchpublisherv1.MatchPublisher
}

// DefaultOptions returns the Engine's default configuration.
func DefaultOptions() *Options {
	return &Options{
		SnapshotInterval: time.Minute,
	}
}
