// Package metrics tracks the engine's counters and order-processing
// latency, exposing both a point-in-time snapshot for API/test
// consumers and a parallel Prometheus export for operators.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is a consistent, point-in-time read of the collector's
// counters and latency percentiles.
type Snapshot struct {
	TotalOrders     uint64
	FilledOrders    uint64
	CancelledOrders uint64
	RejectedOrders  uint64
	TotalTrades     uint64

	AvgLatency time.Duration
	P50Latency time.Duration
	P95Latency time.Duration
	P99Latency time.Duration
}

// FillRate returns FilledOrders/TotalOrders, or 0 if no orders have been
// processed yet.
func (s Snapshot) FillRate() float64 {
	if s.TotalOrders == 0 {
		return 0
	}
	return float64(s.FilledOrders) / float64(s.TotalOrders)
}

// Collector accumulates engine counters and a bounded FIFO buffer of
// per-order processing latencies.
//
// The percentile algorithm is copied from original_source's
// ExecutionEngine::get_metrics: keep every sample, sort the whole buffer
// on read, index at len/2, len*95/100, len*99/100. That source keeps an
// unbounded Vec<u64>; here the buffer is capped at sampleCapacity and
// oldest samples are dropped FIFO once full, so the "unbounded" original
// becomes a bounded ring per the latency_sample_size config knob, but the
// read-time sort-and-index math is unchanged. This needs no RNG and is
// fully deterministic given the input sequence, which is why it was
// chosen over a random-replacement reservoir (see SPEC_FULL.md §9).
type Collector struct {
	totalOrders     atomic.Uint64
	filledOrders    atomic.Uint64
	cancelledOrders atomic.Uint64
	rejectedOrders  atomic.Uint64
	totalTrades     atomic.Uint64

	mu             sync.Mutex
	samples        []time.Duration
	sampleCapacity int
	next           int

	prom *promMetrics
}

type promMetrics struct {
	registry        *prometheus.Registry
	ordersProcessed *prometheus.CounterVec
	tradesExecuted  prometheus.Counter
	orderLatency    prometheus.Histogram
}

// New constructs a Collector. sampleCapacity bounds the latency sample
// ring; 0 means unbounded (samples accumulate for the engine's lifetime,
// matching original_source's own Vec<u64>).
//
// Each Collector owns a private prometheus.Registry rather than
// registering into the global DefaultRegisterer: the engine may run
// several symbols (and tests construct many Collectors) in one process,
// and MustRegister against the shared default panics on the second
// registration of the same metric name.
func New(sampleCapacity int) *Collector {
	registry := prometheus.NewRegistry()
	prom := &promMetrics{
		registry: registry,
		ordersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matching_core_orders_processed_total",
				Help: "Total number of orders processed by the engine, by terminal status.",
			},
			[]string{"status"},
		),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matching_core_trades_executed_total",
			Help: "Total number of trades executed.",
		}),
		orderLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matching_core_order_processing_latency_seconds",
			Help:    "Latency of processing a single order through the dispatcher.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	registry.MustRegister(prom.ordersProcessed, prom.tradesExecuted, prom.orderLatency)

	return &Collector{
		sampleCapacity: sampleCapacity,
		prom:           prom,
	}
}

// Registry returns the Collector's private Prometheus registry, for
// mounting behind an HTTP /metrics handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.prom.registry
}

// RecordOrder increments the processed/terminal-status counters for a
// single order outcome.
func (c *Collector) RecordOrder(status string, filled bool) {
	c.totalOrders.Add(1)
	c.prom.ordersProcessed.WithLabelValues(status).Inc()
	switch status {
	case "FILLED":
		c.filledOrders.Add(1)
	case "CANCELLED":
		c.cancelledOrders.Add(1)
	case "REJECTED":
		c.rejectedOrders.Add(1)
	}
	_ = filled
}

// RecordTrades increments the trade counter by the number of trades
// emitted from a single dispatcher step.
func (c *Collector) RecordTrades(n int) {
	if n <= 0 {
		return
	}
	c.totalTrades.Add(uint64(n))
	c.prom.tradesExecuted.Add(float64(n))
}

// RecordLatency appends d to the latency sample buffer, dropping the
// oldest sample once sampleCapacity is reached.
func (c *Collector) RecordLatency(d time.Duration) {
	c.prom.orderLatency.Observe(d.Seconds())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sampleCapacity <= 0 {
		c.samples = append(c.samples, d)
		return
	}
	if len(c.samples) < c.sampleCapacity {
		c.samples = append(c.samples, d)
		return
	}
	c.samples[c.next] = d
	c.next = (c.next + 1) % c.sampleCapacity
}

// Snapshot computes a consistent read of every counter and the current
// latency percentiles.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		TotalOrders:     c.totalOrders.Load(),
		FilledOrders:    c.filledOrders.Load(),
		CancelledOrders: c.cancelledOrders.Load(),
		RejectedOrders:  c.rejectedOrders.Load(),
		TotalTrades:     c.totalTrades.Load(),
	}

	c.mu.Lock()
	samples := make([]time.Duration, len(c.samples))
	copy(samples, c.samples)
	c.mu.Unlock()

	if len(samples) == 0 {
		return s
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	n := len(samples)
	s.AvgLatency = sum / time.Duration(n)
	s.P50Latency = samples[n/2]
	s.P95Latency = samples[n*95/100]
	s.P99Latency = samples[minInt(n*99/100, n-1)]

	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
