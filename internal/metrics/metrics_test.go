package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_RecordOrder(t *testing.T) {
	c := New(0)
	c.RecordOrder("FILLED", true)
	c.RecordOrder("CANCELLED", false)
	c.RecordOrder("REJECTED", false)
	c.RecordOrder("NEW", false)

	snap := c.Snapshot()
	assert.Equal(t, uint64(4), snap.TotalOrders)
	assert.Equal(t, uint64(1), snap.FilledOrders)
	assert.Equal(t, uint64(1), snap.CancelledOrders)
	assert.Equal(t, uint64(1), snap.RejectedOrders)
}

func TestSnapshot_FillRate(t *testing.T) {
	s := Snapshot{TotalOrders: 4, FilledOrders: 1}
	assert.InDelta(t, 0.25, s.FillRate(), 0.0001)

	empty := Snapshot{}
	assert.Equal(t, 0.0, empty.FillRate())
}

func TestCollector_RecordTrades(t *testing.T) {
	c := New(0)
	c.RecordTrades(3)
	c.RecordTrades(0)
	c.RecordTrades(-1)

	assert.Equal(t, uint64(3), c.Snapshot().TotalTrades)
}

func TestCollector_LatencyPercentiles(t *testing.T) {
	c := New(0)
	for i := 1; i <= 100; i++ {
		c.RecordLatency(time.Duration(i) * time.Millisecond)
	}

	snap := c.Snapshot()
	assert.Equal(t, 50*time.Millisecond, snap.P50Latency)
	assert.Equal(t, 95*time.Millisecond, snap.P95Latency)
	assert.Equal(t, 99*time.Millisecond, snap.P99Latency)
}

func TestCollector_LatencyRingBufferOverwritesOldest(t *testing.T) {
	c := New(2)
	c.RecordLatency(1 * time.Millisecond)
	c.RecordLatency(2 * time.Millisecond)
	c.RecordLatency(3 * time.Millisecond) // should overwrite the 1ms sample

	snap := c.Snapshot()
	assert.Equal(t, 2*time.Millisecond, snap.P50Latency)
	assert.Equal(t, 3*time.Millisecond, snap.P99Latency)
}

func TestCollector_SnapshotEmpty(t *testing.T) {
	c := New(10)
	snap := c.Snapshot()
	assert.Equal(t, time.Duration(0), snap.AvgLatency)
	assert.Equal(t, time.Duration(0), snap.P50Latency)
}
