package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	matchpublisherv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/matchpublisher/v1"
	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	ordersourcev1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/ordersource/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/config"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.WithOutputPaths([]string{"/dev/null"}))
	require.NoError(t, err)
	return log
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		Symbol:                 "BTC-USD",
		IngestionQueueCapacity: 0,
		OutputChannelCapacity:  0,
		LatencySampleSize:      0,
	}
}

// fakeStore is an in-memory snapshotv1.Store double: fine-grained control
// over what LoadStore returns, and a record of every Store call, without
// pulling in the real memory/redis implementations under test.
type fakeStore struct {
	mu       sync.Mutex
	loadErr  error
	loadSnap *snapshotv1.Snapshot
	stored   []*snapshotv1.Snapshot
}

func (f *fakeStore) Store(_ context.Context, snap *snapshotv1.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, snap)
	return nil
}

func (f *fakeStore) LoadStore(_ context.Context) (*snapshotv1.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.loadSnap, nil
}

func (f *fakeStore) storeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stored)
}

// fakePublisher records every trade published through it.
type fakePublisher struct {
	mu     sync.Mutex
	events []matchpublisherv1.TradeEvent
	closed bool
}

func (f *fakePublisher) PublishTrade(_ context.Context, event matchpublisherv1.TradeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

// fakeSource feeds a fixed slice of messages then blocks until ctx is
// cancelled, mimicking a Kafka consumer with no more records to read.
type fakeSource struct {
	mu       sync.Mutex
	messages []ordersourcev1.Message
	idx      int
	closed   bool
}

func (f *fakeSource) Next(ctx context.Context) (ordersourcev1.Message, error) {
	f.mu.Lock()
	if f.idx < len(f.messages) {
		msg := f.messages[f.idx]
		f.idx++
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return ordersourcev1.Message{}, ctx.Err()
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func newTestEngine(t *testing.T, store snapshotv1.Store, opts *Options) *Engine {
	t.Helper()
	if store == nil {
		store = &fakeStore{loadErr: snapshotv1.ErrNoSnapshot}
	}
	return New(testConfig(), store, testLogger(t), opts)
}

func TestEngine_StartLoadsSnapshotError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("boom")}
	eng := newTestEngine(t, store, nil)

	err := eng.Start(context.Background())
	assert.Error(t, err)
}

func TestEngine_StartWithNoSnapshotIsNotFatal(t *testing.T) {
	store := &fakeStore{loadErr: snapshotv1.ErrNoSnapshot}
	eng := newTestEngine(t, store, nil)

	require.NoError(t, eng.Start(context.Background()))
	require.NoError(t, eng.Stop(context.Background()))
}

func TestEngine_SubmitRestsThenBookSnapshotReflectsIt(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	_, err := eng.Submit(ordersourcev1.Submission{
		Symbol:   "BTC-USD",
		ClientID: "c1",
		Side:     "buy",
		Type:     "limit",
		Quantity: 10,
		Price:    "100",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		bids, _ := eng.GetBookSnapshot(0)
		return len(bids) == 1 && bids[0].Quantity == 10
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_SubmitTwoOrdersMatchAndPublish(t *testing.T) {
	pub := &fakePublisher{}
	eng := newTestEngine(t, nil, &Options{SnapshotInterval: time.Hour, MatchPublisher: pub})
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	_, err := eng.Submit(ordersourcev1.Submission{
		Symbol: "BTC-USD", ClientID: "seller", Side: "sell", Type: "limit", Quantity: 5, Price: "100",
	})
	require.NoError(t, err)

	_, err = eng.Submit(ordersourcev1.Submission{
		Symbol: "BTC-USD", ClientID: "buyer", Side: "buy", Type: "limit", Quantity: 5, Price: "100",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return pub.count() == 1
	}, time.Second, 5*time.Millisecond)

	metrics := eng.GetMetrics()
	assert.Equal(t, uint64(1), metrics.TotalTrades)
}

func TestEngine_CancelUnknownOrderReturnsNotFound(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	err := eng.Cancel("does-not-exist")
	assert.ErrorIs(t, err, obv1.ErrNotFound)
}

func TestEngine_SubmitInvalidOrderRecordsRejection(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	_, err := eng.Submit(ordersourcev1.Submission{
		Symbol: "BTC-USD", ClientID: "c1", Side: "buy", Type: "limit", Quantity: 10,
		// Price omitted: a limit order requires one, so Validate rejects it.
	})
	require.Error(t, err)

	metrics := eng.GetMetrics()
	assert.Equal(t, uint64(1), metrics.TotalOrders)
	assert.Equal(t, uint64(1), metrics.RejectedOrders)

	bids, asks := eng.GetBookSnapshot(0)
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestEngine_SubmitWrongSymbolIsRejected(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	_, err := eng.Submit(ordersourcev1.Submission{
		Symbol: "ETH-USD", ClientID: "c1", Side: "buy", Type: "limit", Quantity: 10, Price: "100",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, obv1.ErrSymbolMismatch)

	metrics := eng.GetMetrics()
	assert.Equal(t, uint64(1), metrics.TotalOrders)
	assert.Equal(t, uint64(1), metrics.RejectedOrders)

	bids, _ := eng.GetBookSnapshot(0)
	assert.Empty(t, bids)
}

func TestEngine_CancelRestingOrder(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	id, err := eng.Submit(ordersourcev1.Submission{
		Symbol: "BTC-USD", ClientID: "c1", Side: "buy", Type: "limit", Quantity: 10, Price: "100",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		bids, _ := eng.GetBookSnapshot(0)
		return len(bids) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, eng.Cancel(id))

	bids, _ := eng.GetBookSnapshot(0)
	assert.Empty(t, bids)
}

func TestEngine_ModifyQuantity(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	id, err := eng.Submit(ordersourcev1.Submission{
		Symbol: "BTC-USD", ClientID: "c1", Side: "buy", Type: "limit", Quantity: 10, Price: "100",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		bids, _ := eng.GetBookSnapshot(0)
		return len(bids) == 1
	}, time.Second, 5*time.Millisecond)

	newQty := int64(20)
	require.NoError(t, eng.Modify(id, &newQty, nil))

	bids, _ := eng.GetBookSnapshot(0)
	require.Len(t, bids, 1)
	assert.Equal(t, int64(20), bids[0].Quantity)
}

func TestEngine_ModifyInvalidPriceString(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	badPrice := "not-a-number"
	err := eng.Modify("any-id", nil, &badPrice)
	assert.Error(t, err)
}

func TestEngine_SourceReaderTranslatesSubmitMessage(t *testing.T) {
	src := &fakeSource{
		messages: []ordersourcev1.Message{
			{
				Kind: ordersourcev1.KindSubmit,
				Submit: &ordersourcev1.Submission{
					Symbol: "BTC-USD", ClientID: "c1", Side: "sell", Type: "limit", Quantity: 3, Price: "50",
				},
			},
		},
	}
	eng := newTestEngine(t, nil, &Options{SnapshotInterval: time.Hour, OrderSource: src})
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	require.Eventually(t, func() bool {
		_, asks := eng.GetBookSnapshot(0)
		return len(asks) == 1 && asks[0].Quantity == 3
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_StopClosesOrderSourceAndPublisher(t *testing.T) {
	src := &fakeSource{}
	pub := &fakePublisher{}
	eng := newTestEngine(t, nil, &Options{SnapshotInterval: time.Hour, OrderSource: src, MatchPublisher: pub})
	require.NoError(t, eng.Start(context.Background()))

	require.NoError(t, eng.Stop(context.Background()))
	assert.True(t, src.closed)
	assert.True(t, pub.closed)
}

func TestEngine_SnapshotManagerStoresOnInterval(t *testing.T) {
	store := &fakeStore{loadErr: snapshotv1.ErrNoSnapshot}
	eng := newTestEngine(t, store, &Options{SnapshotInterval: 20 * time.Millisecond})
	require.NoError(t, eng.Start(context.Background()))
	defer eng.Stop(context.Background())

	require.Eventually(t, func() bool {
		return store.storeCount() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestEngine_StopWithExpiredDeadlineDoesNotBlock(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.NoError(t, eng.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	err := eng.Stop(ctx)
	// Either it finishes fast enough (nil) or the near-zero deadline already
	// expired (context.DeadlineExceeded); both are acceptable here, the
	// real assertion is that Stop never blocks forever.
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}
