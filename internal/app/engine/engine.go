// Package engine wires the order book, stop book, matcher, ingestion
// queue, metrics collector, and snapshot store into a single-dispatcher
// service, generalizing matching-service's app/engine to the four order
// types and the modify operation SPEC_FULL.md adds.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	matchpublisherv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/matchpublisher/v1"
	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	ordersourcev1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/ordersource/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/metrics"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/queue"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/matcher"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/orderbook"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/stopbook"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/config"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// DepthLevel is one side's aggregate at a single price, the shape
// get_book_snapshot returns per SPEC_FULL.md §6.
type DepthLevel struct {
	Price      decimal.Decimal
	Quantity   int64
	OrderCount int
}

// Engine is the single-dispatcher order matching service for one symbol:
// a bounded ingestion queue feeds one goroutine that runs every request
// through the matcher, so the book never needs its own lock discipline
// against concurrent writers.
type Engine struct {
	symbol string

	book     *orderbook.Book
	stopBook *stopbook.Book
	matcher  *matcher.Matcher
	queue    *queue.Queue
	metrics  *metrics.Collector

	snapshotStore  snapshotv1.Store
	orderSource    ordersourcev1.OrderSource
	matchPublisher matchpublisherv1.MatchPublisher

	logger *logger.Logger
	cfg    config.EngineConfig

	snapshotInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an Engine for cfg.Symbol over a fresh book and stop
// book, using opts for anything without a sensible zero value.
func New(cfg config.EngineConfig, snapshotStore snapshotv1.Store, log *logger.Logger, opts *Options) *Engine {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.SnapshotInterval <= 0 {
		opts.SnapshotInterval = time.Minute
	}

	book := orderbook.New(cfg.Symbol)
	stops := stopbook.New()

	return &Engine{
		symbol:           cfg.Symbol,
		book:             book,
		stopBook:         stops,
		matcher:          matcher.New(book, stops),
		queue:            queue.New(cfg.IngestionQueueCapacity),
		metrics:          metrics.New(cfg.LatencySampleSize),
		snapshotStore:    snapshotStore,
		orderSource:      opts.OrderSource,
		matchPublisher:   opts.MatchPublisher,
		logger:           log,
		cfg:              cfg,
		snapshotInterval: opts.SnapshotInterval,
	}
}

// Start loads the last snapshot, if any, then launches the dispatcher and
// snapshot manager goroutines. It returns once loading completes; the
// goroutines run until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.loadSnapshot(ctx); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runDispatcher()
	go e.runSnapshotManager()

	if e.orderSource != nil {
		e.wg.Add(1)
		go e.runSourceReader()
	}

	e.logger.Info("engine started", logger.Field{Key: "symbol", Value: e.symbol})
	return nil
}

// Stop signals shutdown and waits for every goroutine to drain, or for
// ctx to expire first.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}
	e.queue.Close()
	if e.orderSource != nil {
		_ = e.orderSource.Close()
	}
	if e.matchPublisher != nil {
		_ = e.matchPublisher.Close()
	}

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("engine stopped")
		return nil
	case <-ctx.Done():
		e.logger.Warn("engine stop timed out")
		return ctx.Err()
	}
}

// Submit validates and enqueues a new order. It returns as soon as the
// order is admitted to the queue, before it has necessarily matched. A
// submission that fails validation (bad symbol, missing price, etc.)
// never reaches the queue; it is recorded as a rejected order here so
// SPEC_FULL.md §8's total_orders/rejected_orders accounting holds for
// every submission, not just the ones that pass validation.
func (e *Engine) Submit(sub ordersourcev1.Submission) (string, error) {
	order, err := buildOrder(sub, e.symbol, time.Now())
	if err != nil {
		e.metrics.RecordOrder(obv1.Rejected.String(), false)
		return "", err
	}

	if err := e.queue.Push(&queue.Request{Kind: queue.KindSubmit, Order: order}); err != nil {
		e.metrics.RecordOrder(obv1.Rejected.String(), false)
		return "", err
	}
	return order.ID.String(), nil
}

// Cancel requests cancellation of a resting or parked order and blocks
// until the dispatcher has processed the request.
func (e *Engine) Cancel(orderID string) error {
	reply := make(chan error, 1)
	if err := e.queue.Push(&queue.Request{Kind: queue.KindCancel, OrderID: orderID, Reply: reply}); err != nil {
		return err
	}
	return <-reply
}

// Modify requests a quantity and/or price change to a resting order and
// blocks until the dispatcher has processed the request. A nil field
// leaves that attribute unchanged.
func (e *Engine) Modify(orderID string, newQty *int64, newPrice *string) error {
	var price *decimal.Decimal
	if newPrice != nil {
		p, err := decimal.NewFromString(*newPrice)
		if err != nil {
			return fmt.Errorf("orderbook: invalid price %q: %w", *newPrice, err)
		}
		price = &p
	}

	reply := make(chan error, 1)
	req := &queue.Request{Kind: queue.KindModify, OrderID: orderID, NewQty: newQty, NewPrice: price, Reply: reply}
	if err := e.queue.Push(req); err != nil {
		return err
	}
	return <-reply
}

// GetMetrics returns a point-in-time read of the engine's counters and
// latency percentiles.
func (e *Engine) GetMetrics() metrics.Snapshot {
	return e.metrics.Snapshot()
}

// MetricsRegistry returns the engine's private Prometheus registry, for
// mounting behind an HTTP /metrics handler.
func (e *Engine) MetricsRegistry() *prometheus.Registry {
	return e.metrics.Registry()
}

// GetBookSnapshot returns up to depth price levels per side, best first.
// depth <= 0 means every level.
func (e *Engine) GetBookSnapshot(depth int) (bids, asks []DepthLevel) {
	bidLevels, askLevels := e.book.Depth(depth)
	return toDepthLevels(bidLevels), toDepthLevels(askLevels)
}

func toDepthLevels(levels []*orderbook.PriceLevel) []DepthLevel {
	out := make([]DepthLevel, 0, len(levels))
	for _, l := range levels {
		out = append(out, DepthLevel{Price: l.Price, Quantity: l.Volume(), OrderCount: l.Len()})
	}
	return out
}

// runDispatcher is the engine's single consumer: it pops requests off the
// queue in arrival order and is the only goroutine that ever touches the
// matcher, book, or stop book.
func (e *Engine) runDispatcher() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Fatal("dispatcher halted on panic", logger.Field{Key: "panic", Value: r})
		}
	}()

	for {
		req, err := e.queue.Pop(e.ctx)
		if err != nil {
			e.logger.Info("dispatcher shutting down", logger.Field{Key: "reason", Value: err.Error()})
			return
		}

		start := time.Now()
		switch req.Kind {
		case queue.KindSubmit:
			e.dispatchSubmit(req.Order, start)
		case queue.KindCancel:
			req.Reply <- e.dispatchCancel(req.OrderID)
		case queue.KindModify:
			req.Reply <- e.dispatchModify(req.OrderID, req.NewQty, req.NewPrice)
		}
		e.metrics.RecordLatency(time.Since(start))
	}
}

func (e *Engine) dispatchSubmit(order *obv1.Order, now time.Time) {
	cascade, err := e.matcher.SubmitCascade(order, now)
	if err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "orderID", Value: order.ID.String()})
		return
	}

	for _, result := range cascade.Results {
		e.metrics.RecordOrder(result.Order.Status.String(), result.Order.IsFilled())
		e.metrics.RecordTrades(len(result.Trades))
		for _, trade := range result.Trades {
			e.publishTrade(trade)
		}
	}
}

// publishTrade forwards an executed trade to the optional MatchPublisher.
// A publish failure never rolls back the trade; it is logged and the
// engine continues (SPEC_FULL.md §6).
func (e *Engine) publishTrade(trade *obv1.Trade) {
	if e.matchPublisher == nil {
		return
	}
	event := matchpublisherv1.TradeEvent{
		TradeID:       trade.ID.String(),
		Symbol:        trade.Symbol,
		Price:         trade.Price.String(),
		Quantity:      trade.Quantity,
		BuyOrderID:    trade.BuyOrderID.String(),
		SellOrderID:   trade.SellOrderID.String(),
		AggressorSide: trade.AggressorSide.String(),
		Timestamp:     trade.Timestamp,
	}
	if err := e.matchPublisher.PublishTrade(e.ctx, event); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "tradeID", Value: trade.ID.String()})
	}
}

func (e *Engine) dispatchCancel(orderID string) error {
	if err := e.book.Cancel(orderID); err == nil {
		return nil
	} else if err != obv1.ErrNotFound {
		return err
	}
	if e.stopBook.Cancel(orderID) {
		return nil
	}
	return obv1.ErrNotFound
}

func (e *Engine) dispatchModify(orderID string, newQty *int64, newPrice *decimal.Decimal) error {
	return e.book.Modify(orderID, newQty, newPrice)
}

// runSourceReader translates messages from the optional external
// OrderSource into the same Submit/Cancel/Modify calls a direct in-process
// caller would make.
func (e *Engine) runSourceReader() {
	defer e.wg.Done()

	for {
		msg, err := e.orderSource.Next(e.ctx)
		if err != nil {
			if e.ctx.Err() != nil {
				return
			}
			e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "read_order_source"})
			time.Sleep(100 * time.Millisecond)
			continue
		}

		switch msg.Kind {
		case ordersourcev1.KindSubmit:
			if msg.Submit == nil {
				continue
			}
			if _, err := e.Submit(*msg.Submit); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "submit_from_source"})
			}
		case ordersourcev1.KindCancel:
			if msg.Cancel == nil {
				continue
			}
			if err := e.Cancel(msg.Cancel.OrderID); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "cancel_from_source"})
			}
		case ordersourcev1.KindModify:
			if msg.Modify == nil {
				continue
			}
			if err := e.Modify(msg.Modify.OrderID, msg.Modify.Quantity, msg.Modify.Price); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "modify_from_source"})
			}
		}
	}
}

// runSnapshotManager stores a fresh snapshot of the book and stop book on
// every tick of the snapshot interval.
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
			e.createAndStoreSnapshot()
		}
	}
}

func (e *Engine) createAndStoreSnapshot() {
	snap := buildSnapshot(e.symbol, e.book, e.stopBook, time.Now())
	if err := e.snapshotStore.Store(e.ctx, snap); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{Key: "action", Value: "store_snapshot"})
		return
	}
	e.logger.Info("snapshot stored", logger.Field{Key: "symbol", Value: e.symbol})
}

func (e *Engine) loadSnapshot(ctx context.Context) error {
	snap, err := e.snapshotStore.LoadStore(ctx)
	if errors.Is(err, snapshotv1.ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}
	if err := restoreSnapshot(snap, e.book, e.stopBook); err != nil {
		return err
	}
	e.logger.Info("book restored from snapshot", logger.Field{Key: "symbol", Value: e.symbol})
	return nil
}
