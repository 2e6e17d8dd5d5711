// Package queue implements the bounded MPSC ingestion queue the engine's
// single dispatcher goroutine drains: many producer goroutines push
// requests, exactly one consumer pops them in arrival order.
package queue

import (
	"context"
	"sync"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Kind distinguishes the three requests the engine accepts.
type Kind int

const (
	// KindSubmit enqueues a new order.
	KindSubmit Kind = iota
	// KindCancel requests cancellation of a resting or parked order.
	KindCancel
	// KindModify requests a quantity/price change to a resting order.
	KindModify
)

// Request is a single envelope flowing through the queue. Submit is
// fire-and-forget: Reply is nil and errors can only occur at admission
// time (Push itself). Cancel and Modify carry a Reply channel so their
// state-dependent errors (ErrNotFound, ErrAlreadyTerminal) reach the
// caller synchronously, per SPEC_FULL.md §5/§7.
type Request struct {
	Kind Kind

	Order *obv1.Order // KindSubmit

	OrderID  string           // KindCancel, KindModify
	NewQty   *int64           // KindModify, nil leaves quantity unchanged
	NewPrice *decimal.Decimal // KindModify, nil leaves price unchanged

	Reply chan error // non-nil for KindCancel/KindModify
}

// Queue is a FIFO MPSC queue guarded by a mutex and condition variable,
// grounded on Aidin1998-finalex's InMemoryQueue but simplified from that
// type's priority-sorted Enqueue/error-on-empty-Dequeue down to plain
// arrival order with a blocking Pop, matching this spec's requirement
// that the dispatcher suspend only when the queue is genuinely empty.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []*Request
	capacity int // 0 means unbounded
	closed   bool
}

// New constructs a Queue. capacity bounds Push; 0 means unbounded.
func New(capacity int) *Queue {
	q := &Queue{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push enqueues req. Returns ErrShutdown if the queue has been closed,
// or ErrQueueFull if capacity is set and already reached.
func (q *Queue) Push(req *Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return obv1.ErrShutdown
	}
	if q.capacity > 0 && len(q.items) >= q.capacity {
		return obv1.ErrQueueFull
	}

	q.items = append(q.items, req)
	q.notEmpty.Signal()
	return nil
}

// Pop blocks until a request is available, ctx is cancelled, or the
// queue is closed. A closed queue with items remaining still drains them
// first, so Stop can flush in-flight work before the dispatcher exits.
func (q *Queue) Pop(ctx context.Context) (*Request, error) {
	// Cond.Wait can't observe ctx directly, so a watcher goroutine
	// converts cancellation into a broadcast the waiter will see.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.notEmpty.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		if q.closed {
			return nil, obv1.ErrShutdown
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.notEmpty.Wait()
	}

	req := q.items[0]
	q.items = q.items[1:]
	return req, nil
}

// Len returns the number of requests currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and wakes any blocked Pop. Requests
// already queued remain available until drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
}
