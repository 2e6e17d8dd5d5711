// Package orderbook implements the price-time priority limit order book:
// a price-indexed tree per side, each price level holding a FIFO queue of
// resting orders.
package orderbook

import (
	"container/list"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// PriceLevel is the FIFO queue of orders resting at a single price. The
// teacher's Limit type re-sorts a slice by timestamp on every Fill; here
// the queue is already in arrival order because Push always appends, so
// walking it front-to-back is price-time priority with no sort.
type PriceLevel struct {
	Price  decimal.Decimal
	orders *list.List
	// index maps an order id to its node so Remove and Modify run in
	// O(1) instead of a linear scan of orders.
	index map[string]*list.Element
	// volume is the sum of Remaining across all resting orders, kept
	// incrementally so depth queries don't walk the list.
	volume int64
}

func newPriceLevel(price decimal.Decimal) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		orders: list.New(),
		index:  make(map[string]*list.Element),
	}
}

// Push appends an order to the back of the queue, giving it last time
// priority at this price.
func (l *PriceLevel) Push(o *obv1.Order) {
	elem := l.orders.PushBack(o)
	l.index[o.ID.String()] = elem
	l.volume += o.Remaining
}

// OrderByID returns the resting order with the given id, or nil.
func (l *PriceLevel) OrderByID(id string) *obv1.Order {
	elem, ok := l.index[id]
	if !ok {
		return nil
	}
	return elem.Value.(*obv1.Order)
}

// Front returns the order with the earliest time priority, or nil if the
// level is empty.
func (l *PriceLevel) Front() *obv1.Order {
	elem := l.orders.Front()
	if elem == nil {
		return nil
	}
	return elem.Value.(*obv1.Order)
}

// Remove deletes an order from the level given its id. Reports whether
// the order was present.
func (l *PriceLevel) Remove(id string) bool {
	elem, ok := l.index[id]
	if !ok {
		return false
	}
	order := elem.Value.(*obv1.Order)
	l.volume -= order.Remaining
	l.orders.Remove(elem)
	delete(l.index, id)
	return true
}

// ReduceFront reduces the front order's remaining quantity by qty,
// popping it from the level once fully consumed. Used by the matcher as
// it walks the level during a trade.
func (l *PriceLevel) ReduceFront(qty int64) {
	elem := l.orders.Front()
	if elem == nil {
		return
	}
	order := elem.Value.(*obv1.Order)
	order.Remaining -= qty
	l.volume -= qty
	if order.Remaining <= 0 {
		l.orders.Remove(elem)
		delete(l.index, order.ID.String())
	}
}

// Empty reports whether the level has no resting orders.
func (l *PriceLevel) Empty() bool {
	return l.orders.Len() == 0
}

// Len returns the number of resting orders at this level.
func (l *PriceLevel) Len() int {
	return l.orders.Len()
}

// Volume returns the total remaining quantity resting at this level.
func (l *PriceLevel) Volume() int64 {
	return l.volume
}

// Orders returns the resting orders at this level in time priority,
// front first. Used for snapshots; callers must not mutate the result.
func (l *PriceLevel) Orders() []*obv1.Order {
	out := make([]*obv1.Order, 0, l.orders.Len())
	for e := l.orders.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*obv1.Order))
	}
	return out
}
