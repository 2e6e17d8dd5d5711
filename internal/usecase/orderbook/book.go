package orderbook

import (
	"sync"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// Book is a single symbol's limit order book: two price-indexed trees of
// FIFO queues, one per side, plus an id index for O(1) cancel/modify.
//
// The teacher's orderbook.go keys its btree.Map by the decimal's string
// representation, which sorts lexicographically ("10.2" < "9.5"). That's
// wrong for price ordering, so Book uses btree.BTreeG with an explicit
// decimal.Decimal comparator instead, keeping the same library but fixing
// the ordering. Bids are stored with a greater-than comparator so the
// tree's natural ascending Scan already yields best-bid-first; asks use
// the natural less-than order so Scan yields best-ask-first.
type Book struct {
	mu sync.RWMutex

	Symbol string
	bids   *btree.BTreeG[*PriceLevel]
	asks   *btree.BTreeG[*PriceLevel]

	// byID locates an order's side and price level by id, so Cancel and
	// Modify don't need to search both trees.
	byID map[string]*indexEntry

	bestBid *PriceLevel
	bestAsk *PriceLevel
}

type indexEntry struct {
	side  obv1.Side
	level *PriceLevel
}

// New constructs an empty book for symbol.
func New(symbol string) *Book {
	return &Book{
		Symbol: symbol,
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.GreaterThan(b.Price)
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price.LessThan(b.Price)
		}),
		byID: make(map[string]*indexEntry),
	}
}

func (b *Book) treeFor(side obv1.Side) *btree.BTreeG[*PriceLevel] {
	if side == obv1.Buy {
		return b.bids
	}
	return b.asks
}

// levelAt returns the price level for side/price, creating it if absent.
func (b *Book) levelAt(side obv1.Side, price decimal.Decimal) *PriceLevel {
	tree := b.treeFor(side)
	probe := &PriceLevel{Price: price}
	if existing, ok := tree.Get(probe); ok {
		return existing
	}
	level := newPriceLevel(price)
	tree.Set(level)
	return level
}

// Rest places order on the book at its limit price, giving it last time
// priority at that level. Callers are expected to have already run the
// order through the matcher; Rest never matches.
func (b *Book) Rest(order *obv1.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()

	level := b.levelAt(order.Side, order.Price)
	level.Push(order)
	b.byID[order.ID.String()] = &indexEntry{side: order.Side, level: level}
	b.refreshBest(order.Side)
}

// Cancel removes a resting order by id. Returns ErrNotFound if no such
// order rests on the book, or ErrAlreadyTerminal if its status is
// terminal.
func (b *Book) Cancel(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.byID[id]
	if !ok {
		return obv1.ErrNotFound
	}
	if order := entry.level.OrderByID(id); order != nil && order.Status.IsTerminal() {
		return obv1.ErrAlreadyTerminal
	}
	entry.level.Remove(id)
	delete(b.byID, id)
	if entry.level.Empty() {
		b.treeFor(entry.side).Delete(entry.level)
	}
	b.refreshBest(entry.side)
	return nil
}

// Modify changes a resting order's quantity and/or price in place.
//
// If the price changes, or the quantity increases, the order loses time
// priority: it is removed from its current level and re-pushed at the
// back of its (possibly new) level. If only the quantity decreases, and
// the new quantity is still at least the filled quantity, priority is
// preserved by mutating the order in place. A new quantity below what
// has already filled is rejected outright.
func (b *Book) Modify(id string, newQty *int64, newPrice *decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.byID[id]
	if !ok {
		return obv1.ErrNotFound
	}
	order := entry.level.OrderByID(id)
	if order == nil {
		return obv1.ErrNotFound
	}
	if order.Status.IsTerminal() {
		return obv1.ErrAlreadyTerminal
	}

	filled := order.FilledQuantity()
	if newQty != nil && *newQty < filled {
		return obv1.ErrRejected
	}

	priceChanged := newPrice != nil && !newPrice.Equal(order.Price)
	qtyIncreased := newQty != nil && *newQty > order.Quantity

	if !priceChanged && !qtyIncreased {
		if newQty != nil {
			delta := *newQty - order.Quantity
			order.Quantity = *newQty
			order.Remaining += delta
			entry.level.volume += delta
		}
		return nil
	}

	entry.level.Remove(id)
	if entry.level.Empty() {
		b.treeFor(entry.side).Delete(entry.level)
	}

	if newQty != nil {
		delta := *newQty - order.Quantity
		order.Quantity = *newQty
		order.Remaining += delta
	}
	if newPrice != nil {
		order.Price = *newPrice
	}

	level := b.levelAt(entry.side, order.Price)
	level.Push(order)
	b.byID[id] = &indexEntry{side: entry.side, level: level}
	b.refreshBest(entry.side)
	return nil
}

// BestBid returns the highest resting bid price level, or nil if the bid
// side is empty.
func (b *Book) BestBid() *PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bestBid
}

// BestAsk returns the lowest resting ask price level, or nil if the ask
// side is empty.
func (b *Book) BestAsk() *PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bestAsk
}

// refreshBest recomputes the cached best pointer for side after a
// mutation. Called with b.mu held.
func (b *Book) refreshBest(side obv1.Side) {
	tree := b.treeFor(side)
	top, ok := tree.Min()
	best := (*PriceLevel)(nil)
	if ok {
		best = top
	}
	if side == obv1.Buy {
		b.bestBid = best
	} else {
		b.bestAsk = best
	}
}

// BestOppositeLevel returns the best resting level on the side opposite
// to taker, used by the matcher as the starting point of its walk.
func (b *Book) BestOppositeLevel(takerSide obv1.Side) *PriceLevel {
	if takerSide == obv1.Buy {
		return b.BestAsk()
	}
	return b.BestBid()
}

// NextLevel returns the next price level after cur on side, walking away
// from the best price. Used by the matcher to continue its walk once a
// level is exhausted.
func (b *Book) NextLevel(side obv1.Side, cur *PriceLevel) *PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var next *PriceLevel
	b.treeFor(side).Ascend(cur, func(item *PriceLevel) bool {
		if item.Price.Equal(cur.Price) {
			return true
		}
		next = item
		return false
	})
	return next
}

// DropLevelIfEmpty removes level from side's tree if it has no resting
// orders left, and refreshes the cached best pointer. Called by the
// matcher after it has fully consumed a level.
func (b *Book) DropLevelIfEmpty(side obv1.Side, level *PriceLevel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if level.Empty() {
		b.treeFor(side).Delete(level)
	}
	b.refreshBest(side)
}

// RemoveFilled removes order's id from the index once it has fully
// traded out of the book (matcher no longer needs to track it).
func (b *Book) RemoveFilled(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byID, id)
}

// Depth returns up to n price levels per side, best first, for snapshots
// and market data consumers. n <= 0 means every level.
func (b *Book) Depth(n int) (bids, asks []*PriceLevel) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.bids.Scan(func(item *PriceLevel) bool {
		bids = append(bids, item)
		return n <= 0 || len(bids) < n
	})
	b.asks.Scan(func(item *PriceLevel) bool {
		asks = append(asks, item)
		return n <= 0 || len(asks) < n
	})
	return bids, asks
}

// OrderLevel returns the price level an order with the given id is
// resting at, or nil if unknown.
func (b *Book) OrderLevel(id string) *PriceLevel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.byID[id]
	if !ok {
		return nil
	}
	return entry.level
}
