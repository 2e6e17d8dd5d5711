// Package stopbook holds stop and stop-limit orders that have not yet
// triggered, keyed by stop price so the matcher can cheaply find which
// ones a new last-trade price activates.
package stopbook

import (
	"sort"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
)

// Book holds parked stop orders for one symbol, split by side. Buy stops
// trigger on a rising market (stop price <= last trade), so they're kept
// ascending — the first to trigger is at the front. Sell stops trigger on
// a falling market (stop price >= last trade), so they're kept
// descending, same reasoning.
//
// The teacher's trigger/monitor.go scans a flat slice on a ticker; since
// triggering here must happen synchronously inside one dispatcher step
// rather than on a timer (see SPEC_FULL.md §4.4/§9), this keeps each side
// sorted instead and extracts a prefix in one pass.
type Book struct {
	buyStops  []*obv1.Order // ascending by StopPrice
	sellStops []*obv1.Order // descending by StopPrice
}

// New constructs an empty stop book.
func New() *Book {
	return &Book{}
}

// Park inserts order into the appropriate side, keeping it sorted.
func (b *Book) Park(order *obv1.Order) {
	if order.IsBuy() {
		i := sort.Search(len(b.buyStops), func(i int) bool {
			return b.buyStops[i].StopPrice.GreaterThanOrEqual(order.StopPrice)
		})
		b.buyStops = insertAt(b.buyStops, i, order)
		return
	}
	i := sort.Search(len(b.sellStops), func(i int) bool {
		return b.sellStops[i].StopPrice.LessThanOrEqual(order.StopPrice)
	})
	b.sellStops = insertAt(b.sellStops, i, order)
}

func insertAt(s []*obv1.Order, i int, order *obv1.Order) []*obv1.Order {
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = order
	return s
}

// Cancel removes a parked stop order by id. Reports whether it was
// present.
func (b *Book) Cancel(id string) bool {
	if i := indexOf(b.buyStops, id); i >= 0 {
		b.buyStops = append(b.buyStops[:i], b.buyStops[i+1:]...)
		return true
	}
	if i := indexOf(b.sellStops, id); i >= 0 {
		b.sellStops = append(b.sellStops[:i], b.sellStops[i+1:]...)
		return true
	}
	return false
}

func indexOf(s []*obv1.Order, id string) int {
	for i, o := range s {
		if o.ID.String() == id {
			return i
		}
	}
	return -1
}

// Find returns the parked order with the given id, or nil.
func (b *Book) Find(id string) *obv1.Order {
	if i := indexOf(b.buyStops, id); i >= 0 {
		return b.buyStops[i]
	}
	if i := indexOf(b.sellStops, id); i >= 0 {
		return b.sellStops[i]
	}
	return nil
}

// Triggered removes and returns every stop order activated by
// lastTradePrice: the triggered buy stops first, then the triggered sell
// stops, each side closest-to-price first. This is the order the matcher
// re-submits them in (§4.2's cascade ordering).
func (b *Book) Triggered(lastTradePrice decimal.Decimal) []*obv1.Order {
	var triggered []*obv1.Order

	// buyStops is ascending by StopPrice, so within the triggered prefix
	// (StopPrice <= lastTradePrice) the closest to lastTradePrice is the
	// *last* entry — walk the prefix back to front to get closest-first.
	i := 0
	for i < len(b.buyStops) && b.buyStops[i].StopPrice.LessThanOrEqual(lastTradePrice) {
		i++
	}
	for k := i - 1; k >= 0; k-- {
		triggered = append(triggered, b.buyStops[k])
	}
	b.buyStops = b.buyStops[i:]

	// sellStops is descending, so the triggered prefix (StopPrice >=
	// lastTradePrice) again has its closest entry last.
	j := 0
	for j < len(b.sellStops) && b.sellStops[j].StopPrice.GreaterThanOrEqual(lastTradePrice) {
		j++
	}
	for k := j - 1; k >= 0; k-- {
		triggered = append(triggered, b.sellStops[k])
	}
	b.sellStops = b.sellStops[j:]

	return triggered
}

// Len returns the total number of parked stop orders.
func (b *Book) Len() int {
	return len(b.buyStops) + len(b.sellStops)
}

// BuyOrders returns the parked buy stops in ascending StopPrice order.
// Used by snapshotting; callers must not mutate the result.
func (b *Book) BuyOrders() []*obv1.Order {
	return b.buyStops
}

// SellOrders returns the parked sell stops in descending StopPrice order.
// Used by snapshotting; callers must not mutate the result.
func (b *Book) SellOrders() []*obv1.Order {
	return b.sellStops
}
