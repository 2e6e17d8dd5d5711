// Package matcher implements the price-time matching algorithm: given an
// incoming order and a book, it walks the opposite side, emits trades,
// and rests or cancels whatever remains.
package matcher

import (
	"time"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/orderbook"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/stopbook"
	"github.com/shopspring/decimal"
)

// Result is the outcome of running one order through the matcher.
type Result struct {
	Order  *obv1.Order
	Trades []*obv1.Trade
	// Triggered holds stop orders removed from the stop book as a
	// consequence of the trades in this Result, in the order
	// stopbook.Book.Triggered returns them; SubmitCascade converts and
	// matches them next.
	Triggered []*obv1.Order
}

// Matcher runs the matching algorithm for a single symbol against its
// book and stop book, tracking the last trade price the stop book
// triggers against.
type Matcher struct {
	book     *orderbook.Book
	stopBook *stopbook.Book

	hasLastTrade   bool
	lastTradePrice decimal.Decimal
}

// New constructs a Matcher over book and stopBook.
func New(book *orderbook.Book, stopBook *stopbook.Book) *Matcher {
	return &Matcher{book: book, stopBook: stopBook}
}

// CascadeResult is the full outcome of processing one ingested order,
// including every stop order its trades triggered along the way.
type CascadeResult struct {
	// Results holds one entry per order the matcher actually ran: the
	// originally submitted order first, then each triggered stop order
	// in the order it converted and matched.
	Results []*Result
}

// SubmitCascade runs order through the matcher, then processes every stop
// order its trades trigger, and every stop those trades trigger in turn,
// from an explicit work list within this single call, before returning
// control to the dispatcher (§4.2). The cascade
// terminates because each trigger removes its order from the stop book.
func (m *Matcher) SubmitCascade(order *obv1.Order, now time.Time) (*CascadeResult, error) {
	cascade := &CascadeResult{}
	pending := []*obv1.Order{order}

	for len(pending) > 0 {
		cur := pending[0]
		pending = pending[1:]

		result, err := m.Submit(cur, now)
		if err != nil {
			return nil, err
		}
		cascade.Results = append(cascade.Results, result)

		if len(result.Triggered) > 0 {
			pending = append(result.Triggered, pending...)
		}
	}

	return cascade, nil
}

// Submit runs a newly dequeued order through the matcher. now is the
// dispatcher's dequeue time, establishing the order's time priority if it
// rests.
func (m *Matcher) Submit(order *obv1.Order, now time.Time) (*Result, error) {
	order.Timestamp = now

	if order.Type.IsStop() {
		if !m.stopTriggered(order) {
			m.stopBook.Park(order)
			return &Result{Order: order}, nil
		}
		convertStop(order)
	}

	trades := m.match(order)
	result := &Result{Order: order, Trades: trades}

	switch {
	case order.IsFilled():
		order.Status = obv1.Filled
	case order.Type == obv1.Market:
		order.Status = obv1.Cancelled
		order.CancelReason = obv1.ReasonInsufficientLiquidity
	case len(trades) > 0:
		order.Status = obv1.PartiallyFilled
		m.book.Rest(order)
	default:
		order.Status = obv1.New
		m.book.Rest(order)
	}

	if len(trades) > 0 {
		m.lastTradePrice = trades[len(trades)-1].Price
		m.hasLastTrade = true
		result.Triggered = m.stopBook.Triggered(m.lastTradePrice)
	}

	return result, nil
}

// stopTriggered reports whether order's stop condition is already
// satisfied by the last trade price. With no trade yet recorded, the
// order parks unconditionally (SPEC_FULL.md §9: resolved against
// original_source, which has no stop-order precedent to convert from).
func (m *Matcher) stopTriggered(order *obv1.Order) bool {
	if !m.hasLastTrade {
		return false
	}
	if order.IsBuy() {
		return m.lastTradePrice.GreaterThanOrEqual(order.StopPrice)
	}
	return m.lastTradePrice.LessThanOrEqual(order.StopPrice)
}

// convertStop turns a triggered StopLoss/StopLimit into the Market/Limit
// order it activates as.
func convertStop(order *obv1.Order) {
	if order.Type == obv1.StopLoss {
		order.Type = obv1.Market
	} else {
		order.Type = obv1.Limit
	}
}

// match walks the book opposite order.Side, consuming resting liquidity
// FIFO within each price level, until order is filled, the book runs out
// of acceptable liquidity, or (for Limit orders) the next price is no
// longer acceptable.
func (m *Matcher) match(order *obv1.Order) []*obv1.Trade {
	var trades []*obv1.Trade
	oppositeSide := order.Side.Opposite()

	level := m.book.BestOppositeLevel(order.Side)
	for level != nil && !order.IsFilled() {
		if order.Type == obv1.Limit && !priceAcceptable(order, level.Price) {
			break
		}

		for !order.IsFilled() && !level.Empty() {
			resting := level.Front()
			qty := min64(resting.Remaining, order.Remaining)

			trade := m.makeTrade(order, resting, level.Price, qty)
			trades = append(trades, trade)

			order.Remaining -= qty
			level.ReduceFront(qty)
			if resting.IsFilled() {
				resting.Status = obv1.Filled
				m.book.RemoveFilled(resting.ID.String())
			} else {
				resting.Status = obv1.PartiallyFilled
			}
		}

		next := m.book.NextLevel(oppositeSide, level)
		m.book.DropLevelIfEmpty(oppositeSide, level)
		level = next
	}

	return trades
}

// priceAcceptable reports whether a Limit order's price permits trading
// against a resting order at restingPrice.
func priceAcceptable(order *obv1.Order, restingPrice decimal.Decimal) bool {
	if order.IsBuy() {
		return order.Price.GreaterThanOrEqual(restingPrice)
	}
	return order.Price.LessThanOrEqual(restingPrice)
}

// makeTrade builds the Trade for one fill, pricing it at the resting
// (maker) order's price — the taker receives price improvement.
func (m *Matcher) makeTrade(taker, maker *obv1.Order, price decimal.Decimal, qty int64) *obv1.Trade {
	buyOrderID, sellOrderID := taker.ID, maker.ID
	if maker.IsBuy() {
		buyOrderID, sellOrderID = maker.ID, taker.ID
	}
	return obv1.NewTrade(taker.Symbol, price, qty, buyOrderID, sellOrderID, taker.Timestamp, taker.Side)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
