package engine

import (
	"fmt"
	"time"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	ordersourcev1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/ordersource/v1"
	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/orderbook"
	"github.com/muhammadchandra19/exchange/services/matching-core/internal/usecase/stopbook"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func parseSide(s string) (obv1.Side, error) {
	switch s {
	case "buy":
		return obv1.Buy, nil
	case "sell":
		return obv1.Sell, nil
	default:
		return 0, fmt.Errorf("orderbook: unknown side %q", s)
	}
}

func parseType(s string) (obv1.Type, error) {
	switch s {
	case "market":
		return obv1.Market, nil
	case "limit":
		return obv1.Limit, nil
	case "stop_loss":
		return obv1.StopLoss, nil
	case "stop_limit":
		return obv1.StopLimit, nil
	default:
		return 0, fmt.Errorf("orderbook: unknown order type %q", s)
	}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// buildOrder translates a wire Submission into a domain Order. now becomes
// the order's initial timestamp, overwritten with the dispatcher's dequeue
// time once it actually runs through the matcher. symbol is the engine
// instance's configured symbol; a submission naming any other symbol is
// rejected rather than silently accepted, per SPEC_FULL.md §4.3/§7.
func buildOrder(sub ordersourcev1.Submission, symbol string, now time.Time) (*obv1.Order, error) {
	if sub.Symbol != symbol {
		return nil, fmt.Errorf("%w: submission symbol %q, engine symbol %q", obv1.ErrSymbolMismatch, sub.Symbol, symbol)
	}

	side, err := parseSide(sub.Side)
	if err != nil {
		return nil, err
	}
	typ, err := parseType(sub.Type)
	if err != nil {
		return nil, err
	}
	price, err := parseDecimal(sub.Price)
	if err != nil {
		return nil, fmt.Errorf("orderbook: invalid price %q: %w", sub.Price, err)
	}
	stopPrice, err := parseDecimal(sub.StopPrice)
	if err != nil {
		return nil, fmt.Errorf("orderbook: invalid stop price %q: %w", sub.StopPrice, err)
	}

	order := obv1.NewOrder(sub.Symbol, side, typ, sub.Quantity, price, stopPrice, sub.ClientID, now)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func toBookOrder(o *obv1.Order) snapshotv1.BookOrder {
	return snapshotv1.BookOrder{
		OrderID:   o.ID.String(),
		ClientID:  o.ClientID,
		Side:      o.Side.String(),
		Type:      o.Type.String(),
		Price:     o.Price.String(),
		StopPrice: o.StopPrice.String(),
		Quantity:  o.Quantity,
		Remaining: o.Remaining,
		Timestamp: o.Timestamp.UnixNano(),
	}
}

// buildSnapshot captures every resting and parked order into a
// symbol-scoped, JSON-serializable Snapshot.
func buildSnapshot(symbol string, book *orderbook.Book, stops *stopbook.Book, now time.Time) *snapshotv1.Snapshot {
	snap := &snapshotv1.Snapshot{Symbol: symbol, TakenAt: now}

	bidLevels, askLevels := book.Depth(0)
	for _, level := range bidLevels {
		for _, o := range level.Orders() {
			snap.Bids = append(snap.Bids, toBookOrder(o))
		}
	}
	for _, level := range askLevels {
		for _, o := range level.Orders() {
			snap.Asks = append(snap.Asks, toBookOrder(o))
		}
	}
	for _, o := range stops.BuyOrders() {
		snap.StopBuys = append(snap.StopBuys, toBookOrder(o))
	}
	for _, o := range stops.SellOrders() {
		snap.StopSells = append(snap.StopSells, toBookOrder(o))
	}
	return snap
}

func sideFromSnapshotLabel(s string) (obv1.Side, error) {
	switch s {
	case "BUY":
		return obv1.Buy, nil
	case "SELL":
		return obv1.Sell, nil
	default:
		return 0, fmt.Errorf("orderbook: unknown snapshot side %q", s)
	}
}

func typeFromSnapshotLabel(s string) (obv1.Type, error) {
	switch s {
	case "MARKET":
		return obv1.Market, nil
	case "LIMIT":
		return obv1.Limit, nil
	case "STOP_LOSS":
		return obv1.StopLoss, nil
	case "STOP_LIMIT":
		return obv1.StopLimit, nil
	default:
		return 0, fmt.Errorf("orderbook: unknown snapshot order type %q", s)
	}
}

func fromBookOrder(b snapshotv1.BookOrder) (*obv1.Order, error) {
	side, err := sideFromSnapshotLabel(b.Side)
	if err != nil {
		return nil, err
	}
	typ, err := typeFromSnapshotLabel(b.Type)
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(b.Price)
	if err != nil {
		return nil, err
	}
	stopPrice, err := decimal.NewFromString(b.StopPrice)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(b.OrderID)
	if err != nil {
		return nil, err
	}

	order := obv1.NewOrder("", side, typ, b.Quantity, price, stopPrice, b.ClientID, time.Unix(0, b.Timestamp))
	order.ID = id
	order.Remaining = b.Remaining
	return order, nil
}

// restoreSnapshot repopulates an empty book and stop book from a
// previously stored Snapshot.
func restoreSnapshot(snap *snapshotv1.Snapshot, book *orderbook.Book, stops *stopbook.Book) error {
	for _, list := range [][]snapshotv1.BookOrder{snap.Bids, snap.Asks} {
		for _, b := range list {
			order, err := fromBookOrder(b)
			if err != nil {
				return err
			}
			order.Symbol = snap.Symbol
			book.Rest(order)
		}
	}
	for _, list := range [][]snapshotv1.BookOrder{snap.StopBuys, snap.StopSells} {
		for _, b := range list {
			order, err := fromBookOrder(b)
			if err != nil {
				return err
			}
			order.Symbol = snap.Symbol
			stops.Park(order)
		}
	}
	return nil
}
