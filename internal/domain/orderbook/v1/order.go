// Package orderbookv1 holds the domain types shared by the order book,
// matcher, and stop book: orders, trades, sides, and the sentinel errors
// those components return.
package orderbookv1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int

const (
	// Buy is a bid.
	Buy Side = iota
	// Sell is an ask.
	Sell
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Type is the kind of order accepted by the matcher.
type Type int

const (
	// Market consumes liquidity at the best available price; any
	// residual is cancelled, never rested.
	Market Type = iota
	// Limit rests on the book at Price if not immediately filled.
	Limit
	// StopLoss converts to a Market order once the stop price triggers.
	StopLoss
	// StopLimit converts to a Limit order once the stop price triggers.
	StopLimit
)

func (t Type) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	case StopLoss:
		return "STOP_LOSS"
	case StopLimit:
		return "STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// IsStop reports whether t parks in the stop book before activating.
func (t Type) IsStop() bool {
	return t == StopLoss || t == StopLimit
}

// Status is the lifecycle state of an order.
type Status int

const (
	// New has not yet traded.
	New Status = iota
	// PartiallyFilled has traded some but not all of its quantity.
	PartiallyFilled
	// Filled has traded its full quantity.
	Filled
	// Cancelled was removed without trading its full quantity.
	Cancelled
	// Rejected failed validation and never entered the book.
	Rejected
)

func (s Status) String() string {
	switch s {
	case New:
		return "NEW"
	case PartiallyFilled:
		return "PARTIALLY_FILLED"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether the order can no longer be cancelled or
// modified.
func (s Status) IsTerminal() bool {
	return s == Filled || s == Cancelled || s == Rejected
}

// CancelReason qualifies why an order was cancelled instead of rested or
// fully filled.
type CancelReason string

const (
	// ReasonNone applies when the order wasn't cancelled.
	ReasonNone CancelReason = ""
	// ReasonInsufficientLiquidity is set on a Market order's residual.
	ReasonInsufficientLiquidity CancelReason = "InsufficientLiquidity"
	// ReasonRequested is set when a caller explicitly cancelled the order.
	ReasonRequested CancelReason = "Requested"
)

// Order is a single order submission, tracked from ingestion through its
// terminal state.
type Order struct {
	ID        uuid.UUID
	Symbol    string
	Side      Side
	Type      Type
	Quantity  int64
	Remaining int64
	// Price is the limit price; required for Limit and StopLimit, unused
	// for Market and (pre-trigger) StopLoss.
	Price decimal.Decimal
	// StopPrice is the trigger price; required for StopLoss and StopLimit.
	StopPrice    decimal.Decimal
	ClientID     string
	Timestamp    time.Time
	Status       Status
	CancelReason CancelReason
}

// NewOrder constructs an Order in status New with Remaining==Quantity and
// a fresh id. timestamp should be the dispatcher's dequeue time, which
// establishes time priority (§3, §5).
func NewOrder(symbol string, side Side, typ Type, quantity int64, price, stopPrice decimal.Decimal, clientID string, timestamp time.Time) *Order {
	return &Order{
		ID:        uuid.New(),
		Symbol:    symbol,
		Side:      side,
		Type:      typ,
		Quantity:  quantity,
		Remaining: quantity,
		Price:     price,
		StopPrice: stopPrice,
		ClientID:  clientID,
		Timestamp: timestamp,
		Status:    New,
	}
}

// IsBuy reports whether the order is a bid.
func (o *Order) IsBuy() bool { return o.Side == Buy }

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool { return o.Remaining <= 0 }

// FilledQuantity returns how much of the order has traded so far.
func (o *Order) FilledQuantity() int64 { return o.Quantity - o.Remaining }

// Validate checks the structural requirements from §3/§7: positive
// quantity, a price for types that need one. It never touches the book.
func (o *Order) Validate() error {
	if o.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	switch o.Type {
	case Limit, StopLimit:
		if o.Price.Sign() <= 0 {
			return ErrMissingPrice
		}
	}
	switch o.Type {
	case StopLoss, StopLimit:
		if o.StopPrice.Sign() <= 0 {
			return ErrMissingStopPrice
		}
	}
	return nil
}

// Trade is a single execution between an aggressor and a resting order.
type Trade struct {
	ID            uuid.UUID
	Symbol        string
	Price         decimal.Decimal
	Quantity      int64
	BuyOrderID    uuid.UUID
	SellOrderID   uuid.UUID
	Timestamp     time.Time
	AggressorSide Side
}

// NewTrade constructs a Trade with a fresh id.
func NewTrade(symbol string, price decimal.Decimal, quantity int64, buyOrderID, sellOrderID uuid.UUID, timestamp time.Time, aggressorSide Side) *Trade {
	return &Trade{
		ID:            uuid.New(),
		Symbol:        symbol,
		Price:         price,
		Quantity:      quantity,
		BuyOrderID:    buyOrderID,
		SellOrderID:   sellOrderID,
		Timestamp:     timestamp,
		AggressorSide: aggressorSide,
	}
}
