package orderbookv1

import "errors"

// Validation errors, returned by Order.Validate and surfaced as Rejected
// before the order ever reaches the book.
var (
	ErrNonPositiveQuantity = errors.New("orderbook: quantity must be positive")
	ErrMissingPrice        = errors.New("orderbook: price is required for this order type")
	ErrMissingStopPrice    = errors.New("orderbook: stop price is required for this order type")
	// ErrSymbolMismatch is returned when a submission names a symbol
	// other than the one this engine instance is configured for.
	ErrSymbolMismatch = errors.New("orderbook: symbol mismatch")
)

// State errors, returned by the book/engine once an order is known.
var (
	// ErrNotFound is returned by Cancel/Modify when no resting or parked
	// order with the given id exists.
	ErrNotFound = errors.New("orderbook: order not found")
	// ErrAlreadyTerminal is returned by Cancel/Modify against an order
	// that has already reached Filled, Cancelled, or Rejected.
	ErrAlreadyTerminal = errors.New("orderbook: order already in a terminal state")
	// ErrAlreadyFilled is the ErrAlreadyTerminal case specific to a fully
	// filled order. The book and engine do not return it: a fully filled
	// order leaves the book's index, so Cancel and Modify against it
	// return ErrNotFound.
	ErrAlreadyFilled = errors.New("orderbook: order already filled")
	// ErrRejected is returned by Modify when a new quantity would fall
	// below the order's already-filled quantity.
	ErrRejected = errors.New("orderbook: modify rejected")
)

// Engine-level errors, returned by the ingestion boundary rather than the
// book itself.
var (
	// ErrQueueFull is returned by Submit/Cancel/Modify when the ingestion
	// queue is at capacity.
	ErrQueueFull = errors.New("engine: ingestion queue is full")
	// ErrShutdown is returned by Submit/Cancel/Modify once the engine has
	// begun or finished shutting down.
	ErrShutdown = errors.New("engine: shut down")
)
