// Package snapshotv1 defines the order book snapshot shape and the
// storage boundary the engine persists it through.
package snapshotv1

import "time"

// Snapshot is a point-in-time, JSON-serializable capture of one symbol's
// resting orders, sufficient to rebuild the book on restart without
// replaying every order the symbol has ever seen.
type Snapshot struct {
	Symbol    string      `json:"symbol"`
	TakenAt   time.Time   `json:"takenAt"`
	Bids      []BookOrder `json:"bids"`
	Asks      []BookOrder `json:"asks"`
	StopBuys  []BookOrder `json:"stopBuys"`
	StopSells []BookOrder `json:"stopSells"`
}

// BookOrder is the subset of Order fields needed to restore a resting or
// parked order, kept independent of the domain Order type so the wire
// shape is stable even if the in-memory type grows fields.
type BookOrder struct {
	OrderID   string `json:"orderID"`
	ClientID  string `json:"clientID"`
	Side      string `json:"side"`
	Type      string `json:"type"`
	Price     string `json:"price"`
	StopPrice string `json:"stopPrice"`
	Quantity  int64  `json:"quantity"`
	Remaining int64  `json:"remaining"`
	Timestamp int64  `json:"timestamp"` // unix nanoseconds
}
