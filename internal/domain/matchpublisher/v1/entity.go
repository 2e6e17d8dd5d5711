// Package matchpublisherv1 defines the wire shape trades are published
// in, and the boundary interface the engine publishes them through.
package matchpublisherv1

import "time"

// TradeEvent is the JSON wire shape of an executed trade, published once
// per fill. Kept independent of orderbookv1.Trade for the same reason
// ordersourcev1.Submission is independent of Order: stable external
// contract, free internal evolution.
type TradeEvent struct {
	TradeID       string    `json:"tradeID"`
	Symbol        string    `json:"symbol"`
	Price         string    `json:"price"`
	Quantity      int64     `json:"quantity"`
	BuyOrderID    string    `json:"buyOrderID"`
	SellOrderID   string    `json:"sellOrderID"`
	AggressorSide string    `json:"aggressorSide"`
	Timestamp     time.Time `json:"timestamp"`
}
