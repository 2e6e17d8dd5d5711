// Package ordersourcev1 defines the wire shape and boundary interface
// the engine reads incoming order submissions through.
package ordersourcev1

// Submission is the JSON wire shape of an incoming order request. It is
// deliberately independent of the internal Order type: field names here
// are the external contract, while orderbookv1.Order is free to change
// shape without breaking wire compatibility.
//
// The teacher's equivalent (pb.PlaceOrderPayload) is protobuf-generated;
// this module treats wire encoding as out of scope for code generation
// (SPEC_FULL.md §1/§6) and uses a plain JSON struct instead.
type Submission struct {
	Symbol    string `json:"symbol"`
	ClientID  string `json:"clientID"`
	Side      string `json:"side"`      // "buy" or "sell"
	Type      string `json:"type"`      // "market", "limit", "stop_loss", "stop_limit"
	Quantity  int64  `json:"quantity"`
	Price     string `json:"price,omitempty"`
	StopPrice string `json:"stopPrice,omitempty"`
}

// CancelSubmission is the JSON wire shape of an incoming cancel request.
type CancelSubmission struct {
	OrderID string `json:"orderID"`
}

// ModifySubmission is the JSON wire shape of an incoming modify request.
type ModifySubmission struct {
	OrderID  string  `json:"orderID"`
	Quantity *int64  `json:"quantity,omitempty"`
	Price    *string `json:"price,omitempty"`
}
