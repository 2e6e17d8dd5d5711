package ordersourcev1

import "context"

// Kind distinguishes the three message shapes an OrderSource can deliver.
type Kind string

const (
	KindSubmit Kind = "submit"
	KindCancel Kind = "cancel"
	KindModify Kind = "modify"
)

// Message is one decoded unit of work read from the source.
type Message struct {
	Kind   Kind
	Submit *Submission
	Cancel *CancelSubmission
	Modify *ModifySubmission
}

// OrderSource reads incoming order traffic for the engine to enqueue.
// matching-core's default wiring is the in-process Submit/Cancel/Modify
// calls on the engine itself; OrderSource is the optional external
// boundary (Kafka) that feeds those same calls from outside the process.
type OrderSource interface {
	// Next blocks until a message is available, ctx is cancelled, or the
	// source is exhausted/closed.
	Next(ctx context.Context) (Message, error)
	Close() error
}
