// Package kafka is the optional Kafka-backed OrderSource, grounded on
// matching-engine's usecase/order-reader/consumer.go with the protobuf
// payload swapped for a JSON envelope discriminated by a "kind" field
// (see DESIGN.md).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	ordersourcev1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/ordersource/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// envelope is the wire shape of one Kafka message: a kind discriminator
// plus whichever payload field that kind fills in.
type envelope struct {
	Kind   ordersourcev1.Kind              `json:"kind"`
	Submit *ordersourcev1.Submission       `json:"submit,omitempty"`
	Cancel *ordersourcev1.CancelSubmission `json:"cancel,omitempty"`
	Modify *ordersourcev1.ModifySubmission `json:"modify,omitempty"`
}

// Reader consumes order traffic from a Kafka topic.
type Reader struct {
	reader *kafka.Reader
	logger *logger.Logger
}

// New constructs a Reader for topic on brokers, joining consumer group
// groupID. An empty groupID reads from LastOffset with no group
// coordination, matching the teacher's single-partition default.
func New(brokers []string, topic, groupID string, log *logger.Logger) *Reader {
	cfg := kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	}
	if groupID != "" {
		cfg.GroupID = groupID
	} else {
		cfg.StartOffset = kafka.LastOffset
	}

	return &Reader{reader: kafka.NewReader(cfg), logger: log}
}

// Next reads and decodes the next message from the topic.
func (r *Reader) Next(ctx context.Context) (ordersourcev1.Message, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return ordersourcev1.Message{}, fmt.Errorf("read order message: %w", err)
	}

	decoded, err := decodeEnvelope(msg.Value)
	if err != nil {
		r.logger.Error(err, logger.Field{Key: "offset", Value: msg.Offset})
		return ordersourcev1.Message{}, fmt.Errorf("unmarshal order message at offset %d: %w", msg.Offset, err)
	}
	return decoded, nil
}

// decodeEnvelope parses one Kafka message value into the domain Message
// shape. Split out from Next so the wire format can be tested without a
// running broker.
func decodeEnvelope(value []byte) (ordersourcev1.Message, error) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return ordersourcev1.Message{}, err
	}
	return ordersourcev1.Message{
		Kind:   env.Kind,
		Submit: env.Submit,
		Cancel: env.Cancel,
		Modify: env.Modify,
	}, nil
}

// Close closes the underlying Kafka reader.
func (r *Reader) Close() error {
	return r.reader.Close()
}
