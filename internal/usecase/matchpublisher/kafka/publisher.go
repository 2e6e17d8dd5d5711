// Package kafka is the optional Kafka-backed MatchPublisher, grounded on
// matching-engine's usecase/match-publisher/publisher.go with the
// protobuf payload swapped for plain JSON (see DESIGN.md: the proto/
// code-generation module is not carried forward) and pkg/errors.NewTracer
// replaced by fmt.Errorf.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	matchpublisherv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/matchpublisher/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher writes trade events to a Kafka topic as JSON.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

// New constructs a Publisher writing to topic on brokers.
func New(brokers []string, topic string, log *logger.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: log,
	}
}

// PublishTrade serializes event as JSON and writes it to the topic.
func (p *Publisher) PublishTrade(ctx context.Context, event matchpublisherv1.TradeEvent) error {
	value, err := encodeTradeEvent(event)
	if err != nil {
		return fmt.Errorf("marshal trade event %s: %w", event.TradeID, err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		p.logger.Error(err, logger.Field{Key: "tradeID", Value: event.TradeID})
		return fmt.Errorf("publish trade event %s: %w", event.TradeID, err)
	}
	return nil
}

// encodeTradeEvent serializes event as the wire JSON payload. Split out
// from PublishTrade so the wire format can be tested without a running
// broker.
func encodeTradeEvent(event matchpublisherv1.TradeEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Close flushes and closes the underlying Kafka writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
