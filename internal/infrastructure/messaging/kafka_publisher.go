package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/julofinance/credit-engine/pkg/events"
	"github.com/julofinance/credit-engine/pkg/kafka"
)

// KafkaEventPublisher implements events.EventPublisher by writing scoring
// events to a Kafka topic, keyed by aggregate ID.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *slog.Logger
}

// NewKafkaEventPublisher creates a publisher targeting the given topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, log *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic, log: log}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
			},
		})
	}
	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	p.log.Debug("published domain events", "topic", p.topic, "count", len(messages))
	return nil
}
