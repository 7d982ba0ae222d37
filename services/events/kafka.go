package eventsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/trezcool/findgreatschool/core"
)

// KafkaPublisher publishes JSON-encoded events to a Kafka topic, keyed by Event.Key.
// Writes are asynchronous: delivery failures are logged.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger core.Logger
}

var _ core.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(conf *core.Config, logger core.Logger) *KafkaPublisher {
	p := &KafkaPublisher{logger: logger}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(conf.Kafka.Brokers...),
		Topic:        conf.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   p.completed,
	}
	return p
}

func (p *KafkaPublisher) completed(messages []kafka.Message, err error) {
	if err != nil {
		p.logger.Error(fmt.Sprintf("publishing %d events: %v", len(messages), err), err)
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...core.Event) {
	messages := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			p.logger.Error(fmt.Sprintf("marshaling event %s: %v", ev.Type, err), err)
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(ev.Key),
			Value: value,
			Time:  ev.OccurredAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(ev.Type)},
			},
		})
	}
	if len(messages) == 0 {
		return
	}
	// the request context may be gone before the batch is flushed
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), messages...); err != nil {
		p.logger.Error(fmt.Sprintf("publishing %d events: %v", len(messages), err), err)
	}
}

// Close flushes pending writes and closes the underlying Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
