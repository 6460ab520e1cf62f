package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Publisher sends a message body to a queue.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// AMQPSink publishes entries as JSON to a RabbitMQ queue.
type AMQPSink struct {
	publisher Publisher
	queue     string
}

// NewAMQPSink creates a sink publishing to queue.
func NewAMQPSink(publisher Publisher, queue string) *AMQPSink {
	return &AMQPSink{publisher: publisher, queue: queue}
}

func (s *AMQPSink) Append(_ context.Context, level Level, message string) error {
	body, err := json.Marshal(Entry{Level: level, Message: message, Timestamp: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if err := s.publisher.Publish(s.queue, body); err != nil {
		return fmt.Errorf("failed to publish audit entry: %w", err)
	}
	return nil
}

// DeliveryHandler decodes audit deliveries and hands them to rec.
// Malformed bodies are logged and acknowledged rather than requeued.
func DeliveryHandler(rec Recorder) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var entry Entry
		if err := json.Unmarshal(msg.Body, &entry); err != nil {
			log.Printf("Dropping malformed audit message %d: %v", msg.DeliveryTag, err)
			return nil
		}
		return rec.Record(context.Background(), entry)
	}
}
