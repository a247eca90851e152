// File: internal/events/kafka/producer.go
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes auth events to Kafka. A nil *Producer is a valid no-op
// publisher, so deployments without Kafka simply skip event emission.
type Producer struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewProducer creates a Producer writing to topic on brokers.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}

// PublishEvent marshals payload as JSON and writes it keyed by key. Failures
// are logged and returned but callers treat publication as best-effort.
func (p *Producer) PublishEvent(ctx context.Context, eventType string, key string, payload interface{}) error {
	if p == nil {
		return nil
	}

	envelope := Envelope{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("Failed to write event to Kafka",
			zap.String("topic", p.topic),
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to write event to Kafka: %w", err)
	}

	return nil
}
