package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ms-storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Publisher emits domain events. Services depend on this rather than on Producer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	Close() error
}

type Producer struct {
	Writer *kafka.Writer
	logger *logger.Logger
}

// NewProducer returns a writer without a fixed topic; every message names its own.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, logger: log}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	msg, err := NewMessage(topic, key, value)
	if err != nil {
		return err
	}

	p.logger.LogKafka("PUBLISH", topic, fmt.Sprintf("key=%s", key))

	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("KAFKA", fmt.Sprintf("Failed to publish to %s: %v", topic, err))
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NewMessage JSON-encodes value into a keyed message for topic.
func NewMessage(topic, key string, value interface{}) (kafka.Message, error) {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s message: %w", topic, err)
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
		Time:  time.Now(),
	}, nil
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }

func (NoopPublisher) Close() error { return nil }
