package kafka

import (
	"context"
	"errors"
	"fmt"

	"ms-storefront/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer reads one topic as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start blocks, passing each message value to handler until ctx is done.
// Handler errors are logged and the message is still committed.
func (c *Consumer) Start(ctx context.Context, handler func(ctx context.Context, value []byte) error) {
	topic := c.reader.Config().Topic
	c.logger.LogKafka("CONSUME", topic, "Consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.logger.LogKafka("CONSUME", topic, "Consumer stopped")
				return
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading from %s: %v", topic, err))
			continue
		}

		if err := handler(ctx, msg.Value); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Failed to handle message %s: %v", string(msg.Key), err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
