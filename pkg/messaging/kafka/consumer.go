package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Reader is the part of *kafka.Reader the consumer needs
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads order events published by KafkaMessageSender
type Consumer struct {
	reader Reader
	logger zerolog.Logger
}

// NewConsumer creates a consumer reading topic as part of groupID
func NewConsumer(brokers []string, topic, groupID string, logger zerolog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return NewConsumerWithReader(reader, logger)
}

// NewConsumerWithReader wraps an existing reader
func NewConsumerWithReader(reader Reader, logger zerolog.Logger) *Consumer {
	return &Consumer{reader: reader, logger: logger}
}

// Consume hands every event to handler until ctx is done. Messages that do
// not decode are logged and committed; a handler error stops consumption
// without committing the message.
func (c *Consumer) Consume(ctx context.Context, handler func(messaging.Event) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		var event messaging.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn().Err(err).
				Int64("offset", msg.Offset).
				Msg("Skipping undecodable message")
		} else if err := handler(event); err != nil {
			return fmt.Errorf("failed to handle event %s: %w", event.ID, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit offset %d: %w", msg.Offset, err)
		}
	}
}

// Close closes the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
