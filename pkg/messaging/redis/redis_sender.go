package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxLen caps the stream length; trimming is approximate
const DefaultMaxLen int64 = 100000

// StreamClient is the part of *redis.Client the sender needs
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// StreamSender implements MessageSender by appending events to a Redis stream
type StreamSender struct {
	client StreamClient
	stream string
	maxLen int64
}

var _ messaging.MessageSender = (*StreamSender)(nil)

// NewStreamSender connects to addr and appends to stream
func NewStreamSender(addr, stream string) *StreamSender {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		WriteTimeout: time.Second,
	})
	return NewStreamSenderWithClient(client, stream, DefaultMaxLen)
}

// NewStreamSenderWithClient wraps an existing client
func NewStreamSenderWithClient(client StreamClient, stream string, maxLen int64) *StreamSender {
	return &StreamSender{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

// Send appends event as a flat field map
func (s *StreamSender) Send(ctx context.Context, event messaging.Event) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: fields(event),
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append event to stream %s: %w", s.stream, err)
	}
	return nil
}

// Close closes the Redis client
func (s *StreamSender) Close() error {
	return s.client.Close()
}

func fields(event messaging.Event) map[string]interface{} {
	values := map[string]interface{}{
		"id":       event.ID,
		"type":     string(event.Type),
		"client":   event.Client,
		"order_id": strconv.FormatInt(int64(event.OrderID), 10),
		"time":     event.Time.Format(time.RFC3339Nano),
	}
	if event.Type == messaging.EventOrderCanceled {
		values["reason"] = event.Reason
	} else {
		values["price"] = strconv.FormatInt(int64(event.Price), 10)
		values["amount"] = strconv.FormatInt(int64(event.Amount), 10)
	}
	return values
}
