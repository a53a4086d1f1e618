package queue

import (
	"context"
	"fmt"
	"io"

	"github.com/IBM/sarama"
	"github.com/erain9/matchbook/pkg/messaging"
)

// PartitionConsumer is the part of sarama.PartitionConsumer the consumer needs
type PartitionConsumer interface {
	Messages() <-chan *sarama.ConsumerMessage
	Errors() <-chan *sarama.ConsumerError
	Close() error
}

// QueueMessageConsumer reads events published by QueueMessageSender from
// a single partition
type QueueMessageConsumer struct {
	partition PartitionConsumer
	parent    io.Closer
}

// NewQueueMessageConsumer consumes partition 0 of topic from the newest offset
func NewQueueMessageConsumer(brokers []string, topic string) (*QueueMessageConsumer, error) {
	consumer, err := sarama.NewConsumer(brokers, sarama.NewConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	partition, err := consumer.ConsumePartition(topic, 0, sarama.OffsetNewest)
	if err != nil {
		_ = consumer.Close()
		return nil, fmt.Errorf("failed to consume partition: %w", err)
	}

	return &QueueMessageConsumer{partition: partition, parent: consumer}, nil
}

// NewQueueMessageConsumerWithPartition wraps an existing partition consumer
func NewQueueMessageConsumerWithPartition(partition PartitionConsumer) *QueueMessageConsumer {
	return &QueueMessageConsumer{partition: partition}
}

// ConsumeEvents hands every decoded event to handler until ctx is done or
// the partition is closed
func (c *QueueMessageConsumer) ConsumeEvents(ctx context.Context, handler func(messaging.Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-c.partition.Messages():
			if !ok {
				return nil
			}
			event, err := DecodeEvent(msg.Value)
			if err != nil {
				return fmt.Errorf("offset %d: %w", msg.Offset, err)
			}
			if err := handler(event); err != nil {
				return err
			}
		case cerr, ok := <-c.partition.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("consumer error: %w", cerr.Err)
		}
	}
}

// Close stops the partition consumer and its parent consumer
func (c *QueueMessageConsumer) Close() error {
	err := c.partition.Close()
	if c.parent != nil {
		if perr := c.parent.Close(); err == nil {
			err = perr
		}
	}
	return err
}
