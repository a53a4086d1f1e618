package queue

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/erain9/matchbook/pkg/messaging"
)

const maxRetry = 5

// Producer is the part of sarama.SyncProducer the sender needs
type Producer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

// QueueMessageSender implements the MessageSender interface
// for sending protobuf encoded events to Kafka
type QueueMessageSender struct {
	producer Producer
	topic    string
}

var _ messaging.MessageSender = (*QueueMessageSender)(nil)

// NewQueueMessageSender connects a synchronous producer to brokers
func NewQueueMessageSender(brokers []string, topic string) (*QueueMessageSender, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxRetry
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewQueueMessageSenderWithProducer(producer, topic), nil
}

// NewQueueMessageSenderWithProducer wraps an existing producer
func NewQueueMessageSenderWithProducer(producer Producer, topic string) *QueueMessageSender {
	return &QueueMessageSender{producer: producer, topic: topic}
}

// Send publishes event and waits for the broker acknowledgement
func (q *QueueMessageSender) Send(ctx context.Context, event messaging.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}
	return nil
}

// Close closes the producer
func (q *QueueMessageSender) Close() error {
	return q.producer.Close()
}
