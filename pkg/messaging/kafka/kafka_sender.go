package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/segmentio/kafka-go"
)

const sendTimeout = 5 * time.Second

// Writer is the part of *kafka.Writer the sender needs
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaMessageSender implements MessageSender using Kafka, encoding
// events as JSON keyed by order id
type KafkaMessageSender struct {
	writer Writer
	topic  string
}

var _ messaging.MessageSender = (*KafkaMessageSender)(nil)

// NewKafkaMessageSender creates a new Kafka message sender
func NewKafkaMessageSender(brokers []string, topic string) *KafkaMessageSender {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewKafkaMessageSenderWithWriter(writer, topic)
}

// NewKafkaMessageSenderWithWriter wraps an existing writer
func NewKafkaMessageSenderWithWriter(writer Writer, topic string) *KafkaMessageSender {
	return &KafkaMessageSender{
		writer: writer,
		topic:  topic,
	}
}

// Send writes event to the topic
func (k *KafkaMessageSender) Send(ctx context.Context, event messaging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Time:  event.Time,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka topic %s: %w", k.topic, err)
	}
	return nil
}

// Close closes the Kafka writer
func (k *KafkaMessageSender) Close() error {
	return k.writer.Close()
}
