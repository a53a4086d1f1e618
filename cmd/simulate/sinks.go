package main

import (
	"fmt"

	"github.com/erain9/matchbook/config"
	"github.com/erain9/matchbook/pkg/db/queue"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/messaging/kafka"
	"github.com/erain9/matchbook/pkg/messaging/redis"
)

// newSender builds the event sink selected by the messaging driver; nil
// means events are only logged
func newSender(cfg *config.Config) (messaging.MessageSender, error) {
	m := cfg.Messaging
	switch m.Driver {
	case config.DriverNone, "":
		return nil, nil
	case config.DriverKafka:
		return kafka.NewKafkaMessageSender(m.Brokers, m.Topic), nil
	case config.DriverSarama:
		sender, err := queue.NewQueueMessageSender(m.Brokers, m.Topic)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case config.DriverRedis:
		return redis.NewStreamSender(m.RedisAddr, m.Stream), nil
	default:
		return nil, fmt.Errorf("unknown messaging driver %q", m.Driver)
	}
}
