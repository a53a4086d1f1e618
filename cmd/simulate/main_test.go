package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/erain9/matchbook/config"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/messaging/kafka"
	"github.com/erain9/matchbook/pkg/messaging/redis"
	"github.com/erain9/matchbook/pkg/notify"
	"github.com/erain9/matchbook/pkg/simulation"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender(t *testing.T) {
	cfg := config.Default()

	sender, err := newSender(cfg)
	require.NoError(t, err)
	assert.Nil(t, sender)

	cfg.Messaging.Driver = config.DriverKafka
	sender, err = newSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &kafka.KafkaMessageSender{}, sender)
	assert.NoError(t, sender.Close())

	cfg.Messaging.Driver = config.DriverRedis
	sender, err = newSender(cfg)
	require.NoError(t, err)
	assert.IsType(t, &redis.StreamSender{}, sender)
	assert.NoError(t, sender.Close())

	cfg.Messaging.Driver = "smoke-signals"
	_, err = newSender(cfg)
	assert.Error(t, err)
}

func TestClientFactory(t *testing.T) {
	assert.IsType(t, &notify.LogClient{}, clientFactory(nil)("alice"))

	sender := messaging.NewMockMessageSender()
	client := clientFactory(sender)("alice")
	require.IsType(t, &notify.Multi{}, client)

	client.OnOrderPlaced(1, 100, 5)
	events := sender.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].Client)
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	printSummary(&buf, &simulation.Report{
		Clients:  2,
		Placed:   20,
		Canceled: 3,
		Trades:   7,
		Duration: 1500 * time.Microsecond,
		Bids:     []core.LevelSnapshot{{Price: 99, Orders: 2, Volume: 30}},
	})

	out := buf.String()
	assert.Contains(t, out, "Total orders processed:")
	assert.Contains(t, out, "20")
	assert.Contains(t, out, "99 x 30 (2 orders)")
	assert.Contains(t, out, "Best ask:")

	buf.Reset()
	printSummary(&buf, nil)
	assert.Empty(t, buf.String())
}
