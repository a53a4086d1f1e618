package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogClient(t *testing.T) {
	var buf bytes.Buffer
	client := NewLogClient("alice", zerolog.New(&buf))
	assert.Equal(t, "alice", client.Name())

	client.OnOrderPlaced(1, 100, 10)
	client.OnOrderTraded(1, 100, 4)
	client.OnOrderCanceled(1, core.CancelReasonClientRequest)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var entries []map[string]interface{}
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, "alice", entry["client"])
		assert.Equal(t, "1", entry["order_id"])
		entries = append(entries, entry)
	}
	assert.Equal(t, "Order placed", entries[0]["message"])
	assert.Equal(t, "10", entries[0]["amount"])
	assert.Equal(t, "Order traded", entries[1]["message"])
	assert.Equal(t, "4", entries[1]["amount"])
	assert.Equal(t, "Order canceled", entries[2]["message"])
	assert.Equal(t, "CLIENT_REQUEST", entries[2]["reason"])
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.OnOrderPlaced(3, 100, 10)
	r.OnOrderTraded(3, 100, 4)
	r.OnOrderTraded(3, 101, 6)
	r.OnOrderCanceled(5, core.CancelReasonClientRequest)

	notes := r.Notifications()
	require.Len(t, notes, 4)
	assert.Equal(t, Notification{Kind: Placed, OrderID: 3, Price: 100, Amount: 10}, notes[0])
	assert.Equal(t, Canceled, notes[3].Kind)
	assert.Equal(t, core.CancelReasonClientRequest, notes[3].Reason)

	assert.Equal(t, 2, r.Count(Traded))
	assert.Equal(t, core.Amount(10), r.TradedAmount(3))
	assert.Equal(t, core.Amount(0), r.TradedAmount(5))

	r.Reset()
	assert.Empty(t, r.Notifications())
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id core.OrderID) {
			defer wg.Done()
			r.OnOrderPlaced(id, 1, 1)
			r.OnOrderTraded(id, 1, 1)
		}(core.OrderID(i))
	}
	wg.Wait()
	assert.Equal(t, 20, r.Count(Placed))
	assert.Equal(t, 20, r.Count(Traded))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "placed", Placed.String())
	assert.Equal(t, "canceled", Canceled.String())
	assert.Equal(t, "traded", Traded.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestPublisher(t *testing.T) {
	sender := messaging.NewMockMessageSender()
	p := NewPublisher("bob", sender, zerolog.Nop())
	assert.Equal(t, "bob", p.Name())

	p.OnOrderPlaced(7, 99, 5)
	p.OnOrderTraded(7, 99, 2)
	p.OnOrderCanceled(7, core.CancelReasonClientRequest)

	events := sender.Events()
	require.Len(t, events, 3)

	assert.Equal(t, messaging.EventOrderPlaced, events[0].Type)
	assert.Equal(t, "bob", events[0].Client)
	assert.Equal(t, int32(7), events[0].OrderID)
	assert.Equal(t, int32(99), events[0].Price)
	assert.Equal(t, int32(5), events[0].Amount)

	assert.Equal(t, messaging.EventOrderTraded, events[1].Type)
	assert.Equal(t, int32(2), events[1].Amount)

	assert.Equal(t, messaging.EventOrderCanceled, events[2].Type)
	assert.Equal(t, "CLIENT_REQUEST", events[2].Reason)

	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestPublisher_SendFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	sender := messaging.NewMockMessageSender()
	sender.FailWith(errors.New("broker unavailable"))
	p := NewPublisher("bob", sender, zerolog.New(&buf))

	assert.NotPanics(t, func() { p.OnOrderPlaced(1, 10, 1) })
	assert.Contains(t, buf.String(), "Failed to publish event")
	assert.Contains(t, buf.String(), "broker unavailable")
	assert.Empty(t, sender.Events())
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := NewMulti(a, nil, b)

	m.OnOrderPlaced(1, 10, 2)
	m.OnOrderTraded(1, 10, 2)
	m.OnOrderCanceled(2, core.CancelReasonClientRequest)

	assert.Equal(t, a.Notifications(), b.Notifications())
	assert.Len(t, a.Notifications(), 3)
}
