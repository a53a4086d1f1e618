package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventOrderTraded, "alice", 42)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, EventOrderTraded, event.Type)
	assert.Equal(t, "alice", event.Client)
	assert.Equal(t, int32(42), event.OrderID)
	assert.False(t, event.Time.IsZero())
	assert.Equal(t, "42", event.Key())

	other := NewEvent(EventOrderTraded, "alice", 42)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestEvent_JSON(t *testing.T) {
	event := NewEvent(EventOrderCanceled, "bob", 7)
	event.Reason = "CLIENT_REQUEST"

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "order_canceled", fields["type"])
	assert.Equal(t, "CLIENT_REQUEST", fields["reason"])
	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "amount")
}

func TestMockMessageSender(t *testing.T) {
	sender := NewMockMessageSender()
	ctx := context.Background()

	require.NoError(t, sender.Send(ctx, NewEvent(EventOrderPlaced, "a", 1)))
	require.NoError(t, sender.Send(ctx, NewEvent(EventOrderPlaced, "a", 2)))
	assert.Len(t, sender.Events(), 2)

	boom := errors.New("broker down")
	sender.FailWith(boom)
	assert.ErrorIs(t, sender.Send(ctx, NewEvent(EventOrderPlaced, "a", 3)), boom)
	assert.Len(t, sender.Events(), 2)

	require.NoError(t, sender.Close())
	assert.True(t, sender.Closed())
}
