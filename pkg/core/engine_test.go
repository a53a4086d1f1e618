package core

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrder_Validation(t *testing.T) {
	client := newTestClient("c")

	tests := []struct {
		name   string
		side   Side
		price  Price
		amount Amount
		client Client
		reason string
	}{
		{"nil client", Buy, 100, 10, nil, "invalid client"},
		{"zero price", Buy, 0, 10, client, "invalid price"},
		{"negative price", Sell, -5, 10, client, "invalid price"},
		{"zero amount", Buy, 100, 0, client, "invalid amount"},
		{"negative amount", Sell, 100, -1, client, "invalid amount"},
		{"unknown side", Side(7), 100, 10, client, "invalid side"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newMockBackend()
			engine := newTestEngine(backend)

			resp := engine.PlaceOrder(context.Background(), tt.side, tt.price, tt.amount, tt.client)

			assert.Equal(t, StatusInvalidOrder, resp.Status)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Equal(t, InvalidOrderID, resp.OrderID)
			assert.Equal(t, MinOrderID, engine.NextOrderID(), "rejected orders must not consume ids")
			assert.Equal(t, 0, engine.LiveOrders())
		})
	}
	assert.Empty(t, client.Events())
}

func TestPlaceOrder_AssignsSequentialIDs(t *testing.T) {
	engine := newTestEngine(newMockBackend(), WithIDRange(100, 0))
	client := newTestClient("c")
	ctx := context.Background()

	for want := OrderID(100); want < 105; want++ {
		resp := engine.PlaceOrder(ctx, Buy, 10, 1, client)
		require.True(t, resp.OK())
		assert.Equal(t, want, resp.OrderID)
		assert.Equal(t, "order placed successfully", resp.Reason)
	}
	assert.Equal(t, OrderID(105), engine.NextOrderID())
	assert.Equal(t, 5, engine.LiveOrders())
}

func TestPlaceOrder_NotificationOrder(t *testing.T) {
	backend := newMockBackend()
	engine := newTestEngine(backend)
	seller, buyer := newTestClient("seller"), newTestClient("buyer")
	ctx := context.Background()

	sell := engine.PlaceOrder(ctx, Sell, 100, 3, seller)
	buy := engine.PlaceOrder(ctx, Buy, 100, 3, buyer)
	require.True(t, buy.OK())

	assert.Equal(t, []string{
		"placed:" + buy.OrderID.String(),
		"traded:" + buy.OrderID.String() + ":3@100",
	}, buyer.Events())
	assert.Equal(t, []string{
		"placed:" + sell.OrderID.String(),
		"traded:" + sell.OrderID.String() + ":3@100",
	}, seller.Events())
	assert.Equal(t, 0, engine.LiveOrders())
}

func TestPlaceOrder_IDCollision(t *testing.T) {
	backend := newMockBackend()
	// A single-value id space wraps onto itself on every call.
	engine := newTestEngine(backend, WithIDRange(MaxOrderID, MaxOrderID))
	client := newTestClient("c")
	ctx := context.Background()

	first := engine.PlaceOrder(ctx, Buy, 100, 1, client)
	require.True(t, first.OK())
	assert.Equal(t, MaxOrderID, first.OrderID)

	second := engine.PlaceOrder(ctx, Buy, 100, 1, client)
	assert.Equal(t, StatusSystemError, second.Status)
	assert.Contains(t, second.Reason, "order id collision")
	assert.Equal(t, MaxOrderID, second.OrderID)

	// The live order is untouched.
	assert.Equal(t, 1, engine.LiveOrders())
	assert.Equal(t, []LevelSnapshot{{Price: 100, Orders: 1, Volume: 1}}, engine.Depth(Buy))
	assert.Len(t, client.Events(), 1)
}

func TestCancelOrder(t *testing.T) {
	backend := newMockBackend()
	engine := newTestEngine(backend)
	owner, other := newTestClient("owner"), newTestClient("other")
	ctx := context.Background()

	id := engine.PlaceOrder(ctx, Sell, 100, 10, owner).OrderID

	resp := engine.CancelOrder(ctx, id, nil)
	assert.Equal(t, StatusInvalidOrder, resp.Status)
	assert.Equal(t, "invalid client", resp.Reason)

	resp = engine.CancelOrder(ctx, id, other)
	assert.Equal(t, StatusInvalidOrder, resp.Status)
	assert.Equal(t, "order does not belong to client", resp.Reason)
	assert.Equal(t, id, resp.OrderID)
	assert.NotNil(t, engine.Order(id))

	resp = engine.CancelOrder(ctx, id, owner)
	assert.True(t, resp.OK())
	assert.Equal(t, "order canceled successfully", resp.Reason)
	assert.Nil(t, engine.Order(id))
	assert.Empty(t, engine.Depth(Sell))
	assert.Equal(t, []string{"placed:" + id.String(), "canceled:" + id.String()}, owner.Events())

	resp = engine.CancelOrder(ctx, id, owner)
	assert.Equal(t, StatusOrderNotFound, resp.Status)
	assert.Equal(t, "order not found", resp.Reason)

	assert.Empty(t, other.Events())
}

func TestCancelOrder_UncomparableClient(t *testing.T) {
	engine := newTestEngine(newMockBackend())
	owner := mapClient{}
	ctx := context.Background()

	placed := engine.PlaceOrder(ctx, Buy, 100, 5, owner)
	require.True(t, placed.OK())

	var resp Response
	require.NotPanics(t, func() {
		resp = engine.CancelOrder(ctx, placed.OrderID, mapClient{})
	})
	assert.Equal(t, StatusInvalidOrder, resp.Status)
	assert.Equal(t, "order does not belong to client", resp.Reason)
	assert.NotNil(t, engine.Order(placed.OrderID))
}

func TestCancelOrder_NotInBook(t *testing.T) {
	backend := newMockBackend()
	engine := newTestEngine(backend)
	owner := newTestClient("owner")

	// Registered but not resting, as while it is still being crossed.
	order, err := NewLimitOrder(42, Buy, 100, 5, owner)
	require.NoError(t, err)
	require.NoError(t, backend.index.Store(order))

	resp := engine.CancelOrder(context.Background(), 42, owner)
	assert.Equal(t, StatusOrderNotFound, resp.Status)
	assert.Equal(t, "order not found in order book", resp.Reason)
	assert.NotNil(t, engine.Order(42))
	assert.Empty(t, owner.Events())
}

func TestEngine_ContextLogger(t *testing.T) {
	var engineBuf, ctxBuf bytes.Buffer
	engine := NewEngine(newMockBackend(), WithLogger(zerolog.New(&engineBuf).Level(zerolog.DebugLevel)))

	ctx := zerolog.New(&ctxBuf).Level(zerolog.DebugLevel).WithContext(context.Background())
	engine.PlaceOrder(ctx, Buy, 100, 1, newTestClient("c"))
	assert.Contains(t, ctxBuf.String(), "New order received")
	assert.NotContains(t, engineBuf.String(), "New order received")

	engine.PlaceOrder(context.Background(), Buy, 100, 1, newTestClient("c"))
	assert.Contains(t, engineBuf.String(), "New order received")
	assert.Contains(t, engineBuf.String(), `"component":"engine"`)
}
