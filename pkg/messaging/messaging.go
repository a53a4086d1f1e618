package messaging

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// MessageSender defines an interface for sending order events.
// This helps decouple the notification layer from specific transports
// like Kafka or Redis streams.
type MessageSender interface {
	Send(ctx context.Context, event Event) error
	Close() error
}

// EventType names the engine callback an event was produced from
type EventType string

// Event types
const (
	EventOrderPlaced   EventType = "order_placed"
	EventOrderCanceled EventType = "order_canceled"
	EventOrderTraded   EventType = "order_traded"
)

// Event is the wire form of a single client notification
type Event struct {
	ID      string    `json:"id"`
	Type    EventType `json:"type"`
	Client  string    `json:"client"`
	OrderID int32     `json:"orderID"`
	Price   int32     `json:"price,omitempty"`
	Amount  int32     `json:"amount,omitempty"`
	Reason  string    `json:"reason,omitempty"`
	Time    time.Time `json:"time"`
}

// NewEvent creates an event with a fresh id and the current time
func NewEvent(eventType EventType, client string, orderID int32) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Client:  client,
		OrderID: orderID,
		Time:    time.Now().UTC(),
	}
}

// Key returns the partitioning key, so that all events of one order land
// on the same partition
func (e Event) Key() string {
	return strconv.FormatInt(int64(e.OrderID), 10)
}
