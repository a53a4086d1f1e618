package queue

import (
	"fmt"
	"time"

	"github.com/erain9/matchbook/pkg/messaging"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeEvent serializes event as a protobuf Struct
func EncodeEvent(event messaging.Event) ([]byte, error) {
	msg, err := structpb.NewStruct(map[string]interface{}{
		"id":       event.ID,
		"type":     string(event.Type),
		"client":   event.Client,
		"order_id": event.OrderID,
		"price":    event.Price,
		"amount":   event.Amount,
		"reason":   event.Reason,
		"time":     event.Time.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build event struct: %w", err)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses a payload produced by EncodeEvent
func DecodeEvent(data []byte) (messaging.Event, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return messaging.Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	f := msg.GetFields()
	event := messaging.Event{
		ID:      f["id"].GetStringValue(),
		Type:    messaging.EventType(f["type"].GetStringValue()),
		Client:  f["client"].GetStringValue(),
		OrderID: int32(f["order_id"].GetNumberValue()),
		Price:   int32(f["price"].GetNumberValue()),
		Amount:  int32(f["amount"].GetNumberValue()),
		Reason:  f["reason"].GetStringValue(),
	}
	if event.ID == "" || event.Type == "" {
		return messaging.Event{}, fmt.Errorf("event is missing id or type")
	}

	if ts := f["time"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return messaging.Event{}, fmt.Errorf("invalid event time %q: %w", ts, err)
		}
		event.Time = t
	}
	return event, nil
}
