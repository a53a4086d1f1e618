package notify

import (
	"context"
	"time"

	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/otel"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const defaultPublishTimeout = 2 * time.Second

// Publisher is a named client that forwards its notifications as events to
// a MessageSender. Send failures are logged and never reach the engine.
type Publisher struct {
	name    string
	sender  messaging.MessageSender
	logger  zerolog.Logger
	timeout time.Duration
}

var _ core.Client = (*Publisher)(nil)

// NewPublisher creates a publisher for client name
func NewPublisher(name string, sender messaging.MessageSender, logger zerolog.Logger) *Publisher {
	return &Publisher{
		name:    name,
		sender:  sender,
		logger:  logger.With().Str("client", name).Logger(),
		timeout: defaultPublishTimeout,
	}
}

// Name returns the client name
func (p *Publisher) Name() string {
	return p.name
}

func (p *Publisher) OnOrderPlaced(id core.OrderID, price core.Price, amount core.Amount) {
	event := messaging.NewEvent(messaging.EventOrderPlaced, p.name, int32(id))
	event.Price, event.Amount = int32(price), int32(amount)
	p.publish(event)
}

func (p *Publisher) OnOrderCanceled(id core.OrderID, reason core.CancelReason) {
	event := messaging.NewEvent(messaging.EventOrderCanceled, p.name, int32(id))
	event.Reason = reason.String()
	p.publish(event)
}

func (p *Publisher) OnOrderTraded(id core.OrderID, price core.Price, amount core.Amount) {
	event := messaging.NewEvent(messaging.EventOrderTraded, p.name, int32(id))
	event.Price, event.Amount = int32(price), int32(amount)
	p.publish(event)
}

func (p *Publisher) publish(event messaging.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	ctx, span := otel.StartOrderSpan(ctx, otel.SpanPublish,
		attribute.Int(otel.AttributeOrderID, int(event.OrderID)),
		attribute.String("event.type", string(event.Type)),
	)

	err := p.sender.Send(ctx, event)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Int32("order_id", event.OrderID).
			Msg("Failed to publish event")
		otel.EndSpan(span, "FAILED", err)
		return
	}
	otel.EndSpan(span, "SENT", nil)
}
