package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Span names
	SpanPlaceOrder  = "place_order"
	SpanCancelOrder = "cancel_order"
	SpanMatchOrder  = "match_order"
	SpanPublish     = "publish_event"

	// Attribute keys
	AttributeOrderID         = "order.id"
	AttributeOrderSide       = "order.side"
	AttributeOrderPrice      = "order.price"
	AttributeOrderAmount     = "order.amount"
	AttributeOrderStatus     = "order.status"
	AttributeRemainingAmount = "order.remaining_amount"
	AttributeTradeCount      = "trade.count"
	AttributeRested          = "order.rested"
)

// StartOrderSpan starts a new span for order processing. Without a tracer
// a no-op span is returned, so callers can end it unconditionally.
func StartOrderSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := GetMatchingEngineTracer()
	if tracer == nil {
		return ctx, trace.SpanFromContext(context.Background())
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddAttributes adds attributes to a span
func AddAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}

// EndSpan records the outcome and ends span
func EndSpan(span trace.Span, status string, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.String(AttributeOrderStatus, status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, status)
	}
	span.End()
}
