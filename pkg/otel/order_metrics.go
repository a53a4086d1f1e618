package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	orderBookMetrics     *OrderBookMetrics
	orderBookMetricsOnce sync.Once
)

// OrderBookMetrics holds the instruments recorded by the engine
type OrderBookMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersRejected metric.Int64Counter
	ordersCanceled metric.Int64Counter
	tradesTotal    metric.Int64Counter
	tradedVolume   metric.Int64Counter
}

// NewOrderBookMetrics creates the engine instruments on meter
func NewOrderBookMetrics(meter metric.Meter) (*OrderBookMetrics, error) {
	ordersPlaced, err := meter.Int64Counter(
		"orderbook.orders.placed",
		metric.WithDescription("Total number of orders accepted"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	ordersRejected, err := meter.Int64Counter(
		"orderbook.orders.rejected",
		metric.WithDescription("Total number of place or cancel requests that failed"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	ordersCanceled, err := meter.Int64Counter(
		"orderbook.orders.canceled",
		metric.WithDescription("Total number of orders canceled"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	tradesTotal, err := meter.Int64Counter(
		"orderbook.trades.total",
		metric.WithDescription("Total number of trades executed"),
		metric.WithUnit("{trade}"),
	)
	if err != nil {
		return nil, err
	}

	tradedVolume, err := meter.Int64Counter(
		"orderbook.trades.volume",
		metric.WithDescription("Total amount exchanged by trades"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, err
	}

	return &OrderBookMetrics{
		ordersPlaced:   ordersPlaced,
		ordersRejected: ordersRejected,
		ordersCanceled: ordersCanceled,
		tradesTotal:    tradesTotal,
		tradedVolume:   tradedVolume,
	}, nil
}

// GetOrderBookMetrics returns the OrderBookMetrics singleton bound to the
// global meter provider
func GetOrderBookMetrics() *OrderBookMetrics {
	orderBookMetricsOnce.Do(func() {
		m, err := NewOrderBookMetrics(GetMeterProvider().Meter(instrumentationName))
		if err != nil {
			orderBookMetrics = &OrderBookMetrics{}
			return
		}
		orderBookMetrics = m
	})
	return orderBookMetrics
}

// RecordPlaced increments the accepted orders counter
func (m *OrderBookMetrics) RecordPlaced(ctx context.Context, side string) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String(AttributeOrderSide, side)))
}

// RecordRejected increments the failed requests counter
func (m *OrderBookMetrics) RecordRejected(ctx context.Context, operation, status string) {
	if m == nil || m.ordersRejected == nil {
		return
	}
	m.ordersRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String(AttributeOrderStatus, status),
	))
}

// RecordCanceled increments the canceled orders counter
func (m *OrderBookMetrics) RecordCanceled(ctx context.Context, side string) {
	if m == nil || m.ordersCanceled == nil {
		return
	}
	m.ordersCanceled.Add(ctx, 1, metric.WithAttributes(attribute.String(AttributeOrderSide, side)))
}

// RecordTrade counts one execution of amount units
func (m *OrderBookMetrics) RecordTrade(ctx context.Context, amount int64) {
	if m == nil || m.tradesTotal == nil {
		return
	}
	m.tradesTotal.Add(ctx, 1)
	m.tradedVolume.Add(ctx, amount)
}
