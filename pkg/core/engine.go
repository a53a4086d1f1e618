package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/erain9/matchbook/pkg/otel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default bounds of the order id space
const (
	MinOrderID OrderID = 0
	MaxOrderID OrderID = 1<<31 - 1
)

// Engine matches limit orders for a single asset under price-time priority.
// It is safe for concurrent use; PlaceOrder and CancelOrder block until
// their own matching work and notifications are done.
type Engine struct {
	backend OrderBookBackend
	ids     *IDGenerator
	trades  atomic.Int64
	logger  zerolog.Logger
	metrics *otel.OrderBookMetrics
}

// Option configures an Engine
type Option func(*engineOptions)

type engineOptions struct {
	logger  *zerolog.Logger
	idStart OrderID
	idMin   OrderID
	metrics *otel.OrderBookMetrics
}

// WithLogger sets the diagnostic logger, the global zerolog logger otherwise
func WithLogger(logger zerolog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = &logger
	}
}

// WithIDRange sets the first id handed out and the value ids wrap to
func WithIDRange(start, min OrderID) Option {
	return func(o *engineOptions) {
		o.idStart = start
		o.idMin = min
	}
}

// WithMetrics records engine metrics on m instead of the global instruments
func WithMetrics(m *otel.OrderBookMetrics) Option {
	return func(o *engineOptions) {
		o.metrics = m
	}
}

// NewEngine creates an engine matching against backend
func NewEngine(backend OrderBookBackend, opts ...Option) *Engine {
	options := engineOptions{idStart: MinOrderID, idMin: MinOrderID}
	for _, opt := range opts {
		opt(&options)
	}

	logger := log.Logger
	if options.logger != nil {
		logger = *options.logger
	}
	logger = logger.With().Str("component", "engine").Logger()

	metrics := options.metrics
	if metrics == nil {
		metrics = otel.GetOrderBookMetrics()
	}

	return &Engine{
		backend: backend,
		ids:     NewIDGenerator(options.idStart, options.idMin, logger),
		logger:  logger,
		metrics: metrics,
	}
}

// PlaceOrder validates and places a limit order for client, matching it
// against the opposite side before resting any remainder.
func (e *Engine) PlaceOrder(ctx context.Context, side Side, price Price, amount Amount, client Client) Response {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanPlaceOrder,
		attribute.String(otel.AttributeOrderSide, side.String()),
		attribute.Int(otel.AttributeOrderPrice, int(price)),
		attribute.Int(otel.AttributeOrderAmount, int(amount)),
	)
	logger := e.loggerFor(ctx)

	if err := validatePlacement(side, price, amount, client); err != nil {
		logger.Debug().Err(err).
			Str("side", side.String()).
			Str("price", price.String()).
			Str("amount", amount.String()).
			Msg("Order rejected")
		return e.reject(ctx, span, "place", err, InvalidOrderID)
	}

	id := e.ids.Next()
	order, err := NewLimitOrder(id, side, price, amount, client)
	if err != nil {
		return e.reject(ctx, span, "place", err, InvalidOrderID)
	}
	otel.AddAttributes(span, attribute.Int(otel.AttributeOrderID, int(id)))

	logger.Debug().
		Str("order_id", id.String()).
		Str("side", side.String()).
		Str("price", price.String()).
		Str("amount", amount.String()).
		Msg("New order received")

	// Registered before matching so a concurrent cancel can find it.
	if err := e.backend.Index().Store(order); err != nil {
		logger.Error().Err(err).Str("order_id", id.String()).Msg("Order id collision after wraparound")
		return e.reject(ctx, span, "place", fmt.Errorf("order id collision: %w", err), id)
	}

	result := e.cross(order)
	if result.err != nil {
		logger.Error().Err(result.err).
			Str("order_id", id.String()).
			Int("trades", len(result.trades)).
			Str("remaining", order.Remaining().String()).
			Msg("Matching aborted")
	}

	rested := false
	if order.IsFilled() {
		e.backend.Index().Delete(id)
	} else if err := e.rest(order); err != nil {
		// Not resting anywhere, so it must not stay live either.
		e.backend.Index().Delete(id)
		logger.Error().Err(err).
			Str("order_id", id.String()).
			Str("remaining", order.Remaining().String()).
			Msg("Failed to rest order, remainder dropped")
		if result.err == nil {
			result.err = err
		}
	} else {
		rested = true
	}

	// Fired for every registered order, also when a fault follows, since its
	// trade legs carry this id.
	client.OnOrderPlaced(id, price, amount)
	e.notifyTrades(ctx, logger, result.trades)

	otel.AddAttributes(span,
		attribute.Int(otel.AttributeTradeCount, len(result.trades)),
		attribute.Int(otel.AttributeRemainingAmount, int(order.Remaining())),
		attribute.Bool(otel.AttributeRested, rested),
	)

	if result.err != nil {
		return e.reject(ctx, span, "place", result.err, id)
	}

	e.metrics.RecordPlaced(ctx, side.String())
	otel.EndSpan(span, StatusSuccess.String(), nil)
	return success("order placed successfully", id)
}

// CancelOrder removes a resting order on behalf of its owner. An order that
// is fully matched before the cancel reaches the book is reported as not
// found.
func (e *Engine) CancelOrder(ctx context.Context, id OrderID, client Client) Response {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanCancelOrder,
		attribute.Int(otel.AttributeOrderID, int(id)),
	)
	logger := e.loggerFor(ctx).With().Str("order_id", id.String()).Logger()

	logger.Debug().Msg("Cancel request received")

	if client == nil {
		return e.reject(ctx, span, "cancel", ErrInvalidClient, id)
	}

	order := e.backend.Index().Get(id)
	if order == nil {
		logger.Debug().Msg("Order not found")
		return e.reject(ctx, span, "cancel", ErrNonexistentOrder, id)
	}

	if !order.OwnedBy(client) {
		logger.Debug().Msg("Order does not belong to client")
		return e.reject(ctx, span, "cancel", ErrNotOwner, id)
	}

	book := e.backend.Side(order.Side())
	book.Lock()
	removed := book.Remove(order)
	book.Unlock()

	if !removed {
		// Lost the race against a match, or still being crossed.
		logger.Debug().Msg("Order not found in order book")
		return e.reject(ctx, span, "cancel", ErrNotInBook, id)
	}

	e.backend.Index().Delete(id)

	logger.Debug().
		Str("side", order.Side().String()).
		Str("remaining", order.Remaining().String()).
		Msg("Order canceled")

	client.OnOrderCanceled(id, CancelReasonClientRequest)

	e.metrics.RecordCanceled(ctx, order.Side().String())
	otel.EndSpan(span, StatusSuccess.String(), nil)
	return success("order canceled successfully", id)
}

// TotalTrades returns the number of trades executed so far
func (e *Engine) TotalTrades() int64 {
	return e.trades.Load()
}

// Order returns the live order with id, or nil
func (e *Engine) Order(id OrderID) *Order {
	return e.backend.Index().Get(id)
}

// LiveOrders returns the number of orders in the index
func (e *Engine) LiveOrders() int {
	return e.backend.Index().Len()
}

// Depth returns a best-first snapshot of one side of the book
func (e *Engine) Depth(side Side) []LevelSnapshot {
	return e.backend.Side(side).Depth()
}

// NextOrderID returns the id the next accepted order will get
func (e *Engine) NextOrderID() OrderID {
	return e.ids.Peek()
}

// rest appends the unmatched remainder of order to its own side. A backend
// panic is reported as ErrCrossingFault with the order taken back out of the
// side.
func (e *Engine) rest(order *Order) (err error) {
	book := e.backend.Side(order.Side())
	book.Lock()
	defer book.Unlock()
	defer func() {
		if r := recover(); r != nil {
			e.unrest(book, order)
			err = fmt.Errorf("%w: resting order: %v", ErrCrossingFault, r)
		}
	}()

	book.Append(order)
	return nil
}

// unrest removes whatever a failed Append may have left behind
func (e *Engine) unrest(book OrderSide, order *Order) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Str("order_id", order.ID().String()).
				Interface("panic", r).
				Msg("Failed to clean up after resting fault")
		}
	}()
	book.Remove(order)
}

func (e *Engine) notifyTrades(ctx context.Context, logger *zerolog.Logger, trades []Trade) {
	for _, t := range trades {
		logger.Debug().
			Str("buy_order_id", t.Buy.ID().String()).
			Str("sell_order_id", t.Sell.ID().String()).
			Str("price", t.Price.String()).
			Str("amount", t.Amount.String()).
			Msg("Trade executed")

		t.Buy.Owner().OnOrderTraded(t.Buy.ID(), t.Price, t.Amount)
		t.Sell.Owner().OnOrderTraded(t.Sell.ID(), t.Price, t.Amount)

		e.trades.Add(1)
		e.metrics.RecordTrade(ctx, int64(t.Amount))
	}
}

func (e *Engine) reject(ctx context.Context, span trace.Span, operation string, err error, id OrderID) Response {
	resp := failure(err, id)
	e.metrics.RecordRejected(ctx, operation, resp.Status.String())
	otel.EndSpan(span, resp.Status.String(), err)
	return resp
}

// loggerFor prefers a logger attached to ctx over the engine logger
func (e *Engine) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &e.logger
}

func validatePlacement(side Side, price Price, amount Amount, client Client) error {
	if client == nil {
		return ErrInvalidClient
	}
	if !side.Valid() {
		return ErrInvalidSide
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
