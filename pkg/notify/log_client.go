package notify

import (
	"github.com/erain9/matchbook/pkg/core"
	"github.com/rs/zerolog"
)

// LogClient is a named client that logs every notification it receives
type LogClient struct {
	name   string
	logger zerolog.Logger
}

var _ core.Client = (*LogClient)(nil)

// NewLogClient creates a client logging through logger
func NewLogClient(name string, logger zerolog.Logger) *LogClient {
	return &LogClient{
		name:   name,
		logger: logger.With().Str("client", name).Logger(),
	}
}

// Name returns the client name
func (c *LogClient) Name() string {
	return c.name
}

func (c *LogClient) OnOrderPlaced(id core.OrderID, price core.Price, amount core.Amount) {
	c.logger.Info().
		Str("order_id", id.String()).
		Str("price", price.String()).
		Str("amount", amount.String()).
		Msg("Order placed")
}

func (c *LogClient) OnOrderCanceled(id core.OrderID, reason core.CancelReason) {
	c.logger.Info().
		Str("order_id", id.String()).
		Str("reason", reason.String()).
		Msg("Order canceled")
}

func (c *LogClient) OnOrderTraded(id core.OrderID, price core.Price, amount core.Amount) {
	c.logger.Info().
		Str("order_id", id.String()).
		Str("price", price.String()).
		Str("amount", amount.String()).
		Msg("Order traded")
}
