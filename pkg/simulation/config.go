package simulation

import (
	"fmt"

	"github.com/erain9/matchbook/pkg/core"
	"github.com/spf13/viper"
)

// Config holds the parameters of a simulated trading session
type Config struct {
	Clients         int
	OrdersPerClient int
	// CancelEvery cancels the i-th order of a client when i is a multiple
	// of it; zero disables cancels
	CancelEvery int

	PriceMin  core.Price
	PriceMax  core.Price
	AmountMin core.Amount
	AmountMax core.Amount

	// Rate limits orders per second per client; zero means unlimited
	Rate float64
	// Seed makes runs repeatable; zero picks a time based seed
	Seed int64
}

// DefaultConfig returns the two client session of the reference driver
func DefaultConfig() Config {
	return Config{
		Clients:         2,
		OrdersPerClient: 10,
		CancelEvery:     3,
		PriceMin:        90,
		PriceMax:        110,
		AmountMin:       1,
		AmountMax:       100,
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	d := DefaultConfig()

	// Set default values
	v.SetDefault("SIM_CLIENTS", d.Clients)
	v.SetDefault("SIM_ORDERS_PER_CLIENT", d.OrdersPerClient)
	v.SetDefault("SIM_CANCEL_EVERY", d.CancelEvery)
	v.SetDefault("SIM_PRICE_MIN", int(d.PriceMin))
	v.SetDefault("SIM_PRICE_MAX", int(d.PriceMax))
	v.SetDefault("SIM_AMOUNT_MIN", int(d.AmountMin))
	v.SetDefault("SIM_AMOUNT_MAX", int(d.AmountMax))
	v.SetDefault("SIM_RATE", d.Rate)
	v.SetDefault("SIM_SEED", d.Seed)

	// Allow environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Clients:         v.GetInt("SIM_CLIENTS"),
		OrdersPerClient: v.GetInt("SIM_ORDERS_PER_CLIENT"),
		CancelEvery:     v.GetInt("SIM_CANCEL_EVERY"),
		PriceMin:        core.Price(v.GetInt32("SIM_PRICE_MIN")),
		PriceMax:        core.Price(v.GetInt32("SIM_PRICE_MAX")),
		AmountMin:       core.Amount(v.GetInt32("SIM_AMOUNT_MIN")),
		AmountMax:       core.Amount(v.GetInt32("SIM_AMOUNT_MAX")),
		Rate:            v.GetFloat64("SIM_RATE"),
		Seed:            v.GetInt64("SIM_SEED"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the engine would reject
func (c *Config) Validate() error {
	if c.Clients <= 0 {
		return fmt.Errorf("clients must be positive")
	}
	if c.OrdersPerClient < 0 {
		return fmt.Errorf("orders per client must not be negative")
	}
	if c.CancelEvery < 0 {
		return fmt.Errorf("cancel interval must not be negative")
	}
	if c.PriceMin <= 0 || c.PriceMax < c.PriceMin {
		return fmt.Errorf("invalid price range [%d, %d]", c.PriceMin, c.PriceMax)
	}
	if c.AmountMin <= 0 || c.AmountMax < c.AmountMin {
		return fmt.Errorf("invalid amount range [%d, %d]", c.AmountMin, c.AmountMax)
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must not be negative")
	}
	return nil
}
