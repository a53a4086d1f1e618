package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/notify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Latencies above this are clamped when recorded
const maxRecordedLatency = 10 * time.Second

// ClientFactory builds the client used by the simulated trader name
type ClientFactory func(name string) core.Client

// Report summarizes a finished run
type Report struct {
	Clients  int
	Placed   int64
	Rejected int64
	Canceled int64
	// CancelMisses counts cancels of orders that were already filled
	CancelMisses int64
	Trades       int64
	Duration     time.Duration

	PlaceP50 time.Duration
	PlaceP99 time.Duration
	PlaceMax time.Duration

	Bids       []core.LevelSnapshot
	Asks       []core.LevelSnapshot
	LiveOrders int
}

// BestBid returns the top bid level, if any
func (r *Report) BestBid() (core.LevelSnapshot, bool) {
	if len(r.Bids) == 0 {
		return core.LevelSnapshot{}, false
	}
	return r.Bids[0], true
}

// BestAsk returns the top ask level, if any
func (r *Report) BestAsk() (core.LevelSnapshot, bool) {
	if len(r.Asks) == 0 {
		return core.LevelSnapshot{}, false
	}
	return r.Asks[0], true
}

// Runner drives an engine with concurrent random traders
type Runner struct {
	engine  *core.Engine
	cfg     Config
	logger  zerolog.Logger
	clients ClientFactory
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithClientFactory replaces the default logging clients
func WithClientFactory(f ClientFactory) Option {
	return func(r *Runner) {
		r.clients = f
	}
}

// NewRunner creates a runner for engine
func NewRunner(engine *core.Engine, cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	r := &Runner{
		engine: engine,
		cfg:    cfg,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.clients == nil {
		r.clients = func(name string) core.Client {
			return notify.NewLogClient(name, r.logger)
		}
	}
	return r, nil
}

type counters struct {
	placed       atomic.Int64
	rejected     atomic.Int64
	canceled     atomic.Int64
	cancelMisses atomic.Int64
}

// Run starts every trader and blocks until all of them are done or ctx is
// canceled. Traders stop at the next order once ctx is done.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	seed := r.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var (
		wg     sync.WaitGroup
		stats  counters
		hists  = make([]*hdrhistogram.Histogram, r.cfg.Clients)
		errs   = make(chan error, r.cfg.Clients)
		start  = time.Now()
		before = r.engine.TotalTrades()
	)

	r.logger.Info().
		Int("clients", r.cfg.Clients).
		Int("orders_per_client", r.cfg.OrdersPerClient).
		Int64("seed", seed).
		Msg("Starting simulation")

	for i := 0; i < r.cfg.Clients; i++ {
		hists[i] = newLatencyHistogram()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("client-%d", i+1)
			t := &trader{
				name:    name,
				engine:  r.engine,
				client:  r.clients(name),
				cfg:     r.cfg,
				rng:     rand.New(rand.NewSource(seed + int64(i))),
				limiter: newLimiter(r.cfg.Rate),
				hist:    hists[i],
				stats:   &stats,
			}
			if err := t.run(ctx); err != nil {
				errs <- fmt.Errorf("%s: %w", name, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	merged := newLatencyHistogram()
	for _, h := range hists {
		merged.Merge(h)
	}

	report := &Report{
		Clients:      r.cfg.Clients,
		Placed:       stats.placed.Load(),
		Rejected:     stats.rejected.Load(),
		Canceled:     stats.canceled.Load(),
		CancelMisses: stats.cancelMisses.Load(),
		Trades:       r.engine.TotalTrades() - before,
		Duration:     time.Since(start),
		PlaceP50:     time.Duration(merged.ValueAtQuantile(50)),
		PlaceP99:     time.Duration(merged.ValueAtQuantile(99)),
		PlaceMax:     time.Duration(merged.Max()),
		Bids:         r.engine.Depth(core.Buy),
		Asks:         r.engine.Depth(core.Sell),
		LiveOrders:   r.engine.LiveOrders(),
	}

	r.logger.Info().
		Int64("placed", report.Placed).
		Int64("canceled", report.Canceled).
		Int64("trades", report.Trades).
		Dur("duration", report.Duration).
		Msg("Simulation finished")

	// Context cancellation is reported as the first trader error.
	if err, ok := <-errs; ok {
		return report, err
	}
	return report, nil
}

type trader struct {
	name    string
	engine  *core.Engine
	client  core.Client
	cfg     Config
	rng     *rand.Rand
	limiter *rate.Limiter
	hist    *hdrhistogram.Histogram
	stats   *counters
}

func (t *trader) run(ctx context.Context) error {
	for i := 0; i < t.cfg.OrdersPerClient; i++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}

		side, price, amount := t.randomOrder()

		began := time.Now()
		resp := t.engine.PlaceOrder(ctx, side, price, amount, t.client)
		_ = t.hist.RecordValue(int64(min(time.Since(began), maxRecordedLatency)))

		if !resp.OK() {
			t.stats.rejected.Add(1)
			continue
		}
		t.stats.placed.Add(1)

		if t.cfg.CancelEvery > 0 && i%t.cfg.CancelEvery == 0 {
			cancel := t.engine.CancelOrder(ctx, resp.OrderID, t.client)
			switch cancel.Status {
			case core.StatusSuccess:
				t.stats.canceled.Add(1)
			case core.StatusOrderNotFound:
				t.stats.cancelMisses.Add(1)
			default:
				return fmt.Errorf("cancel of order %d failed: %s", resp.OrderID, cancel.Reason)
			}
		}
	}
	return nil
}

func (t *trader) randomOrder() (core.Side, core.Price, core.Amount) {
	side := core.Sell
	if t.rng.Intn(2) == 1 {
		side = core.Buy
	}
	price := t.cfg.PriceMin + core.Price(t.rng.Int31n(int32(t.cfg.PriceMax-t.cfg.PriceMin)+1))
	amount := t.cfg.AmountMin + core.Amount(t.rng.Int31n(int32(t.cfg.AmountMax-t.cfg.AmountMin)+1))
	return side, price, amount
}

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, int64(maxRecordedLatency), 3)
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}
