package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/erain9/matchbook/config"
	"github.com/erain9/matchbook/pkg/backend/memory"
	"github.com/erain9/matchbook/pkg/core"
	"github.com/erain9/matchbook/pkg/logging"
	"github.com/erain9/matchbook/pkg/messaging"
	"github.com/erain9/matchbook/pkg/notify"
	"github.com/erain9/matchbook/pkg/otel"
	"github.com/erain9/matchbook/pkg/simulation"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	// Setup logging
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Pretty = cfg.Pretty()
	logging.Setup(logCfg)

	simCfg, err := simulation.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load simulation configuration")
	}

	// Initialize OpenTelemetry
	cleanup, err := otel.Init(otel.Config{
		ServiceName:      cfg.Telemetry.ServiceName,
		Endpoint:         cfg.Telemetry.Endpoint,
		CollectorEnabled: cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OpenTelemetry")
	}
	defer cleanup()

	if cfg.Telemetry.Enabled {
		if err := otel.StartRuntimeMetrics(15 * time.Second); err != nil {
			log.Warn().Err(err).Msg("Failed to start runtime metrics")
		}
	}

	sender, err := newSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Messaging.Driver).Msg("Failed to create event sender")
	}
	if sender != nil {
		defer func() {
			if err := sender.Close(); err != nil {
				log.Warn().Err(err).Msg("Error closing event sender")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := core.NewEngine(memory.NewMemoryBackend(),
		core.WithLogger(log.Logger),
		core.WithIDRange(core.OrderID(cfg.Engine.IDStart), core.OrderID(cfg.Engine.IDMin)),
	)

	runner, err := simulation.NewRunner(engine, *simCfg,
		simulation.WithLogger(log.Logger),
		simulation.WithClientFactory(clientFactory(sender)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create simulation")
	}

	report, err := runner.Run(logging.WithRequestID(ctx, logging.NewRequestID()))
	if err != nil {
		log.Error().Err(err).Msg("Simulation stopped early")
	}

	printSummary(os.Stdout, report)
}

// clientFactory logs every notification and, with a sender configured,
// publishes it too
func clientFactory(sender messaging.MessageSender) simulation.ClientFactory {
	return func(name string) core.Client {
		logClient := notify.NewLogClient(name, log.Logger)
		if sender == nil {
			return logClient
		}
		return notify.NewMulti(logClient, notify.NewPublisher(name, sender, log.Logger))
	}
}

func printSummary(out io.Writer, report *simulation.Report) {
	if report == nil {
		return
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\n", cyan("Simulation summary"))
	fmt.Fprintf(w, "Clients:\t%d\n", report.Clients)
	fmt.Fprintf(w, "Total orders processed:\t%d\n", report.Placed)
	fmt.Fprintf(w, "Total orders rejected:\t%d\n", report.Rejected)
	fmt.Fprintf(w, "Total orders canceled:\t%d\n", report.Canceled)
	fmt.Fprintf(w, "Cancels too late:\t%d\n", report.CancelMisses)
	fmt.Fprintf(w, "Total trades:\t%d\n", report.Trades)
	fmt.Fprintf(w, "Duration:\t%v\n", report.Duration.Round(time.Microsecond))
	fmt.Fprintf(w, "Place latency p50/p99/max:\t%v / %v / %v\n", report.PlaceP50, report.PlaceP99, report.PlaceMax)
	fmt.Fprintf(w, "Resting orders:\t%d\n", report.LiveOrders)

	if bid, ok := report.BestBid(); ok {
		fmt.Fprintf(w, "Best bid:\t%s\n", green(fmt.Sprintf("%s x %d (%d orders)", bid.Price, bid.Volume, bid.Orders)))
	} else {
		fmt.Fprintf(w, "Best bid:\t-\n")
	}
	if ask, ok := report.BestAsk(); ok {
		fmt.Fprintf(w, "Best ask:\t%s\n", red(fmt.Sprintf("%s x %d (%d orders)", ask.Price, ask.Volume, ask.Orders)))
	} else {
		fmt.Fprintf(w, "Best ask:\t-\n")
	}
	_ = w.Flush()
}
