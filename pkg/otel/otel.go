package otel

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	instrumentationName = "github.com/erain9/matchbook/pkg/otel"

	ServiceMatchingEngine = "matching-engine"
)

var (
	mu                sync.RWMutex
	engineTracer      trace.Tracer
	tracerProvider    *sdktrace.TracerProvider
	meterProvider     *sdkmetric.MeterProvider
	engineResource    *sdkresource.Resource
	initResourcesOnce sync.Once
)

// Config holds the OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceVersion   string
	Endpoint         string
	ConnectTimeout   time.Duration
	ExportInterval   time.Duration
	CollectorEnabled bool
}

// Init initializes OpenTelemetry with the given configuration. With the
// collector disabled it only installs propagators; the engine then records
// against the no-op global providers.
func Init(cfg Config) (func(), error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = ServiceMatchingEngine
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "0.1.0"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ExportInterval == 0 {
		cfg.ExportInterval = 5 * time.Second
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if !cfg.CollectorEnabled {
		return func() {}, nil
	}

	initResourcesOnce.Do(func() {
		engineResource = initResource(cfg.ServiceName, cfg.ServiceVersion)
	})

	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}

	var cleanup []func()
	cleanup = append(cleanup, func() {
		if err := conn.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing collector connection")
		}
	})

	tp, err := initTracerProvider(conn, engineResource)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer provider, continuing without traces")
	} else {
		SetTracerProvider(tp)
		cleanup = append(cleanup, shutdownFunc("tracer provider", cfg.ConnectTimeout, tp.Shutdown))
	}

	mp, err := initMeterProvider(conn, engineResource, cfg.ExportInterval)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize meter provider, continuing without metrics")
	} else {
		mu.Lock()
		meterProvider = mp
		mu.Unlock()
		otel.SetMeterProvider(mp)
		cleanup = append(cleanup, shutdownFunc("meter provider", cfg.ConnectTimeout, mp.Shutdown))
	}

	// Providers flush before the shared connection closes.
	return func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}, nil
}

func shutdownFunc(name string, timeout time.Duration, shutdown func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			log.Warn().Err(err).Str("component", name).Msg("Error shutting down telemetry")
		}
	}
}

func initResource(serviceName, serviceVersion string) *sdkresource.Resource {
	extraResources, err := sdkresource.New(
		context.Background(),
		sdkresource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
		sdkresource.WithOS(),
		sdkresource.WithProcess(),
		sdkresource.WithHost(),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create resource")
		return sdkresource.Default()
	}

	resource, err := sdkresource.Merge(
		sdkresource.Default(),
		extraResources,
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to merge resources")
		return sdkresource.Default()
	}

	return resource
}

func initTracerProvider(conn *grpc.ClientConn, resource *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithGRPCConn(conn),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(1),
		)),
	)
	return tp, nil
}

func initMeterProvider(conn *grpc.ClientConn, resource *sdkresource.Resource, interval time.Duration) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(context.Background(),
		otlpmetricgrpc.WithGRPCConn(conn),
	)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(resource),
	)
	return mp, nil
}

// SetTracerProvider installs tp as the global provider and derives the
// engine tracer from it.
func SetTracerProvider(tp trace.TracerProvider) {
	mu.Lock()
	defer mu.Unlock()
	if sdkTP, ok := tp.(*sdktrace.TracerProvider); ok {
		tracerProvider = sdkTP
	}
	otel.SetTracerProvider(tp)
	engineTracer = tp.Tracer(ServiceMatchingEngine)
}

// GetMatchingEngineTracer returns the tracer for the matching engine, nil
// until a provider was installed.
func GetMatchingEngineTracer() trace.Tracer {
	mu.RLock()
	defer mu.RUnlock()
	return engineTracer
}

// GetTextMapPropagator returns the configured propagator
func GetTextMapPropagator() propagation.TextMapPropagator {
	return otel.GetTextMapPropagator()
}

// GetMeterProvider returns the meter provider installed by Init, or the
// global one
func GetMeterProvider() metric.MeterProvider {
	mu.RLock()
	defer mu.RUnlock()
	if meterProvider != nil {
		return meterProvider
	}
	return otel.GetMeterProvider()
}

// ResetForTesting clears the engine tracer
func ResetForTesting() {
	mu.Lock()
	defer mu.Unlock()
	engineTracer = nil
	tracerProvider = nil
}

// InitForTesting installs tracer as the engine tracer
func InitForTesting(tracer trace.Tracer) {
	mu.Lock()
	defer mu.Unlock()
	engineTracer = tracer
}
