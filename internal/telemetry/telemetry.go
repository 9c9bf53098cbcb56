// Package telemetry wires OpenTelemetry tracing and metrics and the
// structured logger.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer and meter used across the app.
const InstrumentationName = "inventory"

// Config selects the service identity and the trace exporter.
type Config struct {
	ServiceName  string
	Environment  string
	OTLPEndpoint string // empty disables trace export
}

// Telemetry holds the tracer, meter and logger handed to the app.
type Telemetry struct {
	Tracer   trace.Tracer
	Meter    metric.Meter
	Logger   *slog.Logger
	Registry *prometheus.Registry

	shutdown []func(context.Context) error
}

// NewTelemetry initializes tracing, Prometheus-backed metrics and logging.
func NewTelemetry(ctx context.Context, cfg Config) (*Telemetry, error) {
	logger := NewLogger(os.Stdout, cfg.ServiceName, cfg.Environment, slog.LevelInfo)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.OTLPEndpoint != "" {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized",
		slog.String("otlp_endpoint", cfg.OTLPEndpoint),
	)

	return &Telemetry{
		Tracer:   tp.Tracer(InstrumentationName),
		Meter:    mp.Meter(InstrumentationName),
		Logger:   logger,
		Registry: registry,
		shutdown: []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}, nil
}

// NewNoopTelemetry returns telemetry that records nothing and logs to w.
func NewNoopTelemetry(w io.Writer) *Telemetry {
	return &Telemetry{
		Tracer:   tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:    metricnoop.NewMeterProvider().Meter(InstrumentationName),
		Logger:   NewLogger(w, InstrumentationName, "test", slog.LevelDebug),
		Registry: prometheus.NewRegistry(),
	}
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	for _, fn := range t.shutdown {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("failed to shut down telemetry: %w", err)
		}
	}
	return nil
}
