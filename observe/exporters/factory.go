// Package exporters provides factory functions for creating OpenTelemetry exporters.
package exporters

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects and addresses an exporter.
type Config struct {
	// Name is one of otlp, stdout, prometheus (metrics only) or none.
	Name string

	// Endpoint is the OTLP collector address (host:port). When empty the
	// OTEL_EXPORTER_OTLP_* environment variables are consulted.
	Endpoint string

	// Insecure disables TLS for OTLP connections.
	Insecure bool

	// Writer receives stdout exporter output. Defaults to os.Stdout.
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer != nil {
		return c.Writer
	}
	return os.Stdout
}

func otlpEndpoint(explicit, signalVar string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		return v
	}
	return os.Getenv(signalVar)
}

// NewTracingExporter creates a trace span exporter for cfg.Name.
func NewTracingExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.Name {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithWriter(cfg.writer()))

	case "otlp":
		endpoint := otlpEndpoint(cfg.Endpoint, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("OTLP endpoint not configured: set tracing.endpoint or OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)

	case "none", "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))

	default:
		return nil, fmt.Errorf("unknown exporter: %q", cfg.Name)
	}
}

// NewMetricsReader creates a metrics reader for cfg.Name.
func NewMetricsReader(ctx context.Context, cfg Config) (sdkmetric.Reader, error) {
	switch cfg.Name {
	case "stdout":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.writer()))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "otlp":
		endpoint := otlpEndpoint(cfg.Endpoint, "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("OTLP metrics endpoint not configured: set metrics.endpoint or OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case "prometheus":
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		return exp, nil

	case "none", "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	default:
		return nil, fmt.Errorf("unknown metrics exporter: %q", cfg.Name)
	}
}
