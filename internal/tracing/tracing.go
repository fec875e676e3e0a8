// Package tracing configures the OpenTelemetry tracer provider used by the
// discovery spans.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "plugreg"

// Config configures the tracing subsystem.
type Config struct {
	// Exporter selects the export backend: "none", "stdout" or "otlp".
	// "none" (or empty) disables tracing.
	Exporter string `mapstructure:"exporter"`
	// OTLPEndpoint is the collector address for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	// ServiceName identifies this process in traces.
	ServiceName string `mapstructure:"service_name"`
}

// DefaultConfig returns tracing disabled.
func DefaultConfig() Config {
	return Config{
		Exporter:     "none",
		OTLPEndpoint: "localhost:4317",
		ServiceName:  defaultServiceName,
	}
}

// Validate reports an unsupported exporter.
func (c Config) Validate() error {
	switch c.Exporter {
	case "", "none", "stdout", "otlp":
		return nil
	}
	return fmt.Errorf("unsupported trace exporter %q: must be 'none', 'stdout' or 'otlp'", c.Exporter)
}

// Provider wraps the SDK tracer provider, or a no-op one when tracing is
// disabled.
type Provider struct {
	provider *sdktrace.TracerProvider
	tp       trace.TracerProvider
}

// NewProvider builds the provider described by cfg. The "stdout" exporter
// writes to w.
func NewProvider(ctx context.Context, cfg Config, w io.Writer) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "", "none":
		return &Provider{tp: noop.NewTracerProvider()}, nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case "otlp":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithBatcher(exporter),
	)
	return &Provider{provider: provider, tp: provider}, nil
}

// Tracer returns a tracer with the given instrumentation name.
func (p *Provider) Tracer(name string) trace.Tracer {
	return p.tp.Tracer(name)
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
