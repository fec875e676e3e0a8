package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	_, span := p.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_Stdout(t *testing.T) {
	var out bytes.Buffer
	p, err := NewProvider(context.Background(), Config{Exporter: "stdout", ServiceName: "plugreg-test"}, &out)
	require.NoError(t, err)
	require.True(t, p.Enabled())

	_, span := p.Tracer("test").Start(context.Background(), "plugreg.discover")
	span.End()
	require.NoError(t, p.Shutdown(context.Background()))

	assert.Contains(t, out.String(), `"Name": "plugreg.discover"`)
	assert.Contains(t, out.String(), "plugreg-test")
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Exporter: "otlp"}.Validate())
	assert.EqualError(t, Config{Exporter: "jaeger"}.Validate(),
		"unsupported trace exporter \"jaeger\": must be 'none', 'stdout' or 'otlp'")
}
