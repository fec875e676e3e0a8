package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/tracing"
)

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"upper case is normalized", func(c *Config) { c.LogLevel = "DEBUG"; c.LogFormat = "JSON" }, ""},
		{"empty locator", func(c *Config) { c.Locator = " " }, "locator is a required configuration field"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log-format"},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "invalid log-level"},
		{"bad exporter", func(c *Config) { c.Tracing = tracing.Config{Exporter: "zipkin"} }, "invalid tracing configuration"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw := DefaultConfig()
			tc.mutate(&raw)

			cfg, err := NewConfig(raw)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, []string{"text", "json"}, cfg.LogFormat)
		})
	}
}

func TestConfig_Discovery(t *testing.T) {
	cfg, err := NewConfig(Config{
		SearchPath: []string{"/a", "/b"},
		Locator:    "META-INF/custom.yaml",
		LogFormat:  "text",
		LogLevel:   "info",
	})
	require.NoError(t, err)

	d := cfg.Discovery()
	assert.Equal(t, []string{"/a", "/b"}, d.SearchPath)
	assert.Equal(t, "META-INF/custom.yaml", d.Locator)
	assert.False(t, d.DiscoveryDisabled)
}

func TestConfig_NewLogger(t *testing.T) {
	raw := DefaultConfig()
	raw.LogLevel = "WARN"
	raw.LogFormat = "Json"
	cfg, err := NewConfig(raw)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	logger.Info("dropped")
	logger.Warn("kept", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"kept"`)
	assert.Contains(t, out, `"key":"value"`)
}
