// Package http_client provides the "http_client" service: a shared
// *http.Client configured from its declaration.
package http_client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/plugreg/internal/catalog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of an 'http_client' service declaration.
type Input struct {
	Timeout             string `cty:"timeout"`
	MaxIdleConns        int    `cty:"max_idle_conns"`
	MaxIdleConnsPerHost int    `cty:"max_idle_conns_per_host"`
}

// NewHTTPClient is the factory for the 'http_client' kind. It returns a live
// *http.Client that every consumer of the registry shares.
func NewHTTPClient(_ context.Context, args catalog.Args) (any, error) {
	input := Input{Timeout: "30s", MaxIdleConns: 100, MaxIdleConnsPerHost: 10}
	if err := args.Decode(&input); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(input.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", input.Timeout, err)
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        input.MaxIdleConns,
			MaxIdleConnsPerHost: input.MaxIdleConnsPerHost,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// Register registers the factory with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterService("http_client", NewHTTPClient)
}
