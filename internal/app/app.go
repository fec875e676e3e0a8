package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/discovery"
	"github.com/vk/plugreg/internal/metrics"
	"github.com/vk/plugreg/internal/services"
	"github.com/vk/plugreg/internal/tracing"
	"github.com/vk/plugreg/modules"
)

const instrumentationName = "github.com/vk/plugreg"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	catalog    *catalog.Catalog
	engine     *discovery.Engine
	promReg    *prometheus.Registry
	tracing    *tracing.Provider
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, catalog, metrics registry and
// discovery engine. Without modules, the compiled-in core modules are used.
func NewApp(ctx context.Context, outW io.Writer, cfg *Config, mods ...catalog.Module) (*App, error) {
	logger := cfg.NewLogger(outW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	if len(mods) == 0 {
		mods = modules.Core()
	}
	cat := catalog.New(mods...)
	logger.Debug("All Go modules registered.", "count", len(mods))

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tp, err := tracing.NewProvider(ctx, cfg.Tracing, outW)
	if err != nil {
		return nil, fmt.Errorf("failed to configure tracing: %w", err)
	}

	engine := discovery.New(cfg.Discovery(), cat,
		discovery.WithLogger(logger),
		discovery.WithMetrics(metrics.New(promReg)),
		discovery.WithTracer(tp.Tracer(instrumentationName)),
	)

	return &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: cat,
		engine:  engine,
		promReg: promReg,
		tracing: tp,
	}, nil
}

// Catalog returns the factory catalog built from the app's modules.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Register adds a programmatic service before discovery runs.
func (a *App) Register(name string, value any) error {
	return a.engine.Register(name, value)
}

// Services runs discovery on first use and returns the registry facade.
func (a *App) Services(ctx context.Context) (*services.Services, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return services.New(ctx, a.engine)
}

// Close flushes traces and stops the health check server if it runs.
func (a *App) Close(ctx context.Context) error {
	if err := a.closeHealthCheckServer(ctx); err != nil {
		return err
	}
	return a.tracing.Shutdown(ctx)
}
