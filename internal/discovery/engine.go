package discovery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/vk/plugreg/internal/hcl"
	"github.com/vk/plugreg/internal/metrics"
	"github.com/vk/plugreg/internal/registry"
	"github.com/vk/plugreg/internal/source"
	"github.com/vk/plugreg/internal/yamldecl"
	"github.com/vk/plugreg/modules"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vk/plugreg/internal/discovery"

// Option customizes an Engine.
type Option func(*Engine)

// WithProvider replaces the directory provider built from Config.SearchPath.
func WithProvider(p source.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithEvaluator replaces the extension-based HCL/YAML evaluator.
func WithEvaluator(ev declaration.Evaluator) Option {
	return func(e *Engine) { e.evaluator = ev }
}

// WithLogger sets the logger used during the pass. Without it the logger is
// taken from the context passed to Discover.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records the pass into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer sets the tracer used for discovery spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// Engine discovers declarations once and seals them into a registry.
type Engine struct {
	locator   string
	provider  source.Provider
	evaluator declaration.Evaluator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	// mu guards everything below and serializes Register with the pass.
	mu               sync.Mutex
	discoveryAllowed bool
	sealed           bool
	named            map[string]any
	services         map[string]any
	collections      registry.Collections
	result           *registry.Registry
	err              error
}

// New creates an Engine. Providers named in declarations are constructed
// from c.
func New(cfg Config, c *catalog.Catalog, opts ...Option) *Engine {
	if cfg.Locator == "" {
		cfg.Locator = source.DefaultLocator
	}
	e := &Engine{
		locator:          cfg.Locator,
		discoveryAllowed: !cfg.DiscoveryDisabled,
		named:            make(map[string]any),
		services:         make(map[string]any),
		collections:      registry.NewCollections(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.provider == nil {
		e.provider = source.NewDirProvider(cfg.SearchPath...)
	}
	if e.evaluator == nil {
		yamlEval := yamldecl.NewEvaluator(c)
		e.evaluator = declaration.ByExtension{
			".hcl":  hcl.NewEvaluator(c),
			".yaml": yamlEval,
			".yml":  yamlEval,
		}
	}
	if e.metrics == nil {
		e.metrics = metrics.New(nil)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine {
	return New(DefaultConfig(), catalog.New(modules.Core()...))
})

// Default returns the process-wide engine, configured by DefaultConfig and
// constructing providers from the compiled-in modules.
func Default() *Engine {
	return defaultEngine()
}

// Register adds or replaces a named service. A discovered service of the
// same name replaces it when the pass runs. After the pass it fails with a
// *SealedRegistryError and nothing is registered.
func (e *Engine) Register(name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		return &SealedRegistryError{Op: fmt.Sprintf("add service '%s'", name)}
	}
	if name == "" {
		return errors.New("service name must not be empty")
	}
	if isNil(value) {
		return fmt.Errorf("service '%s': value must not be nil", name)
	}
	e.named[name] = value
	return nil
}

// DiscoveryAllowed reports whether the pass will enumerate sources.
func (e *Engine) DiscoveryAllowed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discoveryAllowed
}

// SetDiscoveryAllowed toggles source enumeration. It can only be changed
// before the pass.
func (e *Engine) SetDiscoveryAllowed(allowed bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sealed {
		return &SealedRegistryError{Op: "change the discovery setting"}
	}
	e.discoveryAllowed = allowed
	return nil
}

// Sealed reports whether the pass has run.
func (e *Engine) Sealed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sealed
}

// Discover runs the discovery pass on first use and returns its outcome on
// every call. A failed pass is not retried.
func (e *Engine) Discover(ctx context.Context) (*registry.Registry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sealed {
		e.result, e.err = e.run(ctx)
		e.sealed = true
	}
	return e.result, e.err
}

func (e *Engine) run(ctx context.Context) (reg *registry.Registry, err error) {
	if e.logger != nil {
		ctx = ctxlog.WithLogger(ctx, e.logger)
	}
	passID := uuid.NewString()
	ctx, logger := ctxlog.With(ctx, "pass_id", passID)

	ctx, span := e.tracer.Start(ctx, "plugreg.discover", trace.WithAttributes(
		attribute.String("plugreg.pass_id", passID),
		attribute.String("plugreg.locator", e.locator),
		attribute.Bool("plugreg.discovery_allowed", e.discoveryAllowed),
	))
	start := time.Now()
	defer func() {
		e.metrics.ObservePass(start)
		if err != nil {
			e.metrics.PassFailures.Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger.Debug("Discovery pass started.", "locator", e.locator)

	if e.discoveryAllowed {
		for _, loc := range e.enumerate(ctx) {
			if err := e.processSource(ctx, loc); err != nil {
				logger.Error("Discovery pass aborted.", "source", loc.ID, "error", err)
				return nil, err
			}
		}
	} else {
		logger.Info("Declaration discovery disabled, using programmatic registrations only.")
	}

	named := make(map[string]any, len(e.services)+len(e.named))
	for name, v := range e.named {
		named[name] = v
	}
	for name, v := range e.services {
		if _, shadowed := named[name]; shadowed {
			logger.Debug("Discovered service replaces programmatic registration.", "name", name)
		}
		named[name] = v
	}

	reg = registry.Build(e.collections, named)
	span.SetAttributes(attribute.Int("plugreg.entries", reg.Len()))
	logger.Info("Registry sealed.",
		"services", len(named),
		"assemblers", reg.Assemblers().Len(),
		"weavers", reg.Weavers().Len(),
		"runtimes", reg.Runtimes().Len(),
		"beliefs", reg.Beliefs().Len(),
		"duration", time.Since(start),
	)
	return reg, nil
}

// enumerate lists the sources, treating a provider failure as "no sources".
func (e *Engine) enumerate(ctx context.Context) []source.Location {
	logger := ctxlog.FromContext(ctx)

	locs, err := e.provider.Enumerate(ctx, e.locator)
	if err != nil {
		enumErr := &SourceEnumerationError{Locator: e.locator, Err: err}
		e.metrics.EnumerationFailures.Inc()
		logger.Warn("Discovery started, but declaration sources could not be listed.", "error", enumErr)
		return nil
	}
	if len(locs) == 0 {
		logger.Info("No declaration sources found.", "locator", e.locator)
	}
	return locs
}

func (e *Engine) processSource(ctx context.Context, loc source.Location) (err error) {
	logger := ctxlog.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return &SourceReadError{Source: loc.ID, Err: err}
	}

	ctx, span := e.tracer.Start(ctx, "plugreg.source", trace.WithAttributes(
		attribute.String("plugreg.source", loc.ID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	src, err := e.read(ctx, loc)
	if err != nil {
		return &SourceReadError{Source: loc.ID, Err: err}
	}
	logger.Info("Discovered declaration source.", "source", loc.ID)

	set, err := e.evaluator.Evaluate(ctx, loc.ID, src)
	if err != nil {
		var evalErr *declaration.EvaluationError
		if errors.As(err, &evalErr) {
			return err
		}
		return &declaration.EvaluationError{Source: loc.ID, Err: err}
	}
	e.metrics.SourcesEvaluated.Inc()

	if set.IsEmpty() {
		e.metrics.EmptySources.Inc()
		logger.Info("Empty declaration source.", "source", loc.ID)
		return nil
	}
	return e.merge(ctx, loc.ID, set)
}

func (e *Engine) read(ctx context.Context, loc source.Location) ([]byte, error) {
	rc, err := e.provider.Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			ctxlog.FromContext(ctx).Warn("Unable to close declaration source.", "source", loc.ID, "error", cerr)
		}
	}()
	return io.ReadAll(rc)
}

// merge routes one declaration set into the engine's collections. Later
// calls override earlier ones on key collisions.
func (e *Engine) merge(ctx context.Context, sourceID string, set *declaration.Set) error {
	logger := ctxlog.FromContext(ctx)

	for name, v := range set.Services {
		if isNil(v) {
			return declaration.Errorf(sourceID, "service '%s' is nil", name)
		}
		if _, exists := e.services[name]; exists {
			logger.Debug("Service overridden by later source.", "name", name, "source", sourceID)
		}
		e.services[name] = v
		logger.Info("Adding service.", "name", name, "type", fmt.Sprintf("%T", v))
	}

	if err := route(ctx, sourceID, declaration.CategoryAssemblers, &e.collections.Assemblers.Collection, set.Assemblers,
		declaration.AssemblerService.ResourceType); err != nil {
		return err
	}
	if err := route(ctx, sourceID, declaration.CategoryWeavers, &e.collections.Weavers.Collection, set.Weavers,
		declaration.WeaverService.ResourceType); err != nil {
		return err
	}
	if err := route(ctx, sourceID, declaration.CategoryBeliefs, &e.collections.Beliefs.Collection, set.Beliefs,
		declaration.BeliefService.BeliefType); err != nil {
		return err
	}
	if err := route(ctx, sourceID, declaration.CategoryRuntimes, &e.collections.Runtimes.Collection, set.Runtimes,
		declaration.RuntimeService.ServiceInterface); err != nil {
		return err
	}

	counts := set.Count()
	for _, cat := range declaration.Categories {
		e.metrics.IncrementProviders(string(cat), counts[cat])
	}
	return nil
}

// route stores each provider under the key it reports for itself.
func route[K cmp.Ordered, V any](ctx context.Context, sourceID string, cat declaration.Category, c *registry.Collection[K, V], providers []V, key func(V) K) error {
	logger := ctxlog.FromContext(ctx)
	for _, p := range providers {
		if isNil(p) {
			return declaration.Errorf(sourceID, "nil provider in %s", cat)
		}
		k := key(p)
		if _, exists := c.Get(k); exists {
			logger.Debug("Provider overridden by later source.", "category", string(cat), "key", k, "source", sourceID)
		}
		if err := c.Put(k, p); err != nil {
			return err
		}
		logger.Info("Adding provider.", "category", string(cat), "key", k, "type", fmt.Sprintf("%T", p))
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
