package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/plugreg/internal/declaration"
)

// Module is the interface that all provider modules implement to expose
// their factories.
type Module interface {
	Register(c *Catalog)
}

// Factory constructs one provider from its declared arguments.
type Factory[T any] func(ctx context.Context, args Args) (T, error)

// Catalog holds the registered factories of every category, keyed by kind.
type Catalog struct {
	mu         sync.RWMutex
	services   map[string]Factory[any]
	assemblers map[string]Factory[declaration.AssemblerService]
	weavers    map[string]Factory[declaration.WeaverService]
	beliefs    map[string]Factory[declaration.BeliefService]
	runtimes   map[string]Factory[declaration.RuntimeService]
}

// New creates a Catalog holding the factories of modules.
func New(modules ...Module) *Catalog {
	c := &Catalog{
		services:   make(map[string]Factory[any]),
		assemblers: make(map[string]Factory[declaration.AssemblerService]),
		weavers:    make(map[string]Factory[declaration.WeaverService]),
		beliefs:    make(map[string]Factory[declaration.BeliefService]),
		runtimes:   make(map[string]Factory[declaration.RuntimeService]),
	}
	for _, m := range modules {
		m.Register(c)
	}
	return c
}

func register[T any](c *Catalog, m map[string]Factory[T], cat declaration.Category, kind string, f Factory[T]) {
	if kind == "" {
		panic(fmt.Sprintf("%s factory registered with empty kind", cat))
	}
	if f == nil {
		panic(fmt.Sprintf("%s factory '%s' is nil", cat, kind))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := m[kind]; exists {
		panic(fmt.Sprintf("%s factory with kind '%s' already registered", cat, kind))
	}
	slog.Debug("Registering factory.", "category", string(cat), "kind", kind)
	m[kind] = f
}

// RegisterService registers the factory for a plain named service kind.
func (c *Catalog) RegisterService(kind string, f Factory[any]) {
	register(c, c.services, declaration.CategoryServices, kind, f)
}

// RegisterAssembler registers the factory for an assembler kind.
func (c *Catalog) RegisterAssembler(kind string, f Factory[declaration.AssemblerService]) {
	register(c, c.assemblers, declaration.CategoryAssemblers, kind, f)
}

// RegisterWeaver registers the factory for a weaver kind.
func (c *Catalog) RegisterWeaver(kind string, f Factory[declaration.WeaverService]) {
	register(c, c.weavers, declaration.CategoryWeavers, kind, f)
}

// RegisterBelief registers the factory for a belief kind.
func (c *Catalog) RegisterBelief(kind string, f Factory[declaration.BeliefService]) {
	register(c, c.beliefs, declaration.CategoryBeliefs, kind, f)
}

// RegisterRuntime registers the factory for a runtime kind.
func (c *Catalog) RegisterRuntime(kind string, f Factory[declaration.RuntimeService]) {
	register(c, c.runtimes, declaration.CategoryRuntimes, kind, f)
}

func construct[T any](ctx context.Context, c *Catalog, m map[string]Factory[T], cat declaration.Category, kind string, args Args) (T, error) {
	c.mu.RLock()
	f, ok := m[kind]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, fmt.Errorf("unknown %s kind %q", cat, kind)
	}
	v, err := f(ctx, args)
	if err != nil {
		return zero, fmt.Errorf("%s kind %q: %w", cat, kind, err)
	}
	return v, nil
}

// Service constructs a plain service of the given kind.
func (c *Catalog) Service(ctx context.Context, kind string, args Args) (any, error) {
	return construct(ctx, c, c.services, declaration.CategoryServices, kind, args)
}

// Assembler constructs an assembler of the given kind.
func (c *Catalog) Assembler(ctx context.Context, kind string, args Args) (declaration.AssemblerService, error) {
	return construct(ctx, c, c.assemblers, declaration.CategoryAssemblers, kind, args)
}

// Weaver constructs a weaver of the given kind.
func (c *Catalog) Weaver(ctx context.Context, kind string, args Args) (declaration.WeaverService, error) {
	return construct(ctx, c, c.weavers, declaration.CategoryWeavers, kind, args)
}

// Belief constructs a belief provider of the given kind.
func (c *Catalog) Belief(ctx context.Context, kind string, args Args) (declaration.BeliefService, error) {
	return construct(ctx, c, c.beliefs, declaration.CategoryBeliefs, kind, args)
}

// Runtime constructs a runtime provider of the given kind.
func (c *Catalog) Runtime(ctx context.Context, kind string, args Args) (declaration.RuntimeService, error) {
	return construct(ctx, c, c.runtimes, declaration.CategoryRuntimes, kind, args)
}

// Kinds returns the registered kinds of one category, sorted.
func (c *Catalog) Kinds(cat declaration.Category) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var kinds []string
	switch cat {
	case declaration.CategoryServices:
		kinds = keys(c.services)
	case declaration.CategoryAssemblers:
		kinds = keys(c.assemblers)
	case declaration.CategoryWeavers:
		kinds = keys(c.weavers)
	case declaration.CategoryBeliefs:
		kinds = keys(c.beliefs)
	case declaration.CategoryRuntimes:
		kinds = keys(c.runtimes)
	}
	sort.Strings(kinds)
	return kinds
}

func keys[T any](m map[string]Factory[T]) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
