// Package services is the read side of the registry: a facade over the
// sealed snapshot produced by a discovery pass.
package services

import (
	"context"
	"sync"

	"github.com/vk/plugreg/internal/discovery"
	"github.com/vk/plugreg/internal/registry"
)

// Discoverer runs (or returns the cached result of) a discovery pass.
// *discovery.Engine implements it.
type Discoverer interface {
	Discover(ctx context.Context) (*registry.Registry, error)
}

// Services serves lookups from a sealed registry.
type Services struct {
	reg *registry.Registry
}

// New triggers discovery on d and wraps the resulting registry.
func New(ctx context.Context, d Discoverer) (*Services, error) {
	reg, err := d.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return &Services{reg: reg}, nil
}

// once returns a function that builds a facade over d on first call and
// returns that same outcome, success or failure, on every call.
func once(d func() Discoverer) func() (*Services, error) {
	return sync.OnceValues(func() (*Services, error) {
		return New(context.Background(), d())
	})
}

var instance = once(func() Discoverer { return discovery.Default() })

// Instance returns the process-wide facade over discovery.Default(). The
// first call runs discovery; a failure is returned on every later call.
func Instance() (*Services, error) {
	return instance()
}

// Get returns the entry stored under key as a T.
func Get[T any](s *Services, key string) (T, bool, error) {
	return registry.Get[T](s.reg, key)
}

// ByType returns the entry registered under T's type key.
func ByType[T any](s *Services) (T, bool, error) {
	return registry.ByType[T](s.reg)
}

func (s *Services) Lookup(key string) (any, bool) { return s.reg.Lookup(key) }
func (s *Services) Keys() []string               { return s.reg.Keys() }
func (s *Services) Registry() *registry.Registry { return s.reg }

func (s *Services) Assemblers() *registry.Assemblers { return s.reg.Assemblers() }
func (s *Services) Weavers() *registry.Weavers       { return s.reg.Weavers() }
func (s *Services) Runtimes() *registry.Runtimes     { return s.reg.Runtimes() }
func (s *Services) Beliefs() *registry.Beliefs       { return s.reg.Beliefs() }
