// Package testutil provides fixtures shared by the package tests: a module
// of simple providers, helpers that lay out declaration sources on disk or
// in memory, and log capture.
package testutil

import (
	"context"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/declaration"
)

// Value is the service built by the "value" kind.
type Value struct {
	Value string `cty:"value"`
}

// Assembler is built by the "assembler" kind. Tag tells instances with the
// same resource type apart.
type Assembler struct {
	Type string `cty:"resource_type"`
	Tag  string `cty:"tag"`
}

func (a *Assembler) ResourceType() declaration.ResourceType { return declaration.ResourceType(a.Type) }

// Weaver is built by the "weaver" kind.
type Weaver struct {
	Type string `cty:"resource_type"`
	Tag  string `cty:"tag"`
}

func (w *Weaver) ResourceType() declaration.ResourceType { return declaration.ResourceType(w.Type) }

// Belief is built by the "belief" kind.
type Belief struct {
	Type string `cty:"belief_type"`
	Tag  string `cty:"tag"`
}

func (b *Belief) BeliefType() declaration.BeliefType { return declaration.BeliefType(b.Type) }

// Runtime is built by the "runtime" kind.
type Runtime struct {
	Interface string `cty:"interface"`
	Tag       string `cty:"tag"`
}

func (r *Runtime) ServiceInterface() string { return r.Interface }

// Module registers the fixture kinds.
type Module struct{}

// Register implements catalog.Module.
func (Module) Register(c *catalog.Catalog) {
	c.RegisterService("value", func(_ context.Context, args catalog.Args) (any, error) {
		v := &Value{}
		return v, args.Decode(v)
	})
	c.RegisterAssembler("assembler", func(_ context.Context, args catalog.Args) (declaration.AssemblerService, error) {
		a := &Assembler{}
		return a, args.Decode(a)
	})
	c.RegisterWeaver("weaver", func(_ context.Context, args catalog.Args) (declaration.WeaverService, error) {
		w := &Weaver{}
		return w, args.Decode(w)
	})
	c.RegisterBelief("belief", func(_ context.Context, args catalog.Args) (declaration.BeliefService, error) {
		b := &Belief{}
		return b, args.Decode(b)
	})
	c.RegisterRuntime("runtime", func(_ context.Context, args catalog.Args) (declaration.RuntimeService, error) {
		r := &Runtime{}
		return r, args.Decode(r)
	})
}

// Catalog returns a fresh catalog holding the fixture kinds.
func Catalog() *catalog.Catalog {
	return catalog.New(Module{})
}
