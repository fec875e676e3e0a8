// Package beliefs provides the "set" belief system: a concurrency-safe set
// of asserted facts.
package beliefs

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/declaration"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of a 'set' belief declaration.
type Input struct {
	BeliefType string   `cty:"belief_type"`
	Initial    []string `cty:"initial"`
}

// Set is a belief system in which a fact holds once asserted and until
// retracted. Each fact tracks how many times it was asserted; it stops
// holding when every assertion has been retracted.
type Set struct {
	beliefType declaration.BeliefType

	mu    sync.RWMutex
	facts map[string]int
}

var _ declaration.BeliefService = (*Set)(nil)

// BeliefType implements declaration.BeliefService.
func (s *Set) BeliefType() declaration.BeliefType { return s.beliefType }

// Assert adds one justification for fact.
func (s *Set) Assert(fact string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts[fact]++
}

// Retract removes one justification for fact. It reports whether fact
// still holds.
func (s *Set) Retract(fact string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.facts[fact]
	if !ok {
		return false
	}
	if n <= 1 {
		delete(s.facts, fact)
		return false
	}
	s.facts[fact] = n - 1
	return true
}

// Holds reports whether fact is currently believed.
func (s *Set) Holds(fact string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.facts[fact]
	return ok
}

// Facts returns every believed fact, sorted.
func (s *Set) Facts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.facts))
}

// New is the factory for the 'set' kind.
func New(_ context.Context, args catalog.Args) (declaration.BeliefService, error) {
	input := Input{BeliefType: "simple"}
	if err := args.Decode(&input); err != nil {
		return nil, err
	}
	s := &Set{beliefType: declaration.BeliefType(input.BeliefType), facts: make(map[string]int)}
	for _, f := range input.Initial {
		s.Assert(f)
	}
	return s, nil
}

// Register registers the factory with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterBelief("set", New)
}
