package registry

import (
	"github.com/vk/plugreg/internal/declaration"
)

// Assemblers holds assembler providers keyed by resource type.
type Assemblers struct {
	Collection[declaration.ResourceType, declaration.AssemblerService]
}

// Weavers holds weaver providers keyed by resource type.
type Weavers struct {
	Collection[declaration.ResourceType, declaration.WeaverService]
}

// Runtimes holds runtime providers keyed by the identity of the service
// interface they implement.
type Runtimes struct {
	Collection[string, declaration.RuntimeService]
}

// Beliefs holds belief providers keyed by belief type.
type Beliefs struct {
	Collection[declaration.BeliefType, declaration.BeliefService]
}

// Collections groups the four typed category collections.
type Collections struct {
	Assemblers *Assemblers
	Weavers    *Weavers
	Runtimes   *Runtimes
	Beliefs    *Beliefs
}

// NewCollections returns empty, writable collections.
func NewCollections() Collections {
	return Collections{
		Assemblers: &Assemblers{},
		Weavers:    &Weavers{},
		Runtimes:   &Runtimes{},
		Beliefs:    &Beliefs{},
	}
}

// withDefaults fills any nil collection with an empty one.
func (c Collections) withDefaults() Collections {
	if c.Assemblers == nil {
		c.Assemblers = &Assemblers{}
	}
	if c.Weavers == nil {
		c.Weavers = &Weavers{}
	}
	if c.Runtimes == nil {
		c.Runtimes = &Runtimes{}
	}
	if c.Beliefs == nil {
		c.Beliefs = &Beliefs{}
	}
	return c
}

func (c Collections) freeze() {
	c.Assemblers.freeze()
	c.Weavers.freeze()
	c.Runtimes.freeze()
	c.Beliefs.freeze()
}
