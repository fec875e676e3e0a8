package registry

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"sync/atomic"
)

// Collection is a map from a category key to a provider. Keys are unique
// and the last Put for a key wins. A frozen collection rejects all writes.
type Collection[K cmp.Ordered, V any] struct {
	entries map[K]V
	frozen  atomic.Bool
}

// Put adds or replaces the provider stored under key.
func (c *Collection[K, V]) Put(key K, value V) error {
	if c.frozen.Load() {
		return fmt.Errorf("cannot add %v: %w", key, ErrSealed)
	}
	if c.entries == nil {
		c.entries = make(map[K]V)
	}
	c.entries[key] = value
	return nil
}

// Get returns the provider stored under key.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Len returns the number of providers.
func (c *Collection[K, V]) Len() int {
	return len(c.entries)
}

// Keys returns all keys in ascending order.
func (c *Collection[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All iterates over the providers in key order.
func (c *Collection[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range c.Keys() {
			if !yield(k, c.entries[k]) {
				return
			}
		}
	}
}

// Frozen reports whether the collection has been sealed.
func (c *Collection[K, V]) Frozen() bool {
	return c.frozen.Load()
}

func (c *Collection[K, V]) freeze() {
	c.frozen.Store(true)
}
