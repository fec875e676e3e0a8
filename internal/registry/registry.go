package registry

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

// ErrSealed is returned by every write attempted after the registry has been
// built.
var ErrSealed = errors.New("registry is sealed")

// LookupMismatchError reports that the value stored under Key is not of the
// type the caller asked for.
type LookupMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *LookupMismatchError) Error() string {
	return fmt.Sprintf("registry entry %q is %s, want %s", e.Key, e.Got, e.Want)
}

// Registry is the immutable result of a discovery pass.
type Registry struct {
	entries map[string]any
}

// TypeKey returns the key a value of type T is registered under when it is
// looked up by type: the package path and name of T, with pointers removed.
func TypeKey[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Build flattens the named services and the category collections into a
// Registry and freezes the collections. Nil collections are replaced by
// empty ones, so every collection is always present. A named service whose
// name collides with a collection's type key is shadowed by the collection.
func Build(c Collections, named map[string]any) *Registry {
	c = c.withDefaults()

	entries := make(map[string]any, len(named)+4)
	maps.Copy(entries, named)
	entries[TypeKey[*Assemblers]()] = c.Assemblers
	entries[TypeKey[*Weavers]()] = c.Weavers
	entries[TypeKey[*Runtimes]()] = c.Runtimes
	entries[TypeKey[*Beliefs]()] = c.Beliefs

	c.freeze()
	return &Registry{entries: entries}
}

// Lookup returns the raw value stored under key.
func (r *Registry) Lookup(key string) (any, bool) {
	v, ok := r.entries[key]
	return v, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Keys returns every key, sorted.
func (r *Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Entries returns a copy of the underlying mapping.
func (r *Registry) Entries() map[string]any {
	return maps.Clone(r.entries)
}

// Assemblers returns the assembler collection.
func (r *Registry) Assemblers() *Assemblers {
	return r.entries[TypeKey[*Assemblers]()].(*Assemblers)
}

// Weavers returns the weaver collection.
func (r *Registry) Weavers() *Weavers {
	return r.entries[TypeKey[*Weavers]()].(*Weavers)
}

// Runtimes returns the runtime collection.
func (r *Registry) Runtimes() *Runtimes {
	return r.entries[TypeKey[*Runtimes]()].(*Runtimes)
}

// Beliefs returns the belief collection.
func (r *Registry) Beliefs() *Beliefs {
	return r.entries[TypeKey[*Beliefs]()].(*Beliefs)
}

// Get returns the value stored under key as a T. A missing key is reported
// through ok, not as an error; a value of another type yields a
// *LookupMismatchError.
func Get[T any](r *Registry, key string) (value T, ok bool, err error) {
	raw, found := r.entries[key]
	if !found {
		return value, false, nil
	}
	typed, isT := raw.(T)
	if !isT {
		return value, false, &LookupMismatchError{
			Key:  key,
			Want: reflect.TypeFor[T]().String(),
			Got:  fmt.Sprintf("%T", raw),
		}
	}
	return typed, true, nil
}

// ByType looks T up under TypeKey[T]().
func ByType[T any](r *Registry) (T, bool, error) {
	return Get[T](r, TypeKey[T]())
}
