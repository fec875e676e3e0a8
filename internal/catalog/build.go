package catalog

import (
	"context"
	"reflect"

	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
)

// Entry is one format-agnostic declaration as read by an evaluator, before
// the provider is constructed.
type Entry struct {
	Category declaration.Category
	// Name is only meaningful for services.
	Name string
	Kind string
	Args Args
}

// Build constructs every entry through the catalog and collects the
// providers into a Set. Construction failures and providers that come back
// nil are reported as *declaration.EvaluationError for source. An empty
// entry list yields a nil Set.
func (c *Catalog) Build(ctx context.Context, source string, entries []Entry) (*declaration.Set, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx)

	set := &declaration.Set{}
	for _, e := range entries {
		switch e.Category {
		case declaration.CategoryServices:
			if e.Name == "" {
				return nil, declaration.Errorf(source, "service of kind %q has no name", e.Kind)
			}
			v, err := c.Service(ctx, e.Kind, e.Args)
			if err != nil {
				return nil, &declaration.EvaluationError{Source: source, Err: err}
			}
			if isNil(v) {
				return nil, declaration.Errorf(source, "service %q of kind %q constructed nil", e.Name, e.Kind)
			}
			if set.Services == nil {
				set.Services = make(map[string]any)
			}
			set.Services[e.Name] = v
		case declaration.CategoryAssemblers:
			v, err := c.Assembler(ctx, e.Kind, e.Args)
			if err := checkProvider(source, e, v, err); err != nil {
				return nil, err
			}
			set.Assemblers = append(set.Assemblers, v)
		case declaration.CategoryWeavers:
			v, err := c.Weaver(ctx, e.Kind, e.Args)
			if err := checkProvider(source, e, v, err); err != nil {
				return nil, err
			}
			set.Weavers = append(set.Weavers, v)
		case declaration.CategoryBeliefs:
			v, err := c.Belief(ctx, e.Kind, e.Args)
			if err := checkProvider(source, e, v, err); err != nil {
				return nil, err
			}
			set.Beliefs = append(set.Beliefs, v)
		case declaration.CategoryRuntimes:
			v, err := c.Runtime(ctx, e.Kind, e.Args)
			if err := checkProvider(source, e, v, err); err != nil {
				return nil, err
			}
			set.Runtimes = append(set.Runtimes, v)
		default:
			return nil, declaration.Errorf(source, "unknown category %q", e.Category)
		}
		logger.Debug("Constructed provider.", "source", source, "category", string(e.Category), "kind", e.Kind, "name", e.Name)
	}
	return set, nil
}

func checkProvider(source string, e Entry, v any, err error) error {
	if err != nil {
		return &declaration.EvaluationError{Source: source, Err: err}
	}
	if isNil(v) {
		return declaration.Errorf(source, "%s kind %q constructed nil", e.Category, e.Kind)
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
