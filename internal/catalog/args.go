package catalog

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Args holds the evaluated arguments of one declaration.
type Args struct {
	attrs map[string]cty.Value
}

// NewArgs wraps already evaluated attribute values.
func NewArgs(attrs map[string]cty.Value) Args {
	return Args{attrs: attrs}
}

// Len returns the number of arguments.
func (a Args) Len() int {
	return len(a.attrs)
}

// Names returns the argument names, sorted.
func (a Args) Names() []string {
	names := make([]string, 0, len(a.attrs))
	for name := range a.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value returns the raw value of one argument.
func (a Args) Value(name string) (cty.Value, bool) {
	v, ok := a.attrs[name]
	return v, ok
}

// Decode populates the struct pointed to by target. Each exported field
// tagged `cty:"name"` receives the argument of that name, converted to the
// field's type. Missing or null arguments leave the field untouched, so
// callers set defaults before decoding. An argument with no matching field
// is an error.
func (a Args) Decode(target any) error {
	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() || structVal.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	known := make(map[string]struct{})
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := strings.Split(field.Tag.Get("cty"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		known[name] = struct{}{}

		val, ok := a.attrs[name]
		if !ok || val.IsNull() {
			continue
		}
		if err := decodeValue(val, structVal.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("failed to decode argument '%s': %w", name, err)
		}
	}

	var unknown []string
	for _, name := range a.Names() {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unsupported arguments: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// decodeValue converts val to the cty type implied by goVal and decodes it.
func decodeValue(val cty.Value, goVal any) error {
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Pointer {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, goVal)
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// ValueFromGo converts a generic decoded document (as produced by YAML or
// JSON decoders into any) into a cty.Value. Maps become objects and slices
// become tuples.
func ValueFromGo(v any) (cty.Value, error) {
	switch t := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return t, nil
	case string:
		return cty.StringVal(t), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case uint64:
		return cty.NumberUIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(t))
		for i, e := range t {
			ev, err := ValueFromGo(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("[%d]: %w", i, err)
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(t) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(t))
		for k, e := range t {
			ev, err := ValueFromGo(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("%s: %w", k, err)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", v)
	}
}
