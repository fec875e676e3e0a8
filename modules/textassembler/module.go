// Package textassembler provides an assembler and a weaver for plain text
// resources.
package textassembler

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
)

// DefaultResourceType is used when a declaration does not set resource_type.
const DefaultResourceType declaration.ResourceType = "TXT"

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of 'text' assembler and weaver declarations.
type Input struct {
	ResourceType string `cty:"resource_type"`
	Separator    string `cty:"separator"`
	TrimSpace    bool   `cty:"trim_space"`
}

func decode(args catalog.Args) (Input, error) {
	input := Input{ResourceType: string(DefaultResourceType), Separator: "\n"}
	if err := args.Decode(&input); err != nil {
		return input, err
	}
	if input.ResourceType == "" {
		return input, errors.New("resource_type must not be empty")
	}
	return input, nil
}

// Assembler collects named text resources.
type Assembler struct {
	resourceType declaration.ResourceType
	trimSpace    bool

	mu        sync.RWMutex
	resources map[string]string
}

var _ declaration.AssemblerService = (*Assembler)(nil)

// ResourceType implements declaration.AssemblerService.
func (a *Assembler) ResourceType() declaration.ResourceType { return a.resourceType }

// Add stores src under name, replacing any earlier resource of that name.
func (a *Assembler) Add(ctx context.Context, name string, src []byte) error {
	if name == "" {
		return errors.New("resource name must not be empty")
	}
	text := string(src)
	if a.trimSpace {
		text = strings.TrimSpace(text)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.resources[name] = text
	ctxlog.FromContext(ctx).Debug("Assembled text resource.", "resource_type", string(a.resourceType), "name", name, "bytes", len(text))
	return nil
}

// Resource returns the resource stored under name.
func (a *Assembler) Resource(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	text, ok := a.resources[name]
	return text, ok
}

// Names returns the assembled resource names, sorted.
func (a *Assembler) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Sorted(maps.Keys(a.resources))
}

// Weaver joins text fragments into one resource.
type Weaver struct {
	resourceType declaration.ResourceType
	separator    string
	trimSpace    bool
}

var _ declaration.WeaverService = (*Weaver)(nil)

// ResourceType implements declaration.WeaverService.
func (w *Weaver) ResourceType() declaration.ResourceType { return w.resourceType }

// Weave joins base and every part with the configured separator. Empty
// fragments are dropped.
func (w *Weaver) Weave(base string, parts ...string) string {
	fragments := make([]string, 0, len(parts)+1)
	for _, p := range append([]string{base}, parts...) {
		if w.trimSpace {
			p = strings.TrimSpace(p)
		}
		if p != "" {
			fragments = append(fragments, p)
		}
	}
	return strings.Join(fragments, w.separator)
}

// WeaveAssembled weaves every resource held by a, in name order.
func (w *Weaver) WeaveAssembled(a *Assembler) (string, error) {
	if a.ResourceType() != w.resourceType {
		return "", fmt.Errorf("cannot weave %s resources with a %s weaver", a.ResourceType(), w.resourceType)
	}
	names := a.Names()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		text, _ := a.Resource(n)
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return w.Weave(parts[0], parts[1:]...), nil
}

// NewAssembler is the factory for the 'text' assembler kind.
func NewAssembler(_ context.Context, args catalog.Args) (declaration.AssemblerService, error) {
	input, err := decode(args)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		resourceType: declaration.ResourceType(input.ResourceType),
		trimSpace:    input.TrimSpace,
		resources:    make(map[string]string),
	}, nil
}

// NewWeaver is the factory for the 'text' weaver kind.
func NewWeaver(_ context.Context, args catalog.Args) (declaration.WeaverService, error) {
	input, err := decode(args)
	if err != nil {
		return nil, err
	}
	return &Weaver{
		resourceType: declaration.ResourceType(input.ResourceType),
		separator:    input.Separator,
		trimSpace:    input.TrimSpace,
	}, nil
}

// Register registers the factories with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterAssembler("text", NewAssembler)
	c.RegisterWeaver("text", NewWeaver)
}
