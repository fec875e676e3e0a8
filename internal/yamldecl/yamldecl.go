// Package yamldecl provides a YAML implementation of declaration.Evaluator.
//
//	services:
//	  greeting:
//	    kind: print
//	    label: hello
//	assemblers:
//	  - kind: text
//	    resource_type: TXT
//	runtimes:
//	  - kind: socketio
//	    url: http://localhost:3000
//
// Every key besides kind is passed to the factory as an argument.
package yamldecl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

type document struct {
	Services   map[string]map[string]any `yaml:"services"`
	Assemblers []map[string]any          `yaml:"assemblers"`
	Weavers    []map[string]any          `yaml:"weavers"`
	Beliefs    []map[string]any          `yaml:"beliefs"`
	Runtimes   []map[string]any          `yaml:"runtimes"`
}

// Evaluator is the YAML implementation of declaration.Evaluator.
type Evaluator struct {
	catalog *catalog.Catalog
}

var _ declaration.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates an Evaluator constructing providers from c.
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Evaluate implements declaration.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, source string, src []byte) (*declaration.Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating YAML declarations.", "source", source, "bytes", len(src))

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &declaration.EvaluationError{Source: source, Err: err}
	}

	entries, err := translate(&doc)
	if err != nil {
		return nil, &declaration.EvaluationError{Source: source, Err: err}
	}
	return e.catalog.Build(ctx, source, entries)
}

func translate(doc *document) ([]catalog.Entry, error) {
	var entries []catalog.Entry

	names := make([]string, 0, len(doc.Services))
	for name := range doc.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry, err := toEntry(declaration.CategoryServices, doc.Services[name])
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", name, err)
		}
		entry.Name = name
		entries = append(entries, entry)
	}

	groups := []struct {
		category declaration.Category
		items    []map[string]any
	}{
		{declaration.CategoryAssemblers, doc.Assemblers},
		{declaration.CategoryWeavers, doc.Weavers},
		{declaration.CategoryBeliefs, doc.Beliefs},
		{declaration.CategoryRuntimes, doc.Runtimes},
	}
	for _, g := range groups {
		for i, item := range g.items {
			entry, err := toEntry(g.category, item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", g.category, i, err)
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func toEntry(category declaration.Category, item map[string]any) (catalog.Entry, error) {
	kind, ok := item["kind"].(string)
	if !ok || kind == "" {
		return catalog.Entry{}, errors.New("missing required string field 'kind'")
	}
	attrs := make(map[string]cty.Value, len(item)-1)
	for k, v := range item {
		if k == "kind" {
			continue
		}
		val, err := catalog.ValueFromGo(v)
		if err != nil {
			return catalog.Entry{}, fmt.Errorf("argument '%s': %w", k, err)
		}
		attrs[k] = val
	}
	return catalog.Entry{Category: category, Kind: kind, Args: catalog.NewArgs(attrs)}, nil
}
