package hcl

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Functions are the functions available to declaration expressions.
var Functions = map[string]function.Function{
	"upper":     stdlib.UpperFunc,
	"lower":     stdlib.LowerFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"join":      stdlib.JoinFunc,
	"split":     stdlib.SplitFunc,
	"format":    stdlib.FormatFunc,
	"concat":    stdlib.ConcatFunc,
	"coalesce":  stdlib.CoalesceFunc,
	"length":    stdlib.LengthFunc,
	"min":       stdlib.MinFunc,
	"max":       stdlib.MaxFunc,
}

// Evaluator is the HCL implementation of declaration.Evaluator.
type Evaluator struct {
	catalog *catalog.Catalog
	// Environ supplies the env variable; os.Environ when nil.
	Environ func() []string
}

var _ declaration.Evaluator = (*Evaluator)(nil)

// NewEvaluator creates an Evaluator constructing providers from c.
func NewEvaluator(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Evaluate implements declaration.Evaluator.
func (e *Evaluator) Evaluate(ctx context.Context, source string, src []byte) (*declaration.Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating HCL declarations.", "source", source, "bytes", len(src))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, source)
	if diags.HasErrors() {
		return nil, &declaration.EvaluationError{Source: source, Err: diags}
	}

	evalCtx := e.evalContext()

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, &declaration.EvaluationError{Source: source, Err: diags}
	}

	entries, err := e.translate(&root, evalCtx)
	if err != nil {
		return nil, &declaration.EvaluationError{Source: source, Err: err}
	}
	logger.Debug("Decoded HCL declarations.", "source", source, "entries", len(entries))

	return e.catalog.Build(ctx, source, entries)
}

// translate converts the decoded blocks into format-agnostic entries.
func (e *Evaluator) translate(root *fileRoot, evalCtx *hcl.EvalContext) ([]catalog.Entry, error) {
	var entries []catalog.Entry

	for _, s := range root.Services {
		args, err := extractArgs(s.Remain, evalCtx)
		if err != nil {
			return nil, err
		}
		entries = append(entries, catalog.Entry{
			Category: declaration.CategoryServices,
			Name:     s.Name,
			Kind:     s.Kind,
			Args:     args,
		})
	}

	groups := []struct {
		category declaration.Category
		blocks   []*providerBlock
	}{
		{declaration.CategoryAssemblers, root.Assemblers},
		{declaration.CategoryWeavers, root.Weavers},
		{declaration.CategoryBeliefs, root.Beliefs},
		{declaration.CategoryRuntimes, root.Runtimes},
	}
	for _, g := range groups {
		for _, b := range g.blocks {
			args, err := extractArgs(b.Remain, evalCtx)
			if err != nil {
				return nil, err
			}
			entries = append(entries, catalog.Entry{
				Category: g.category,
				Kind:     b.Kind,
				Args:     args,
			})
		}
	}
	return entries, nil
}

// extractArgs evaluates every attribute left in a block body.
func extractArgs(body hcl.Body, evalCtx *hcl.EvalContext) (catalog.Args, error) {
	if body == nil {
		return catalog.NewArgs(nil), nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return catalog.Args{}, diags
	}
	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return catalog.Args{}, diags
		}
		values[name] = val
	}
	return catalog.NewArgs(values), nil
}

func (e *Evaluator) evalContext() *hcl.EvalContext {
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}
	env := make(map[string]cty.Value)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok && name != "" {
			env[name] = cty.StringVal(value)
		}
	}
	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: Functions,
	}
}
