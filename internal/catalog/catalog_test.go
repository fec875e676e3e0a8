package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/zclconf/go-cty/cty"
)

type testAssembler struct{ rt declaration.ResourceType }

func (a *testAssembler) ResourceType() declaration.ResourceType { return a.rt }

type testRuntime struct{ iface string }

func (r *testRuntime) ServiceInterface() string { return r.iface }

type testModule struct{}

func (testModule) Register(c *Catalog) {
	c.RegisterService("static", func(_ context.Context, args Args) (any, error) {
		var in struct {
			Value string `cty:"value"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return in.Value, nil
	})
	c.RegisterAssembler("fixed", func(_ context.Context, args Args) (declaration.AssemblerService, error) {
		in := struct {
			Type string `cty:"type"`
		}{Type: "DRL"}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return &testAssembler{rt: declaration.ResourceType(in.Type)}, nil
	})
	c.RegisterRuntime("nil", func(context.Context, Args) (declaration.RuntimeService, error) {
		var r *testRuntime
		return r, nil
	})
}

func TestCatalog_RegisterDuplicatePanics(t *testing.T) {
	c := New(testModule{})
	assert.PanicsWithValue(t, "services factory with kind 'static' already registered", func() {
		testModule{}.Register(c)
	})
}

func TestCatalog_RegisterEmptyKindPanics(t *testing.T) {
	c := New()
	assert.Panics(t, func() {
		c.RegisterBelief("", func(context.Context, Args) (declaration.BeliefService, error) { return nil, nil })
	})
}

func TestCatalog_Kinds(t *testing.T) {
	c := New(testModule{})
	assert.Equal(t, []string{"static"}, c.Kinds(declaration.CategoryServices))
	assert.Equal(t, []string{"fixed"}, c.Kinds(declaration.CategoryAssemblers))
	assert.Empty(t, c.Kinds(declaration.CategoryWeavers))
}

func TestCatalog_UnknownKind(t *testing.T) {
	c := New()
	_, err := c.Weaver(context.Background(), "nope", Args{})
	require.EqualError(t, err, `unknown weavers kind "nope"`)
}

func TestCatalog_Build(t *testing.T) {
	c := New(testModule{})
	set, err := c.Build(context.Background(), "a.hcl", []Entry{
		{Category: declaration.CategoryServices, Name: "Foo", Kind: "static", Args: NewArgs(map[string]cty.Value{"value": cty.StringVal("foo")})},
		{Category: declaration.CategoryAssemblers, Kind: "fixed"},
		{Category: declaration.CategoryAssemblers, Kind: "fixed", Args: NewArgs(map[string]cty.Value{"type": cty.StringVal("DTABLE")})},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Foo": "foo"}, set.Services)
	require.Len(t, set.Assemblers, 2)
	assert.Equal(t, declaration.ResourceType("DRL"), set.Assemblers[0].ResourceType())
	assert.Equal(t, declaration.ResourceType("DTABLE"), set.Assemblers[1].ResourceType())
}

func TestCatalog_BuildEmpty(t *testing.T) {
	set, err := New().Build(context.Background(), "a.hcl", nil)
	require.NoError(t, err)
	assert.Nil(t, set)
}

func TestCatalog_BuildErrors(t *testing.T) {
	c := New(testModule{})
	tests := []struct {
		name    string
		entry   Entry
		wantMsg string
	}{
		{
			name:    "unknown kind",
			entry:   Entry{Category: declaration.CategoryBeliefs, Kind: "jtms"},
			wantMsg: `unknown beliefs kind "jtms"`,
		},
		{
			name:    "nil provider",
			entry:   Entry{Category: declaration.CategoryRuntimes, Kind: "nil"},
			wantMsg: `runtimes kind "nil" constructed nil`,
		},
		{
			name:    "unnamed service",
			entry:   Entry{Category: declaration.CategoryServices, Kind: "static"},
			wantMsg: `service of kind "static" has no name`,
		},
		{
			name: "bad argument",
			entry: Entry{Category: declaration.CategoryServices, Name: "x", Kind: "static",
				Args: NewArgs(map[string]cty.Value{"other": cty.True})},
			wantMsg: "unsupported arguments: other",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Build(context.Background(), "src.hcl", []Entry{tt.entry})
			var evalErr *declaration.EvaluationError
			require.True(t, errors.As(err, &evalErr))
			assert.Equal(t, "src.hcl", evalErr.Source)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
