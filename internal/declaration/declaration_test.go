package declaration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type belief struct{ kind BeliefType }

func (b belief) BeliefType() BeliefType { return b.kind }

func TestSet_IsEmpty(t *testing.T) {
	var nilSet *Set
	assert.True(t, nilSet.IsEmpty())
	assert.True(t, (&Set{Services: map[string]any{}}).IsEmpty())
	assert.False(t, (&Set{Beliefs: []BeliefService{belief{"simple"}}}).IsEmpty())
}

func TestSet_Count(t *testing.T) {
	s := &Set{
		Services: map[string]any{"a": 1, "b": 2},
		Beliefs:  []BeliefService{belief{"simple"}},
	}
	count := s.Count()
	assert.Equal(t, 2, count[CategoryServices])
	assert.Equal(t, 1, count[CategoryBeliefs])
	assert.Equal(t, 0, count[CategoryRuntimes])
}

func TestByExtension(t *testing.T) {
	var got string
	hclEval := EvaluatorFunc(func(_ context.Context, source string, _ []byte) (*Set, error) {
		got = "hcl:" + source
		return nil, nil
	})
	mux := ByExtension{".hcl": hclEval}

	_, err := mux.Evaluate(context.Background(), "/a/META-INF/plugreg.HCL", nil)
	require.NoError(t, err)
	assert.Equal(t, "hcl:/a/META-INF/plugreg.HCL", got)

	_, err = mux.Evaluate(context.Background(), "/a/META-INF/plugreg.toml", nil)
	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, "/a/META-INF/plugreg.toml", evalErr.Source)
	assert.Contains(t, err.Error(), `no evaluator for extension ".toml"`)
}
