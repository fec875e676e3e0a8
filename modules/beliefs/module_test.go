package beliefs

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/catalog"
	"github.com/vk/plugreg/internal/declaration"
	"github.com/zclconf/go-cty/cty"
)

func newSet(t *testing.T, attrs map[string]cty.Value) *Set {
	t.Helper()
	b, err := catalog.New(&Module{}).Belief(context.Background(), "set", catalog.NewArgs(attrs))
	require.NoError(t, err)
	return b.(*Set)
}

func TestNew(t *testing.T) {
	s := newSet(t, map[string]cty.Value{
		"belief_type": cty.StringVal("defeasible"),
		"initial":     cty.ListVal([]cty.Value{cty.StringVal("b"), cty.StringVal("a")}),
	})

	assert.Equal(t, declaration.BeliefType("defeasible"), s.BeliefType())
	assert.Equal(t, []string{"a", "b"}, s.Facts())
	assert.Equal(t, declaration.BeliefType("simple"), newSet(t, nil).BeliefType())
}

func TestAssertRetract(t *testing.T) {
	s := newSet(t, nil)

	s.Assert("raining")
	s.Assert("raining")
	assert.True(t, s.Holds("raining"))

	assert.True(t, s.Retract("raining"))
	assert.True(t, s.Holds("raining"))
	assert.False(t, s.Retract("raining"))
	assert.False(t, s.Holds("raining"))
	assert.False(t, s.Retract("sunny"))
}

func TestConcurrentAsserts(t *testing.T) {
	s := newSet(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Assert("fact")
		}()
	}
	wg.Wait()

	for i := 0; i < 49; i++ {
		require.True(t, s.Retract("fact"))
	}
	assert.False(t, s.Retract("fact"))
}
