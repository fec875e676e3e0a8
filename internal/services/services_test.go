package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/discovery"
	"github.com/vk/plugreg/internal/registry"
	"github.com/vk/plugreg/internal/source"
	"github.com/vk/plugreg/internal/testutil"
	"github.com/vk/plugreg/modules/print"
)

func newServices(t *testing.T, components ...testutil.Component) *Services {
	t.Helper()
	logger, _ := testutil.NewLogger(t)
	e := discovery.New(discovery.Config{}, testutil.Catalog(),
		discovery.WithProvider(source.NewFSProvider(testutil.MapFS(source.DefaultLocator, components...))),
		discovery.WithLogger(logger),
	)
	s, err := New(context.Background(), e)
	require.NoError(t, err)
	return s
}

func TestGet(t *testing.T) {
	s := newServices(t, testutil.Component{Name: "a", Body: `
service "Foo" {
  kind  = "value"
  value = "foo"
}
`})

	t.Run("hit", func(t *testing.T) {
		v, ok, err := Get[*testutil.Value](s, "Foo")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "foo", v.Value)
	})

	t.Run("miss is not an error", func(t *testing.T) {
		v, ok, err := Get[*testutil.Value](s, "Missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("wrong type", func(t *testing.T) {
		_, ok, err := Get[string](s, "Foo")
		assert.False(t, ok)
		var mismatch *registry.LookupMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, "Foo", mismatch.Key)
		assert.Equal(t, "string", mismatch.Want)
		assert.Equal(t, "*testutil.Value", mismatch.Got)
	})
}

func TestByType(t *testing.T) {
	s := newServices(t, testutil.Component{Name: "a", Body: `
runtime "runtime" {
  interface = "IBaz"
}
`})

	runtimes, ok, err := ByType[*registry.Runtimes](s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, s.Runtimes(), runtimes)
	assert.Equal(t, []string{"IBaz"}, runtimes.Keys())

	_, ok, err = ByType[*testutil.Value](s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainersAlwaysPresent(t *testing.T) {
	s := newServices(t)

	assert.NotNil(t, s.Assemblers())
	assert.NotNil(t, s.Weavers())
	assert.NotNil(t, s.Runtimes())
	assert.NotNil(t, s.Beliefs())
	assert.Len(t, s.Keys(), 4)
	assert.True(t, s.Assemblers().Frozen())
}

type failingDiscoverer struct{ err error }

func (f failingDiscoverer) Discover(context.Context) (*registry.Registry, error) {
	return nil, f.err
}

func TestNew_PropagatesDiscoveryFailure(t *testing.T) {
	boom := &discovery.SourceReadError{Source: "x", Err: errors.New("boom")}

	s, err := New(context.Background(), failingDiscoverer{err: boom})

	assert.Nil(t, s)
	assert.Same(t, boom, err)
}

// TestInstance is the only test in this package that touches the
// process-wide facade, because its first call fixes the search path.
func TestInstance(t *testing.T) {
	root := testutil.WriteComponents(t, testutil.Component{Name: "comp", Body: `
service "printer" {
  kind = "print"
}
`})
	t.Setenv(source.PathEnv, root)

	const callers = 8
	results := make([]*Services, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			s, err := Instance()
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	close(start)
	wg.Wait()

	require.NotNil(t, results[0])
	for _, s := range results {
		assert.Same(t, results[0], s)
	}

	p, ok, err := Get[*print.Printer](results[0], "printer")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotNil(t, p)
}

type countingDiscoverer struct {
	calls atomic.Int32
	err   error
}

func (c *countingDiscoverer) Discover(context.Context) (*registry.Registry, error) {
	c.calls.Add(1)
	return nil, c.err
}

func TestOnce_FailureIsReturnedOnEveryCall(t *testing.T) {
	d := &countingDiscoverer{err: &discovery.SourceReadError{Source: "x", Err: errors.New("boom")}}
	get := once(func() Discoverer { return d })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := get()
			assert.Nil(t, s)
			assert.Same(t, d.err, err)
		}()
	}
	wg.Wait()

	s, err := get()
	assert.Nil(t, s)
	assert.Same(t, d.err, err)
	assert.Equal(t, int32(1), d.calls.Load())
}
