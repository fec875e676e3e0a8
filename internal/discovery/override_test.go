package discovery

import (
	"context"
	"fmt"
	"testing"

	"github.com/vk/plugreg/internal/declaration"
	"github.com/vk/plugreg/internal/source"
	"github.com/vk/plugreg/internal/testutil"
	"pgregory.net/rapid"
)

// Whatever the sources declare, each key ends up holding the value from the
// last source that declared it.
func TestDiscover_LastWriteWinsProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		sourceCount := rapid.IntRange(0, 6).Draw(rt, "sources")
		keyGen := rapid.SampledFrom([]string{"DRL", "DSL", "XML", "ONT"})

		sets := make(map[string]*declaration.Set, sourceCount)
		components := make([]testutil.Component, 0, sourceCount)
		wantServices := map[string]string{}
		wantAssemblers := map[declaration.ResourceType]string{}

		for i := range sourceCount {
			name := fmt.Sprintf("c%02d", i)
			tag := name
			set := &declaration.Set{Services: map[string]any{}}
			for _, k := range rapid.SliceOfN(keyGen, 0, 4).Draw(rt, name+"-services") {
				set.Services[k] = tag
				wantServices[k] = tag
			}
			for _, k := range rapid.SliceOfN(keyGen, 0, 4).Draw(rt, name+"-assemblers") {
				set.Assemblers = append(set.Assemblers, &testutil.Assembler{Type: k, Tag: tag})
				wantAssemblers[declaration.ResourceType(k)] = tag
			}
			sets[name+"/"+source.DefaultLocator] = set
			components = append(components, testutil.Component{Name: name})
		}

		ev := declaration.EvaluatorFunc(func(_ context.Context, id string, _ []byte) (*declaration.Set, error) {
			return sets[id], nil
		})
		fsys := testutil.MapFS(source.DefaultLocator, components...)
		e := New(Config{}, testutil.Catalog(), WithProvider(source.NewFSProvider(fsys)), WithEvaluator(ev))

		reg, err := e.Discover(context.Background())
		if err != nil {
			rt.Fatalf("discover: %v", err)
		}

		for k, want := range wantServices {
			got, ok := reg.Lookup(k)
			if !ok || got != want {
				rt.Fatalf("service %q = %v (present %v), want %q", k, got, ok, want)
			}
		}
		if got := reg.Assemblers().Len(); got != len(wantAssemblers) {
			rt.Fatalf("assemblers: got %d entries, want %d", got, len(wantAssemblers))
		}
		for k, want := range wantAssemblers {
			got, ok := reg.Assemblers().Get(k)
			if !ok || got.(*testutil.Assembler).Tag != want {
				rt.Fatalf("assembler %q = %v, want tag %q", k, got, want)
			}
		}
	})
}
