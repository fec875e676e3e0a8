package env_vars

import (
	"context"
	"os"
	"strings"

	"github.com/vk/plugreg/internal/catalog"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Input defines the arguments of an 'env' service declaration.
type Input struct {
	Prefix      string `cty:"prefix"`
	StripPrefix bool   `cty:"strip_prefix"`
}

// Snapshot holds the environment variables captured at discovery time.
type Snapshot struct {
	All map[string]string `cty:"all"`
}

// Get returns the captured value of key.
func (s *Snapshot) Get(key string) (string, bool) {
	v, ok := s.All[key]
	return v, ok
}

// Capture builds a Snapshot from environ, keeping only variables that start
// with input.Prefix.
func Capture(environ []string, input Input) *Snapshot {
	envMap := make(map[string]string)
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], input.Prefix) {
			continue
		}
		key := pair[0]
		if input.StripPrefix {
			key = strings.TrimPrefix(key, input.Prefix)
		}
		envMap[key] = pair[1]
	}
	return &Snapshot{All: envMap}
}

// NewSnapshot is the factory for the 'env' kind.
func NewSnapshot(_ context.Context, args catalog.Args) (any, error) {
	var input Input
	if err := args.Decode(&input); err != nil {
		return nil, err
	}
	return Capture(os.Environ(), input), nil
}

// Register registers the factory with the catalog.
func (m *Module) Register(c *catalog.Catalog) {
	c.RegisterService("env", NewSnapshot)
}
