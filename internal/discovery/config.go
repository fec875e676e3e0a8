package discovery

import (
	"github.com/vk/plugreg/internal/source"
)

// Config controls where the default source provider looks for
// declarations.
type Config struct {
	// Locator is the path, relative to a component root, of its
	// declaration file. The extension selects the evaluator.
	Locator string
	// SearchPath lists the component roots searched in order.
	SearchPath []string
	// DiscoveryDisabled skips enumeration entirely; the registry then only
	// holds programmatic registrations.
	DiscoveryDisabled bool
}

// DefaultConfig returns the conventional locator and the search path from
// the environment.
func DefaultConfig() Config {
	return Config{
		Locator:    source.DefaultLocator,
		SearchPath: source.DefaultSearchPath(),
	}
}
