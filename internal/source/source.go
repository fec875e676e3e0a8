package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

//go:generate mockgen -source=source.go -destination=mocks/mocks.go -package=mocks Provider

// DefaultLocator is the conventional location of a declaration file inside a
// component.
const DefaultLocator = "META-INF/plugreg.hcl"

// PathEnv names the environment variable holding the default search path.
const PathEnv = "PLUGREG_PATH"

// Location identifies one declaration source.
type Location struct {
	// ID is the path of the source, used for diagnostics and to choose an
	// evaluator by extension.
	ID string
}

func (l Location) String() string {
	return l.ID
}

// Provider lists the declaration sources matching a locator and opens them.
type Provider interface {
	Enumerate(ctx context.Context, locator string) ([]Location, error)
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
}

// DefaultSearchPath returns the entries of $PLUGREG_PATH, or the working
// directory when it is unset.
func DefaultSearchPath() []string {
	raw := os.Getenv(PathEnv)
	if raw == "" {
		return []string{"."}
	}
	var roots []string
	for _, entry := range filepath.SplitList(raw) {
		if entry != "" {
			roots = append(roots, entry)
		}
	}
	return roots
}
