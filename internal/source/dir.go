package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vk/plugreg/internal/ctxlog"
	"github.com/vk/plugreg/internal/fsutil"
)

// DirProvider finds declaration sources under a list of root directories.
// Roots are searched in order; within a root, files are returned in lexical
// path order. Roots that do not exist are skipped.
type DirProvider struct {
	Roots []string
}

// NewDirProvider creates a DirProvider over roots.
func NewDirProvider(roots ...string) *DirProvider {
	return &DirProvider{Roots: roots}
}

// Enumerate implements Provider.
func (p *DirProvider) Enumerate(ctx context.Context, locator string) ([]Location, error) {
	logger := ctxlog.FromContext(ctx)

	var locs []Location
	seen := make(map[string]struct{})
	for _, root := range p.Roots {
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Debug("Search path entry does not exist, skipping.", "root", root)
				continue
			}
			return nil, fmt.Errorf("error accessing search path entry %s: %w", root, err)
		}

		files, err := fsutil.FindFilesBySuffix(root, locator)
		if err != nil {
			return nil, fmt.Errorf("failed to walk search path entry %s: %w", root, err)
		}
		for _, f := range files {
			key := canonicalPath(f)
			if _, dup := seen[key]; dup {
				logger.Debug("Declaration source already found under another root, skipping.", "source", f)
				continue
			}
			seen[key] = struct{}{}
			locs = append(locs, Location{ID: f})
		}
	}

	logger.Debug("Enumerated declaration sources.", "locator", locator, "roots", p.Roots, "count", len(locs))
	return locs, nil
}

// canonicalPath identifies a file independently of the root it was reached
// through. It falls back to the path as given when it cannot be resolved.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// Open implements Provider.
func (p *DirProvider) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(loc.ID)
}
