package source

import (
	"context"
	"io"
	"io/fs"

	"github.com/vk/plugreg/internal/fsutil"
)

// FSProvider finds declaration sources in an fs.FS, in lexical path order.
type FSProvider struct {
	FS fs.FS
}

// NewFSProvider creates an FSProvider over fsys.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{FS: fsys}
}

// Enumerate implements Provider.
func (p *FSProvider) Enumerate(_ context.Context, locator string) ([]Location, error) {
	files, err := fsutil.FindFSFilesBySuffix(p.FS, locator)
	if err != nil {
		return nil, err
	}
	locs := make([]Location, 0, len(files))
	for _, f := range files {
		locs = append(locs, Location{ID: f})
	}
	return locs, nil
}

// Open implements Provider.
func (p *FSProvider) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.FS.Open(loc.ID)
}
