package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/vk/plugreg/internal/source"
)

// Component is one packaged component holding a declaration file.
type Component struct {
	Name string
	Body string
}

// WriteComponents creates root/<name>/META-INF/plugreg.hcl for every
// component and returns the root.
func WriteComponents(t *testing.T, components ...Component) string {
	t.Helper()
	root := t.TempDir()
	for _, c := range components {
		path := filepath.Join(root, c.Name, filepath.FromSlash(source.DefaultLocator))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(c.Body), 0o600))
	}
	return root
}

// MapFS lays the components out in memory under the given locator.
func MapFS(locator string, components ...Component) fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, c := range components {
		fsys[c.Name+"/"+locator] = &fstest.MapFile{Data: []byte(c.Body)}
	}
	return fsys
}
