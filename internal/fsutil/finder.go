// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// FindFilesBySuffix recursively searches the given root path for all files
// whose slash-separated path relative to root equals suffix or ends with
// "/"+suffix. Paths are returned in lexical walk order.
func FindFilesBySuffix(rootPath string, suffix string) ([]string, error) {
	if suffix == "" {
		panic("suffix must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootPath, p)
		if err != nil {
			return err
		}
		if MatchesSuffix(filepath.ToSlash(rel), suffix) {
			files = append(files, p)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// FindFSFilesBySuffix is FindFilesBySuffix over an fs.FS.
func FindFSFilesBySuffix(fsys fs.FS, suffix string) ([]string, error) {
	if suffix == "" {
		panic("suffix must not be empty")
	}

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && MatchesSuffix(p, suffix) {
			files = append(files, p)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// MatchesSuffix reports whether the slash path rel is suffix itself or
// ends with it on a path element boundary.
func MatchesSuffix(rel, suffix string) bool {
	rel = path.Clean(rel)
	suffix = path.Clean(strings.TrimPrefix(suffix, "/"))
	return rel == suffix || strings.HasSuffix(rel, "/"+suffix)
}
