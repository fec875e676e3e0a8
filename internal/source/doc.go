// Package source enumerates declaration sources and opens them for reading.
//
// A declaration source is any file whose path ends with the configured
// locator (by default META-INF/plugreg.hcl). DirProvider searches a list of
// directories, the way a search path lists independently packaged
// components; FSProvider searches an fs.FS such as an embed.FS.
//
// Both providers enumerate in a stable order, and that order is the
// override order used by discovery: a source enumerated later wins a key
// collision.
package source
