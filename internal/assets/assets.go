// Package assets bundles the default haptic patterns.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed patterns
var patterns embed.FS

// Patterns returns the bundled pattern files, rooted at the pattern
// directory.
func Patterns() fs.FS {
	sub, err := fs.Sub(patterns, "patterns")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
