package haptics

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Library resolves logical pattern names to files in an fs.FS.
// Files are read on every Load; nothing is cached.
type Library struct {
	fsys fs.FS
	exts []string
}

// NewLibrary returns a Library that looks up name+ext for each ext, in order.
func NewLibrary(fsys fs.FS, exts ...string) *Library {
	norm := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		norm = append(norm, ext)
	}
	return &Library{fsys: fsys, exts: norm}
}

// Load reads the pattern asset for name.
func (l *Library) Load(name string) (Pattern, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return Pattern{}, fmt.Errorf("invalid pattern name %q", name)
	}
	for _, ext := range l.exts {
		file := name + ext
		data, err := fs.ReadFile(l.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Pattern{}, fmt.Errorf("read %s: %w", file, err)
		}
		return Pattern{Name: name, File: file, Data: data}, nil
	}
	return Pattern{}, fmt.Errorf("%w: %s", ErrPatternNotFound, name)
}

// Names lists the logical names of every pattern in the library.
func (l *Library) Names() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range l.exts {
			if strings.HasSuffix(strings.ToLower(e.Name()), ext) {
				name := e.Name()[:len(e.Name())-len(ext)]
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
				break
			}
		}
	}
	return names, nil
}
