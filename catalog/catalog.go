// Package catalog provides types.Catalog implementations: an override
// directory on disk and an in-memory map. Resource names are matched case
// insensitively, as the games do.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joshuapare/iekit/pkg/types"
)

var (
	_ types.Catalog = (*Dir)(nil)
	_ types.Catalog = Map(nil)
)

// Dir is a catalog over the files of one directory, typically a game's
// override folder. The listing is taken on first use.
type Dir struct {
	root string

	once  sync.Once
	names map[string]string // upper-case name -> file name on disk
	err   error
}

// NewDir returns a catalog rooted at path. It fails if path is not a
// directory.
func NewDir(path string) (*Dir, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("catalog: %s is not a directory", path)
	}
	return &Dir{root: path}, nil
}

// Root returns the directory the catalog reads from.
func (d *Dir) Root() string { return d.root }

func (d *Dir) scan() {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		d.err = fmt.Errorf("catalog: list %s: %w", d.root, err)
		return
	}
	d.names = make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			d.names[strings.ToUpper(e.Name())] = e.Name()
		}
	}
}

// Err reports a failure to list the directory, if any.
func (d *Dir) Err() error {
	d.once.Do(d.scan)
	return d.err
}

// Has reports whether the directory holds name.
func (d *Dir) Has(name string) bool {
	d.once.Do(d.scan)
	_, ok := d.names[strings.ToUpper(name)]
	return ok
}

// Lookup reads name from the directory.
func (d *Dir) Lookup(name string) ([]byte, bool) {
	d.once.Do(d.scan)
	file, ok := d.names[strings.ToUpper(name)]
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(d.root, file))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Names returns the upper-case names of every resource in the directory.
func (d *Dir) Names() []string {
	d.once.Do(d.scan)
	out := make([]string, 0, len(d.names))
	for n := range d.names {
		out = append(out, n)
	}
	return out
}

// Map is an in-memory catalog. Keys are upper-case resource names; use
// NewMap or Add to keep them that way.
type Map map[string][]byte

// NewMap builds a Map from name/content pairs.
func NewMap(files map[string][]byte) Map {
	m := make(Map, len(files))
	for k, v := range files {
		m.Add(k, v)
	}
	return m
}

// Add stores data under name.
func (m Map) Add(name string, data []byte) { m[strings.ToUpper(name)] = data }

func (m Map) Has(name string) bool {
	_, ok := m[strings.ToUpper(name)]
	return ok
}

func (m Map) Lookup(name string) ([]byte, bool) {
	data, ok := m[strings.ToUpper(name)]
	return data, ok
}
