// Package index maps creature script names to the resources that define
// them, so a host can answer "which files declare a death variable of
// imoen2" without reading every file again.
//
// Build reads sources concurrently. Each worker owns its result channel
// and a single combiner merges them; the finished ScriptNames is
// immutable and safe to share.
package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/iekit/formats"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
)

// Source is one resource to index.
type Source struct {
	// Name identifies the resource in lookups, e.g. "IMOEN.CRE".
	Name string
	// Load returns the resource bytes.
	Load func() ([]byte, error)
}

// BytesSource indexes data under name.
func BytesSource(name string, data []byte) Source {
	return Source{Name: name, Load: func() ([]byte, error) { return data, nil }}
}

// FileSource indexes the file at path under its base name.
func FileSource(path string) Source {
	return Source{Name: filepath.Base(path), Load: func() ([]byte, error) { return os.ReadFile(path) }}
}

// ScriptNames maps normalized script names to the resources declaring them.
type ScriptNames struct {
	names map[string][]string
}

// Lookup returns the sorted resource names that declare name. The name is
// normalized first, so "Imoen 2" finds "imoen2".
func (s *ScriptNames) Lookup(name string) []string {
	return slices.Clone(s.names[formats.NormalizeScriptName(name)])
}

// Names returns every indexed script name, sorted.
func (s *ScriptNames) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of distinct script names.
func (s *ScriptNames) Len() int { return len(s.names) }

type hit struct {
	script string
	source string
}

// Build indexes sources with the given number of workers; zero or less
// uses GOMAXPROCS. Resources without a creature record, and signatures no
// program handles, are skipped. Any other read error, or cancelling ctx,
// aborts the build.
func Build(ctx context.Context, sources []Source, workers int, opts ...resource.Option) (*ScriptNames, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(1, min(workers, len(sources)))

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan Source)
	g.Go(func() error {
		defer close(jobs)
		for _, src := range sources {
			select {
			case jobs <- src:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Each worker delivers one batch, so a buffer of one never blocks it.
	results := make([]chan []hit, workers)
	for i := range results {
		ch := make(chan []hit, 1)
		results[i] = ch
		g.Go(func() error {
			defer close(ch)
			var batch []hit
			for src := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				found, err := scan(src, opts)
				if err != nil {
					return err
				}
				batch = append(batch, found...)
			}
			ch <- batch
			return nil
		})
	}

	idx := &ScriptNames{names: make(map[string][]string)}
	g.Go(func() error {
		for _, ch := range results {
			for batch := range ch {
				for _, h := range batch {
					idx.add(h)
				}
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	for name, srcs := range idx.names {
		slices.Sort(srcs)
		idx.names[name] = slices.Compact(srcs)
	}
	return idx, nil
}

func (s *ScriptNames) add(h hit) {
	s.names[h.script] = append(s.names[h.script], h.source)
}

// scan reads one source and returns the script names of every creature
// record in it, embedded ones included.
func scan(src Source, opts []resource.Option) ([]hit, error) {
	data, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", src.Name, err)
	}
	doc, err := formats.Read(data, opts...)
	if err != nil {
		if errors.Is(err, types.ErrUnsupportedVersion) {
			return nil, nil
		}
		return nil, fmt.Errorf("index %s: %w", src.Name, err)
	}
	var out []hit
	_ = doc.Walk(func(n *resource.Node, _ int) error {
		if !n.IsRecord() || n.IsOpaque() || n.Kind() != formats.KindCRE {
			return nil
		}
		f, ok := n.Field(formats.ScriptNameField)
		if !ok {
			return nil
		}
		if name := formats.NormalizeScriptName(f.Text()); name != "" {
			out = append(out, hit{script: name, source: strings.ToUpper(src.Name)})
		}
		return nil
	})
	return out, nil
}
