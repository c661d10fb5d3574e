package schema

import (
	"fmt"
	"sort"

	"github.com/joshuapare/iekit/pkg/types"
)

// Key is a dispatch discriminator: the 4-byte signature and 4-byte version
// tags at the start of a record.
type Key struct {
	Signature string
	Version   string
}

func (k Key) String() string { return fmt.Sprintf("%q %q", k.Signature, k.Version) }

type candidate struct {
	prog *Program
	when *Cond
}

// Registry maps dispatch keys to candidate programs. It is built once and
// read concurrently afterwards.
type Registry struct {
	entries map[Key][]candidate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Key][]candidate)}
}

// Register adds a candidate program for (sig, ver). With no condition the
// candidate always matches.
func (r *Registry) Register(sig, ver string, prog *Program, when ...Cond) {
	c := candidate{prog: prog}
	if len(when) > 0 {
		w := when[0]
		c.when = &w
	}
	k := Key{Signature: sig, Version: ver}
	r.entries[k] = append(r.entries[k], c)
}

// Lookup selects the single candidate for (sig, ver) that matches env.
func (r *Registry) Lookup(sig, ver string, env Env) (*Program, error) {
	k := Key{Signature: sig, Version: ver}
	cands, ok := r.entries[k]
	if !ok {
		return nil, types.Errorf(types.ErrKindUnsupported, "unsupported format version: %s", k)
	}
	var picked *Program
	for _, c := range cands {
		if c.when != nil && !c.when.Eval(env) {
			continue
		}
		if picked != nil {
			return nil, types.Errorf(types.ErrKindState, "ambiguous dispatch: %s matches more than one program", k)
		}
		picked = c.prog
	}
	if picked == nil {
		return nil, types.Errorf(types.ErrKindUnsupported, "unsupported format version: %s (no variant for engine %s)", k, env.Engine())
	}
	return picked, nil
}

// Has reports whether any program is registered for (sig, ver).
func (r *Registry) Has(sig, ver string) bool {
	_, ok := r.entries[Key{Signature: sig, Version: ver}]
	return ok
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Signature != keys[j].Signature {
			return keys[i].Signature < keys[j].Signature
		}
		return keys[i].Version < keys[j].Version
	})
	return keys
}

// Programs returns every candidate program registered for k.
func (r *Registry) Programs(k Key) []*Program {
	cands := r.entries[k]
	out := make([]*Program, len(cands))
	for i, c := range cands {
		out[i] = c.prog
	}
	return out
}
