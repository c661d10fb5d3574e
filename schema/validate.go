package schema

import (
	"maps"

	"github.com/joshuapare/iekit/pkg/types"
)

// Validate checks every registered program and every program reachable
// from it. It returns the first defect found.
func (r *Registry) Validate() error {
	for _, k := range r.Keys() {
		for _, c := range r.entries[k] {
			if c.prog == nil {
				return types.Errorf(types.ErrKindState, "%s: nil program", k)
			}
			if c.when != nil {
				if labels := c.when.labels(); len(labels) > 0 {
					return types.Errorf(types.ErrKindState, "%s: dispatch condition reads field %q before any field exists", k, labels[0])
				}
			}
			if err := ValidateProgram(c.prog); err != nil {
				return types.Wrap(types.ErrKindState, k.String(), err)
			}
		}
	}
	return nil
}

// ValidateProgram checks p as a record root.
func ValidateProgram(p *Program) error {
	return validateProgram(p, map[string]bool{}, 0)
}

const maxValidateDepth = 32

type scope struct {
	prog    *Program
	visible map[string]bool      // labels readable here, ancestors included
	local   map[string]FieldKind // labels declared by this program
	depth   int
}

func validateProgram(p *Program, inherited map[string]bool, depth int) error {
	if depth > maxValidateDepth {
		return types.Errorf(types.ErrKindState, "program %q: nesting too deep", p.Label)
	}
	if p.Kind == "" {
		return types.Errorf(types.ErrKindState, "program %q: empty kind", p.Label)
	}
	sc := &scope{
		prog:    p,
		visible: maps.Clone(inherited),
		local:   map[string]FieldKind{},
		depth:   depth,
	}
	return sc.steps(p.Steps)
}

func (sc *scope) fail(format string, args ...any) error {
	return types.Errorf(types.ErrKindState, "program %q: "+format, append([]any{sc.prog.Label}, args...)...)
}

func (sc *scope) need(what, label string) error {
	if label != "" && !sc.visible[label] {
		return sc.fail("%s refers to %q before it is read", what, label)
	}
	return nil
}

func (sc *scope) declare(label string, kind FieldKind) error {
	if label == "" {
		return sc.fail("unlabelled %s field", kind)
	}
	if prev, dup := sc.local[label]; dup && (prev != KindOpaque || kind != KindOpaque) {
		return sc.fail("duplicate label %q", label)
	}
	sc.local[label] = kind
	sc.visible[label] = true
	return nil
}

func (sc *scope) steps(steps []Step) error {
	for _, s := range steps {
		if err := sc.step(s); err != nil {
			return err
		}
	}
	return nil
}

func (sc *scope) step(s Step) error {
	switch s.Op {
	case OpField:
		return sc.field(s)
	case OpFill:
		if err := sc.need("fill", s.Until); err != nil {
			return err
		}
		if s.Until == "" {
			return sc.fail("fill %q has no end field", s.Label)
		}
		return sc.declare(s.Label, KindOpaque)
	case OpChoose:
		for _, l := range s.When.labels() {
			if err := sc.need("condition", l); err != nil {
				return err
			}
		}
		return sc.choose(s)
	case OpGroup:
		if s.Group == nil {
			return sc.fail("group at %d has no program", s.Off)
		}
		return validateProgram(s.Group, sc.visible, sc.depth+1)
	case OpSection:
		return sc.section(s.Section)
	}
	return sc.fail("unknown step op %d", s.Op)
}

func (sc *scope) field(s Step) error {
	if s.WidthFrom != "" {
		if s.Kind != KindOpaque && s.Kind != KindText {
			return sc.fail("field %q: variable width on %s field", s.Label, s.Kind)
		}
		if err := sc.need("field "+s.Label, s.WidthFrom); err != nil {
			return err
		}
	} else if !s.Kind.ValidWidth(s.Width) {
		return sc.fail("field %q: width %d does not fit %s", s.Label, s.Width, s.Kind)
	}
	if s.Kind.IsReference() && s.Target == "" {
		return sc.fail("reference %q has no target kind", s.Label)
	}
	if s.Off < 0 {
		return sc.fail("field %q: negative offset", s.Label)
	}
	return sc.declare(s.Label, s.Kind)
}

func (sc *scope) choose(s Step) error {
	branches := [][]Step{s.Then, s.Else}
	visible := maps.Clone(sc.visible)
	local := maps.Clone(sc.local)
	for _, br := range branches {
		sub := &scope{prog: sc.prog, visible: maps.Clone(visible), local: maps.Clone(local), depth: sc.depth}
		if err := sub.steps(br); err != nil {
			return err
		}
		maps.Copy(sc.visible, sub.visible)
		maps.Copy(sc.local, sub.local)
	}
	return nil
}

func (sc *scope) section(sec *Section) error {
	if sec == nil {
		return sc.fail("section step without section")
	}
	if sec.Kind == "" {
		return sc.fail("section %q has no kind", sec.Label)
	}
	for what, l := range map[string]string{"offset": sec.Offset, "count": sec.Count, "index": sec.Index, "region": sec.Region} {
		if err := sc.need("section "+sec.Label+" "+what, l); err != nil {
			return err
		}
	}
	switch {
	case sec.Embed:
		if sec.Offset == "" {
			return sc.fail("embedded section %q has no offset field", sec.Label)
		}
		return nil
	case sec.Index != "":
		if sec.Region == "" {
			return sc.fail("indexed section %q has no region field", sec.Label)
		}
	case sec.Offset == "":
		return sc.fail("section %q has no offset or index field", sec.Label)
	}
	if sec.Count == "" && sec.Fixed <= 0 {
		return sc.fail("section %q has neither count field nor fixed count", sec.Label)
	}
	progs := sec.Programs()
	if len(progs) == 0 {
		return sc.fail("section %q has no child program", sec.Label)
	}
	for _, a := range sec.Alts {
		for _, l := range a.When.labels() {
			if err := sc.need("section "+sec.Label+" variant", l); err != nil {
				return err
			}
		}
	}
	for _, p := range progs {
		if p == nil {
			return sc.fail("section %q: nil child program", sec.Label)
		}
		if p.Kind != sec.Kind {
			return sc.fail("section %q: child kind %q, want %q", sec.Label, p.Kind, sec.Kind)
		}
		_, fixed := p.Size()
		if (sec.Mutable || sec.Index != "") && !fixed {
			return sc.fail("section %q: child %q has no fixed size", sec.Label, p.Label)
		}
		if err := validateProgram(p, sc.visible, sc.depth+1); err != nil {
			return err
		}
	}
	return nil
}
