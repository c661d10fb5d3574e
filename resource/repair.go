package resource

import (
	"log/slog"
	"slices"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// edit carries what reference repair needs to know about one structural
// change. Offset references whose section is empty have no instance to
// re-derive from, so their absolute positions are captured up front and
// moved with the bytes around them.
type edit struct {
	op     ChangeKind
	record types.NodeID
	at     int
	delta  int
	abs    map[*Field]int

	// ordinals holds, per kind, the record-wide ordinals of the instances
	// the edit added or removed.
	ordinals map[schema.Kind][]int
}

// count records the ordinals of every instance in n's subtree that belongs
// to e.record.
func (e *edit) count(d *Document, n *Node) {
	e.ordinals = make(map[schema.Kind][]int)
	var visit func(x *Node)
	visit = func(x *Node) {
		if d.recordOf(x) == e.record {
			if g := d.ordinal(x); g >= 0 {
				e.ordinals[x.kind] = append(e.ordinals[x.kind], g)
			}
		}
		for _, c := range x.Children() {
			if c.root == e.record {
				visit(c)
			}
		}
	}
	visit(n)
	for k := range e.ordinals {
		slices.Sort(e.ordinals[k])
	}
}

func (e *edit) capture(d *Document) {
	e.abs = make(map[*Field]int)
	for _, f := range d.Leaves() {
		if f.kind != schema.KindOffset {
			continue
		}
		if owner := d.Node(f.owner); owner != nil {
			e.abs[f] = owner.extra + int(f.Int())
		}
	}
}

// move applies an insert of delta bytes at e.at.
func (e *edit) move() {
	for f, a := range e.abs {
		if a >= e.at {
			e.abs[f] = a + e.delta
		}
	}
}

// cut applies the removal of r.
func (e *edit) cut(r Range) {
	for f, a := range e.abs {
		switch {
		case a >= r.End():
			e.abs[f] = a - r.Len
		case a >= r.Off:
			e.abs[f] = r.Off
		}
	}
}

// repair re-derives every section reference from the live tree. ed may be
// nil when no bytes were inserted or removed.
func (d *Document) repair(ed *edit) {
	for _, f := range d.Leaves() {
		if !f.kind.IsReference() {
			continue
		}
		owner := d.Node(f.owner)
		if owner == nil {
			continue
		}
		v, ok := d.derive(owner, f, ed)
		if !ok {
			continue
		}
		if v < 0 {
			v = 0
		}
		if err := f.SetInt(v); err != nil {
			d.log.Warn("reference out of range", slog.String("field", f.name), slog.Int64("value", v), slog.Any("error", err))
		}
	}
}

func (d *Document) derive(owner *Node, f *Field, ed *edit) (int64, bool) {
	if st, ok := owner.sections[f.target]; ok && st.unparsed {
		// Only the position is known: it moves with the bytes around it.
		if f.kind != schema.KindOffset || ed == nil {
			return 0, false
		}
		abs, ok := ed.abs[f]
		return int64(abs - owner.extra), ok
	}
	switch f.kind {
	case schema.KindCount:
		return int64(len(d.instances(owner, f.target, f.scope))), true

	case schema.KindSize:
		var size int64
		for _, c := range d.childrenOf(owner, f.target) {
			size += int64(c.Size())
		}
		return size, true

	case schema.KindOffset:
		if inst := d.instances(owner, f.target, f.scope); len(inst) > 0 {
			return int64(inst[0].off - owner.extra), true
		}
		if st, ok := owner.sections[f.target]; ok && st.sec.ZeroWhenEmpty {
			return 0, true
		}
		if ed == nil {
			return 0, false
		}
		abs, ok := ed.abs[f]
		if !ok {
			return 0, false
		}
		return int64(abs - owner.extra), true

	case schema.KindIndex:
		if direct := d.childrenOf(owner, f.target); len(direct) > 0 {
			return int64(d.ordinal(direct[0])), true
		}
		if ed == nil || owner.root != ed.record || len(ed.ordinals[f.target]) == 0 {
			return 0, false
		}
		cur := f.Int()
		gs := ed.ordinals[f.target]
		if ed.op == ChangeInsert {
			for _, g := range gs {
				if cur >= int64(g) {
					cur++
				}
			}
		} else {
			for i := len(gs) - 1; i >= 0; i-- {
				if cur > int64(gs[i]) {
					cur--
				}
			}
		}
		return cur, true
	}
	return 0, false
}

// Derive returns the value the reference field f should hold for the
// current tree. It reports false for non-reference fields and for offsets
// of empty sections, which have nothing to derive from.
func (d *Document) Derive(f *Field) (int64, bool) {
	if f == nil || !f.kind.IsReference() {
		return 0, false
	}
	owner := d.Node(f.owner)
	if owner == nil {
		return 0, false
	}
	return d.derive(owner, f, nil)
}
