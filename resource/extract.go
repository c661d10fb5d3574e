package resource

import (
	"slices"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Extract serializes the subtree of a dispatched record and reads it back
// as a standalone document based at offset 0.
func (d *Document) Extract(id types.NodeID) (*Document, error) {
	n := d.Node(id)
	if n == nil {
		return nil, types.Wrap(types.ErrKindNotFound, "extract", ErrNodeNotFound)
	}
	if !n.IsRecord() {
		return nil, types.Errorf(types.ErrKindState, "extract %q: not a dispatched record", n.label)
	}
	ranges := d.ranges(n)
	if len(ranges) != 1 {
		return nil, malformed("extract %q: record occupies %d separate ranges", n.label, len(ranges))
	}
	out := make([]byte, 0, ranges[0].Len)
	var leaves []*Field
	d.eachLeaf(n, func(f *Field) { leaves = append(leaves, f) })
	slices.SortFunc(leaves, func(a, b *Field) int { return a.off - b.off })
	for _, f := range leaves {
		out = append(out, f.raw...)
	}
	return Read(out, 0, d.opts.options()...)
}

// Reorder permutes the children of kind under parent so they are laid out
// in the order less defines. The children must be fixed-size records packed
// back to back with no data outside their own span.
func (d *Document) Reorder(parent types.NodeID, kind schema.Kind, less func(a, b *Node) bool) error {
	p, _, err := d.mutableSection(parent, kind)
	if err != nil {
		return err
	}
	sibs := d.childrenOf(p, kind)
	if len(sibs) < 2 {
		return nil
	}
	for i, s := range sibs {
		if s.Size() != s.span {
			return invalidMutation(nil, "reorder %s: %q has data outside its record", kind, s.label)
		}
		if i > 0 && sibs[i-1].off+sibs[i-1].span != s.off {
			return invalidMutation(nil, "reorder %s: %q is not packed after %q", kind, s.label, sibs[i-1].label)
		}
	}
	order := slices.Clone(sibs)
	slices.SortStableFunc(order, func(a, b *Node) int {
		switch {
		case less(a, b):
			return -1
		case less(b, a):
			return 1
		}
		return 0
	})
	if slices.Equal(order, sibs) {
		return nil
	}

	done := d.batch()
	defer done()

	base := sibs[0].off
	items := make([][]posItem, len(order))
	for i, s := range order {
		items[i] = d.pos.rangeOf(s.off, s.off+s.span)
	}
	for _, set := range items {
		for _, it := range set {
			d.pos.tree.Delete(it)
		}
	}
	pos := base
	for i, s := range order {
		delta := pos - s.off
		for _, it := range items[i] {
			it.off += delta
			d.setPos(it)
			d.pos.add(it)
		}
		pos += s.span
	}

	// Same-kind entries keep their slots in the parent; only their order changes.
	k := 0
	for i, e := range p.entries {
		if e.field != nil {
			continue
		}
		if c := d.Node(e.node); c != nil && c.kind == kind {
			p.entries[i] = Entry{node: order[k].id}
			k++
		}
	}
	d.relabel(p, kind)
	d.repair(nil)
	d.notify(Change{Kind: ChangeReorder, Parent: p.id, Offset: base, Len: pos - base})
	return nil
}
