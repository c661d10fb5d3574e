package resource

import (
	"fmt"
	"slices"

	"github.com/joshuapare/iekit/internal/buf"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Insert builds a zero-filled record of kind and splices it in as the
// index-th child of that kind under parent. Every position at or beyond the
// edit point moves by the record size and every section reference is
// re-derived. On error the document is unchanged.
func (d *Document) Insert(parent types.NodeID, kind schema.Kind, index int) (types.NodeID, error) {
	p, st, err := d.mutableSection(parent, kind)
	if err != nil {
		return types.NoNode, err
	}
	if st.sec.Embed {
		return types.NoNode, invalidMutation(ErrNotMutable, "%s records under %q are grafted, not built", kind, p.label)
	}
	size, fixed := st.prog.Size()
	if !fixed {
		return types.NoNode, invalidMutation(ErrNotMutable, "%s has no fixed size", kind)
	}
	sibs := d.childrenOf(p, kind)
	if err := d.checkInsert(p, st.sec, kind, index, len(sibs)); err != nil {
		return types.NoNode, err
	}
	src, err := d.build(st.prog, size)
	if err != nil {
		return types.NoNode, invalidMutation(err, "build %s", kind)
	}
	at, err := d.editPoint(p, st.sec, sibs, index)
	if err != nil {
		return types.NoNode, err
	}
	return d.splice(p, st.sec, src, at), nil
}

// Graft splices a whole record, read from another document, in as the
// index-th embedded child of its kind under parent.
func (d *Document) Graft(parent types.NodeID, index int, src *Document) (types.NodeID, error) {
	if src == nil || src == d {
		return types.NoNode, invalidMutation(nil, "graft needs a separate source document")
	}
	sr := src.Root()
	p, st, err := d.mutableSection(parent, sr.kind)
	if err != nil {
		return types.NoNode, err
	}
	if !st.sec.Embed {
		return types.NoNode, invalidMutation(ErrNotMutable, "%s under %q is not an embedded record", sr.kind, p.label)
	}
	if len(st.sec.Signatures) > 0 && !slices.Contains(st.sec.Signatures, sr.sig) {
		return types.NoNode, invalidMutation(ErrNotMutable, "%q records are not allowed in %s", sr.sig, st.sec.Label)
	}
	sibs := d.childrenOf(p, sr.kind)
	if err := d.checkInsert(p, st.sec, sr.kind, index, len(sibs)); err != nil {
		return types.NoNode, err
	}
	at, err := d.editPoint(p, st.sec, sibs, index)
	if err != nil {
		return types.NoNode, err
	}
	return d.splice(p, st.sec, src, at), nil
}

// Remove deletes a node and its subtree. Each disjoint byte range of the
// subtree is cut out, highest first, and every section reference is
// re-derived. Removing the last instance of a kind is allowed.
func (d *Document) Remove(id types.NodeID) error {
	n := d.Node(id)
	if n == nil {
		return invalidMutation(ErrNodeNotFound, "remove node %d", id)
	}
	p := d.Node(n.parent)
	if p == nil {
		return invalidMutation(ErrNotMutable, "remove %q: the root record cannot be removed", n.label)
	}
	if _, _, err := d.mutableSection(p.id, n.kind); err != nil {
		return err
	}
	at := slices.IndexFunc(p.entries, func(e Entry) bool { return e.field == nil && e.node == id })
	if at < 0 {
		return invalidMutation(ErrNodeNotFound, "remove %q: not attached to %q", n.label, p.label)
	}

	done := d.batch()
	defer done()

	ranges := d.ranges(n)
	ed := &edit{op: ChangeRemove, record: p.root}
	ed.count(d, n)
	ed.capture(d)

	p.entries = slices.Delete(p.entries, at, at+1)
	d.drop(n)
	for i := len(ranges) - 1; i >= 0; i-- {
		rg := ranges[i]
		d.pos.shift(d, rg.End(), -rg.Len)
		ed.cut(rg)
	}
	d.relabel(p, n.kind)
	d.repair(ed)
	for i := len(ranges) - 1; i >= 0; i-- {
		rg := ranges[i]
		d.notify(Change{Kind: ChangeRemove, Parent: p.id, Node: id, Offset: rg.Off, Len: rg.Len, Delta: -rg.Len})
	}
	return nil
}

func (d *Document) mutableSection(parent types.NodeID, kind schema.Kind) (*Node, sectionState, error) {
	p := d.Node(parent)
	if p == nil {
		return nil, sectionState{}, invalidMutation(ErrNodeNotFound, "parent node %d", parent)
	}
	st, ok := p.sections[kind]
	if !ok || !st.sec.Mutable {
		return nil, sectionState{}, invalidMutation(ErrNotMutable, "%s under %q", kind, p.label)
	}
	return p, st, nil
}

// checkInsert validates the index and that every count growing with the
// insert still fits its field.
func (d *Document) checkInsert(p *Node, sec *schema.Section, kind schema.Kind, index, n int) error {
	if index < 0 || index > n {
		return invalidMutation(nil, "insert %s at %d: %d instances under %q", kind, index, n, p.label)
	}
	if sec.Count == "" && n >= max(sec.Fixed, 1) {
		return invalidMutation(nil, "insert %s: %q holds at most %d", kind, p.label, max(sec.Fixed, 1))
	}
	for cur := p; cur != nil; cur = d.Node(cur.parent) {
		for _, f := range cur.Fields() {
			if f.kind != schema.KindCount || f.target != kind {
				continue
			}
			if cur != p && (f.scope != schema.ScopeDeep || cur.root != p.root) {
				continue
			}
			if !buf.FitsUint(f.Uint()+1, len(f.raw)) {
				return invalidMutation(nil, "insert %s: %q would overflow", kind, f.name)
			}
		}
		if cur.id == cur.root {
			break
		}
	}
	return nil
}

// editPoint returns the absolute position a new index-th instance starts at.
func (d *Document) editPoint(p *Node, sec *schema.Section, sibs []*Node, index int) (int, error) {
	if index < len(sibs) {
		return sibs[index].off, nil
	}
	if len(sibs) > 0 {
		last := sibs[len(sibs)-1]
		if sec.Embed {
			return d.extentEnd(last), nil
		}
		return last.off + last.span, nil
	}
	if sec.IsIndexed() {
		idx, ok1 := d.value(p, sec.Index)
		region, ok2 := d.rootValue(p, sec.Region)
		if !ok1 || !ok2 {
			return 0, invalidMutation(nil, "%s: index or region field missing", sec.Label)
		}
		stride, _ := sec.Resolve(nodeEnv{d: d, n: p}).Size()
		return p.extra + int(region) + int(idx)*stride, nil
	}
	v, ok := d.value(p, sec.Offset)
	if !ok {
		return 0, invalidMutation(nil, "%s: offset field %q missing", sec.Label, sec.Offset)
	}
	if v == 0 {
		if sec.Embed {
			return d.End(), nil
		}
		return d.extentEnd(d.Node(p.root)), nil
	}
	return p.extra + int(v), nil
}

// build reads prog over a zero buffer into a scratch document.
func (d *Document) build(prog *schema.Program, size int) (*Document, error) {
	tmp := newDocument(d.opts)
	r := &reader{d: tmp, buf: make([]byte, size)}
	n := tmp.newNode(prog, prog.Label, 0, 0, types.NoNode, types.NoNode)
	if err := r.run(n, 0); err != nil {
		return nil, err
	}
	tmp.root = n.id
	if err := r.fill(0); err != nil {
		return nil, err
	}
	return tmp, nil
}

// splice copies src's tree into d under p at position at.
func (d *Document) splice(p *Node, sec *schema.Section, src *Document, at int) types.NodeID {
	done := d.batch()
	defer done()

	size := src.Size()
	ed := &edit{op: ChangeInsert, record: p.root, at: at, delta: size}
	ed.capture(d)
	d.pos.shift(d, at, size)
	ed.move()

	n := d.adopt(src, p, sec, at)
	d.attach(p, n)
	d.relabel(p, n.kind)
	ed.count(d, n)
	d.repair(ed)
	d.notify(Change{Kind: ChangeInsert, Parent: p.id, Node: n.id, Offset: at, Len: size, Delta: size})
	return n.id
}

// adopt copies src's tree into the arena, rebased so src's root starts at
// at. Nodes of the copied root's own record join p's record unless the
// section embeds records.
func (d *Document) adopt(src *Document, p *Node, sec *schema.Section, at int) *Node {
	sr := src.Root()
	delta := at - sr.off
	ids := make(map[types.NodeID]types.NodeID)

	var copyNode func(s *Node, parent types.NodeID) *Node
	copyNode = func(s *Node, parent types.NodeID) *Node {
		extra := s.extra + delta
		root := types.NoNode
		if s.root == sr.id {
			if !sec.Embed {
				extra = p.extra
				root = p.root
			} else if s.id != sr.id {
				root = ids[sr.id]
			}
		} else if s.id != s.root {
			root = ids[s.root]
		}
		n := d.newNode(s.prog, s.label, s.off+delta, extra, parent, root)
		ids[s.id] = n.id
		n.sig, n.ver = s.sig, s.ver
		n.opaque = s.opaque
		n.span = s.span
		n.section = s.section
		for k, v := range s.sections {
			n.sections[k] = v
		}
		if s.id == sr.id {
			n.section = sec
		}
		for _, e := range s.entries {
			if e.field != nil {
				f := *e.field
				f.raw = slices.Clone(e.field.raw)
				f.off += delta
				d.addField(n, &f)
				continue
			}
			if c := src.Node(e.node); c != nil {
				cn := copyNode(c, n.id)
				n.entries = append(n.entries, Entry{node: cn.id})
			}
		}
		return n
	}
	return copyNode(sr, p.id)
}

// attach places n among p's entries before the first same-kind sibling
// with a greater offset, after the last one, or at the end.
func (d *Document) attach(p *Node, n *Node) {
	last := -1
	for i, e := range p.entries {
		if e.field != nil {
			continue
		}
		c := d.Node(e.node)
		if c == nil || c.id == n.id || c.kind != n.kind {
			continue
		}
		if c.off > n.off {
			p.entries = slices.Insert(p.entries, i, Entry{node: n.id})
			return
		}
		last = i
	}
	if last >= 0 {
		p.entries = slices.Insert(p.entries, last+1, Entry{node: n.id})
		return
	}
	p.entries = append(p.entries, Entry{node: n.id})
}

// relabel renumbers the children of kind under p in offset order.
func (d *Document) relabel(p *Node, kind schema.Kind) {
	st, ok := p.sections[kind]
	if !ok {
		return
	}
	sibs := d.childrenOf(p, kind)
	numbered := st.sec.Count != "" || st.sec.IsIndexed() || len(sibs) > 1
	for i, c := range sibs {
		c.label = sectionLabel(st.sec, i, numbered)
	}
}

// Range is a half-open byte range [Off, Off+Len).
type Range struct {
	Off int
	Len int
}

// End returns one past the last byte of the range.
func (r Range) End() int { return r.Off + r.Len }

func (r Range) String() string { return fmt.Sprintf("0x%x+%d", r.Off, r.Len) }

// ranges returns the coalesced byte ranges covered by n's subtree.
func (d *Document) ranges(n *Node) []Range {
	var out []Range
	var leaves []*Field
	d.eachLeaf(n, func(f *Field) { leaves = append(leaves, f) })
	slices.SortFunc(leaves, func(a, b *Field) int { return a.off - b.off })
	for _, f := range leaves {
		if k := len(out); k > 0 && out[k-1].End() == f.off {
			out[k-1].Len += len(f.raw)
			continue
		}
		out = append(out, Range{Off: f.off, Len: len(f.raw)})
	}
	return out
}
