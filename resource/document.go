package resource

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Document is a parsed resource: an arena of nodes, the leaf fields they
// own, and a position index over both. A Document is not safe for
// concurrent use.
type Document struct {
	nodes []*Node // index 0 unused
	root  types.NodeID
	pos   *posIndex
	seq   uint64

	opts *Options
	log  *slog.Logger
	ids  map[string]*schema.Table

	observers []observerEntry
	obsSeq    int
	mute      int
	pending   []Change
}

func newDocument(o *Options) *Document {
	return &Document{
		nodes: []*Node{nil},
		pos:   newPosIndex(),
		opts:  o,
		log:   o.Logger,
		ids:   make(map[string]*schema.Table),
	}
}

// Root returns the top-level record.
func (d *Document) Root() *Node { return d.nodes[d.root] }

// Node returns the live node with the given handle, or nil.
func (d *Document) Node(id types.NodeID) *Node {
	if id == types.NoNode || int(id) >= len(d.nodes) {
		return nil
	}
	return d.nodes[id]
}

// Options returns the options the document was read with.
func (d *Document) Options() Options { return *d.opts }

// Strings returns the string table configured for display, if any.
func (d *Document) Strings() types.StringTable { return d.opts.Strings }

// Len returns the number of live nodes.
func (d *Document) Len() int {
	n := 0
	for _, x := range d.nodes {
		if x != nil {
			n++
		}
	}
	return n
}

// Base returns the offset of the top-level record in the input buffer.
func (d *Document) Base() int { return d.Root().off }

// End returns one past the highest byte covered by any field.
func (d *Document) End() int {
	end := d.Base()
	d.pos.tree.Reverse(func(it posItem) bool {
		if it.kind == posField {
			end = max(end, it.field.End())
			return false
		}
		return true
	})
	return end
}

// Size returns the total width of every field in the document.
func (d *Document) Size() int { return d.Root().Size() }

// Leaves returns every field in offset order.
func (d *Document) Leaves() []*Field {
	out := make([]*Field, 0, d.pos.len())
	d.pos.tree.Scan(func(it posItem) bool {
		if it.kind == posField {
			out = append(out, it.field)
		}
		return true
	})
	return out
}

// Walk visits every node depth-first in program order. Returning a non-nil
// error from fn stops the walk.
func (d *Document) Walk(fn func(n *Node, depth int) error) error {
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, e := range n.entries {
			if e.field != nil {
				continue
			}
			if c := d.Node(e.node); c != nil {
				if err := visit(c, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(d.Root(), 0)
}

// Resolve finds a node by a slash-separated path of labels below the root,
// for example "Party member 0/CRE/Item 3". An empty path is the root.
func (d *Document) Resolve(path string) (*Node, error) {
	n := d.Root()
	path = strings.Trim(path, "/")
	if path == "" {
		return n, nil
	}
	for _, part := range strings.Split(path, "/") {
		var next *Node
		for _, c := range n.Children() {
			if strings.EqualFold(c.label, part) {
				next = c
				break
			}
		}
		if next == nil {
			return nil, types.Wrap(types.ErrKindNotFound, fmt.Sprintf("no %q below %q", part, n.label), ErrNodeNotFound)
		}
		n = next
	}
	return n, nil
}

// ChildrenOf returns the direct children of parent with the given kind,
// ordered by offset.
func (d *Document) ChildrenOf(parent types.NodeID, kind schema.Kind) []*Node {
	p := d.Node(parent)
	if p == nil {
		return nil
	}
	return d.childrenOf(p, kind)
}

func (d *Document) childrenOf(p *Node, kind schema.Kind) []*Node {
	var out []*Node
	for _, e := range p.entries {
		if e.field != nil {
			continue
		}
		if c := d.Node(e.node); c != nil && c.kind == kind {
			out = append(out, c)
		}
	}
	sortByOffset(out)
	return out
}

func sortByOffset(ns []*Node) {
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].off < ns[j].off })
}

// instances returns the nodes of kind below owner, ordered by offset.
// Direct scope sees only owner's children. Deep scope descends through
// nested nodes of the same record but not into matches or embedded records.
func (d *Document) instances(owner *Node, kind schema.Kind, scope schema.Scope) []*Node {
	if scope == schema.ScopeDirect {
		return d.childrenOf(owner, kind)
	}
	var out []*Node
	var visit func(n *Node)
	visit = func(n *Node) {
		for _, e := range n.entries {
			if e.field != nil {
				continue
			}
			c := d.Node(e.node)
			if c == nil || c.root != owner.root {
				continue
			}
			if c.kind == kind {
				out = append(out, c)
				continue
			}
			visit(c)
		}
	}
	visit(owner)
	sortByOffset(out)
	return out
}

// ordinal returns the position of n among all instances of its kind in its
// record.
func (d *Document) ordinal(n *Node) int {
	rec := d.Node(d.recordOf(n))
	for i, x := range d.instances(rec, n.kind, schema.ScopeDeep) {
		if x.id == n.id {
			return i
		}
	}
	return -1
}

// recordOf returns the record that contains n's population: the record
// root for nested nodes, or the parent's record for a dispatched node.
func (d *Document) recordOf(n *Node) types.NodeID {
	if n.root == n.id {
		if p := d.Node(n.parent); p != nil {
			return p.root
		}
	}
	return n.root
}

// value returns the integer value of the nearest field labelled name,
// searching n and then its ancestors up to n's record root.
func (d *Document) value(n *Node, name string) (int64, bool) {
	for cur := n; cur != nil; cur = d.Node(cur.parent) {
		if f, ok := cur.Field(name); ok {
			return f.Int(), true
		}
		if cur.id == cur.root {
			break
		}
	}
	return 0, false
}

// rootValue reads a field of n's record root.
func (d *Document) rootValue(n *Node, name string) (int64, bool) {
	root := d.Node(n.root)
	if root == nil {
		return 0, false
	}
	f, ok := root.Field(name)
	if !ok {
		return 0, false
	}
	return f.Int(), true
}

func (d *Document) eachLeaf(n *Node, fn func(f *Field)) {
	for _, e := range n.entries {
		if e.field != nil {
			fn(e.field)
		} else if c := d.Node(e.node); c != nil {
			d.eachLeaf(c, fn)
		}
	}
}

func (d *Document) nextSeq() uint64 {
	d.seq++
	return d.seq
}

func (d *Document) newNode(prog *schema.Program, label string, off, extra int, parent, root types.NodeID) *Node {
	n := &Node{
		id:       types.NodeID(len(d.nodes)),
		kind:     prog.Kind,
		label:    label,
		off:      off,
		extra:    extra,
		parent:   parent,
		root:     root,
		prog:     prog,
		sections: make(map[schema.Kind]sectionState),
		doc:      d,
	}
	if n.root == types.NoNode {
		n.root = n.id
	}
	d.nodes = append(d.nodes, n)
	d.indexNode(n)
	return n
}

func (d *Document) indexNode(n *Node) {
	n.seq = d.nextSeq()
	n.extraSeq = d.nextSeq()
	d.pos.add(posItem{off: n.off, seq: n.seq, kind: posNode, node: n.id})
	d.pos.add(posItem{off: n.extra, seq: n.extraSeq, kind: posExtra, node: n.id})
}

func (d *Document) addField(n *Node, f *Field) {
	f.owner = n.id
	f.doc = d
	f.seq = d.nextSeq()
	n.entries = append(n.entries, Entry{field: f})
	d.pos.add(posItem{off: f.off, seq: f.seq, kind: posField, field: f})
}

// setPos writes a shifted position back to its owner.
func (d *Document) setPos(it posItem) {
	switch it.kind {
	case posField:
		it.field.off = it.off
	case posNode:
		d.nodes[it.node].off = it.off
	case posExtra:
		d.nodes[it.node].extra = it.off
	}
}

// drop removes a subtree from the arena and the position index.
func (d *Document) drop(n *Node) {
	for _, e := range n.entries {
		if e.field != nil {
			d.pos.remove(e.field.off, e.field.seq)
			e.field.doc = nil
		} else if c := d.Node(e.node); c != nil {
			d.drop(c)
		}
	}
	d.pos.remove(n.off, n.seq)
	d.pos.remove(n.extra, n.extraSeq)
	d.nodes[n.id] = nil
}

// env adapts a node to schema.Env for condition evaluation. Byte reads the
// source buffer, which is only available while the node is being read.
type nodeEnv struct {
	d   *Document
	n   *Node
	buf []byte
	off int
}

func (e nodeEnv) Engine() types.Engine { return e.d.opts.Engine }

func (e nodeEnv) Has(name string) bool {
	return e.d.opts.Catalog != nil && e.d.opts.Catalog.Has(name)
}

func (e nodeEnv) Byte(off int) (byte, bool) {
	p := e.off + off
	if p < 0 || p >= len(e.buf) {
		return 0, false
	}
	return e.buf[p], true
}

func (e nodeEnv) Value(name string) (int64, bool) {
	if e.n == nil {
		return 0, false
	}
	return e.d.value(e.n, name)
}
