package resource

import (
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Entry is one child of a node: either a field or a nested node.
type Entry struct {
	field *Field
	node  types.NodeID
}

// Field returns the entry's field, if it is one.
func (e Entry) Field() (*Field, bool) { return e.field, e.field != nil }

// Node returns the entry's node handle, if it is one.
func (e Entry) Node() (types.NodeID, bool) { return e.node, e.field == nil }

// IsField reports whether the entry is a field.
func (e Entry) IsField() bool { return e.field != nil }

type sectionState struct {
	sec  *schema.Section
	prog *schema.Program // resolved child program; nil for embedded sections

	// unparsed marks an embedded section whose record was skipped without a
	// size to bound it. Its count and size keep the values read.
	unparsed bool
}

// Node is a structure node. Nodes live in their document's arena and refer
// to each other by NodeID.
type Node struct {
	id     types.NodeID
	kind   schema.Kind
	label  string
	off    int
	span   int
	extra  int
	parent types.NodeID
	root   types.NodeID

	prog     *schema.Program
	sig, ver string
	opaque   bool
	section  *schema.Section
	sections map[schema.Kind]sectionState
	entries  []Entry

	seq      uint64
	extraSeq uint64
	doc      *Document
}

func (n *Node) ID() types.NodeID         { return n.id }
func (n *Node) Kind() schema.Kind        { return n.kind }
func (n *Node) Label() string            { return n.label }
func (n *Node) Offset() int              { return n.off }
func (n *Node) Span() int                { return n.span }
func (n *Node) Extra() int               { return n.extra }
func (n *Node) Parent() types.NodeID     { return n.parent }
func (n *Node) Program() *schema.Program { return n.prog }
func (n *Node) Signature() string        { return n.sig }
func (n *Node) Version() string          { return n.ver }

// Record returns the nearest dispatched ancestor, or the node itself when
// it was dispatched.
func (n *Node) Record() types.NodeID { return n.root }

// IsRecord reports whether the node was dispatched through the registry.
func (n *Node) IsRecord() bool { return n.root == n.id }

// IsOpaque reports whether the node is a placeholder for an embedded
// record that was read as raw bytes.
func (n *Node) IsOpaque() bool { return n.opaque }

// Entries returns the node's children in program order.
func (n *Node) Entries() []Entry {
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Fields returns the node's direct fields in program order.
func (n *Node) Fields() []*Field {
	var out []*Field
	for _, e := range n.entries {
		if e.field != nil {
			out = append(out, e.field)
		}
	}
	return out
}

// Field returns the direct field labelled name.
func (n *Node) Field(name string) (*Field, bool) {
	for _, e := range n.entries {
		if e.field != nil && e.field.name == name {
			return e.field, true
		}
	}
	return nil, false
}

// Children returns the direct child nodes in program order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, e := range n.entries {
		if e.field == nil {
			if c := n.doc.Node(e.node); c != nil {
				out = append(out, c)
			}
		}
	}
	return out
}

// Size is the sum of the widths of every field in the subtree.
func (n *Node) Size() int {
	size := 0
	n.doc.eachLeaf(n, func(f *Field) { size += len(f.raw) })
	return size
}

// Mutable returns the kinds that may be inserted below this node.
func (n *Node) Mutable() []schema.Kind {
	var out []schema.Kind
	for _, s := range n.prog.Sections() {
		if st, ok := n.sections[s.Kind]; ok && st.sec.Mutable && !containsKind(out, s.Kind) {
			out = append(out, s.Kind)
		}
	}
	return out
}

// Removable reports whether the node may be removed from its parent.
func (n *Node) Removable() bool {
	p := n.doc.Node(n.parent)
	if p == nil {
		return false
	}
	st, ok := p.sections[n.kind]
	return ok && st.sec.Mutable
}

func containsKind(ks []schema.Kind, k schema.Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}
