package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joshuapare/iekit/internal/buf"
	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/internal/mmfile"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// UnusedLabel labels the opaque fields that cover bytes no program reads.
const UnusedLabel = "Unused bytes"

// UnparsedLabel labels the single field of a record read as a placeholder.
const UnparsedLabel = "Unparsed record"

// Read parses the record at base in b. The signature and version at base
// select the program. Bytes between and after the interpreted fields are
// kept as opaque fields so the document writes back byte for byte.
//
// An unsupported top-level record returns an error matching
// types.ErrUnsupportedVersion and no document.
func Read(b []byte, base int, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	if o.Registry == nil {
		return nil, types.Errorf(types.ErrKindState, "resource: no registry configured")
	}
	if len(b) > o.Limits.MaxDocumentSize {
		return nil, malformed("resource: %d bytes exceeds limit %d", len(b), o.Limits.MaxDocumentSize)
	}
	d := newDocument(o)
	r := &reader{d: d, buf: b}
	root, err := r.record(base, nil, nil, "", 0)
	if err != nil {
		return nil, err
	}
	d.root = root.id
	if err := r.fill(base); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadFile memory-maps path and reads the record at offset 0. The document
// holds copies of every byte, so the mapping is released before returning.
// Files above the document size limit are refused before they are mapped.
func ReadFile(path string, opts ...Option) (*Document, error) {
	data, release, err := mmfile.MapLimit(path, buildOptions(opts).Limits.MaxDocumentSize)
	if errors.Is(err, mmfile.ErrTooLarge) {
		return nil, types.Wrap(types.ErrKindMalformed, "resource: map "+path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("resource: map %s: %w", path, err)
	}
	defer release()
	d, err := Read(data, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

type reader struct {
	d   *Document
	buf []byte
}

func (r *reader) env(n *Node, off int) nodeEnv {
	return nodeEnv{d: r.d, n: n, buf: r.buf, off: off}
}

// record dispatches the record at pos and reads it.
func (r *reader) record(pos int, parent *Node, sec *schema.Section, label string, depth int) (*Node, error) {
	sig, ver, err := format.ReadTag(r.buf, pos)
	if err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, fmt.Sprintf("record at 0x%x", pos), err)
	}
	if sec != nil && len(sec.Signatures) > 0 && !slices.Contains(sec.Signatures, sig) {
		return nil, types.Wrap(types.ErrKindUnsupported,
			fmt.Sprintf("record at 0x%x: %q not allowed in %s", pos, sig, sec.Label), format.ErrSignatureMismatch)
	}
	prog, err := r.d.opts.Registry.Lookup(sig, ver, r.env(nil, pos))
	if err != nil {
		return nil, err
	}
	r.d.log.Debug("dispatch", slog.String("sig", sig), slog.String("ver", ver),
		slog.Int("offset", pos), slog.String("program", prog.Label))

	if label == "" {
		label = prog.Label
	}
	pid := types.NoNode
	if parent != nil {
		pid = parent.id
	}
	n := r.d.newNode(prog, label, pos, pos, pid, types.NoNode)
	n.sig, n.ver = sig, ver
	n.section = sec
	if err := r.run(n, depth); err != nil {
		r.d.drop(n)
		return nil, fmt.Errorf("%s %s at 0x%x: %w", sig, ver, pos, err)
	}
	return n, nil
}

// run applies n's program at n's offset.
func (r *reader) run(n *Node, depth int) error {
	if depth > r.d.opts.Limits.MaxDepth {
		return malformed("nesting deeper than %d", r.d.opts.Limits.MaxDepth)
	}
	if err := r.steps(n, n.prog.Steps, depth); err != nil {
		return err
	}
	n.span = r.d.inlineSpan(n)
	return nil
}

func (r *reader) steps(n *Node, steps []schema.Step, depth int) error {
	for _, s := range steps {
		var err error
		switch s.Op {
		case schema.OpField:
			err = r.field(n, s)
		case schema.OpFill:
			err = r.fillStep(n, s)
		case schema.OpChoose:
			if s.When.Eval(r.env(n, n.off)) {
				err = r.steps(n, s.Then, depth)
			} else {
				err = r.steps(n, s.Else, depth)
			}
		case schema.OpGroup:
			c := r.d.newNode(s.Group, s.Group.Label, n.off+s.Off, n.extra, n.id, n.root)
			if err = r.run(c, depth+1); err != nil {
				r.d.drop(c)
			} else {
				n.entries = append(n.entries, Entry{node: c.id})
			}
		case schema.OpSection:
			err = r.section(n, s.Section, depth)
		default:
			err = types.Errorf(types.ErrKindState, "unknown step op %d", s.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) field(n *Node, s schema.Step) error {
	width := s.Width
	if s.WidthFrom != "" {
		v, ok := r.d.value(n, s.WidthFrom)
		if !ok {
			return malformed("%s: width field %q not found", s.Label, s.WidthFrom)
		}
		width = int(v) + s.WidthBias
		if width < 0 {
			return malformed("%s: negative width %d", s.Label, width)
		}
		if width == 0 {
			return nil
		}
	}
	return r.addField(n, s, n.off+s.Off, width)
}

func (r *reader) fillStep(n *Node, s schema.Step) error {
	v, ok := r.d.value(n, s.Until)
	if !ok {
		return malformed("%s: end field %q not found", s.Label, s.Until)
	}
	start := n.off + s.Off
	width := n.extra + int(v) - start
	if width <= 0 {
		return nil
	}
	return r.addField(n, schema.Opaque(s.Off, width, s.Label), start, width)
}

func (r *reader) addField(n *Node, s schema.Step, abs, width int) error {
	raw, ok := buf.Slice(r.buf, abs, width)
	if !ok {
		return types.Errorf(types.ErrKindBounds, "%s: %d bytes at 0x%x past end 0x%x", s.Label, width, abs, len(r.buf))
	}
	f := &Field{
		name:   s.Label,
		kind:   s.Kind,
		off:    abs,
		raw:    slices.Clone(raw),
		table:  r.d.table(s),
		exts:   s.Exts,
		target: s.Target,
		scope:  s.Scope,
	}
	r.d.addField(n, f)
	return nil
}

func (r *reader) section(n *Node, sec *schema.Section, depth int) error {
	prog := sec.Resolve(r.env(n, n.off))
	n.sections[sec.Kind] = sectionState{sec: sec, prog: prog}

	count := sec.Fixed
	if sec.Count != "" {
		v, ok := r.d.value(n, sec.Count)
		if !ok {
			return malformed("%s: count field %q not found", sec.Label, sec.Count)
		}
		count = int(v)
	} else if count == 0 {
		count = 1
	}
	if count == 0 {
		return nil
	}
	if count < 0 || count > r.d.opts.Limits.MaxSectionCount {
		return malformed("%s: count %d outside limit %d", sec.Label, count, r.d.opts.Limits.MaxSectionCount)
	}
	numbered := sec.Count != "" || count > 1

	if sec.IsIndexed() {
		return r.indexed(n, sec, prog, count, depth)
	}
	v, ok := r.d.value(n, sec.Offset)
	if !ok {
		return malformed("%s: offset field %q not found", sec.Label, sec.Offset)
	}
	if v == 0 && sec.SkipZero {
		return nil
	}
	pos := n.extra + int(v)
	if sec.Embed {
		return r.embedded(n, sec, pos, count, numbered, depth)
	}
	if size, fixed := prog.Size(); fixed {
		if _, err := buf.CheckRun(len(r.buf), pos, count, size); err != nil {
			return types.Wrap(types.ErrKindMalformed, sec.Label+" section", err)
		}
	}
	for i := 0; i < count; i++ {
		c := r.d.newNode(prog, sectionLabel(sec, i, numbered), pos, n.extra, n.id, n.root)
		c.section = sec
		if err := r.run(c, depth+1); err != nil {
			r.d.drop(c)
			return fmt.Errorf("%s: %w", c.label, err)
		}
		if c.span <= 0 {
			r.d.drop(c)
			return malformed("%s: empty record at 0x%x", c.label, pos)
		}
		n.entries = append(n.entries, Entry{node: c.id})
		pos += c.span
	}
	return nil
}

func (r *reader) indexed(n *Node, sec *schema.Section, prog *schema.Program, count, depth int) error {
	idx, ok := r.d.value(n, sec.Index)
	if !ok {
		return malformed("%s: index field %q not found", sec.Label, sec.Index)
	}
	region, ok := r.d.rootValue(n, sec.Region)
	if !ok {
		return malformed("%s: region field %q not found", sec.Label, sec.Region)
	}
	stride, _ := prog.Size()
	start := n.extra + int(region) + int(idx)*stride
	if _, err := buf.CheckRun(len(r.buf), start, count, stride); err != nil {
		return types.Wrap(types.ErrKindMalformed, sec.Label+" section", err)
	}
	for i := 0; i < count; i++ {
		c := r.d.newNode(prog, sectionLabel(sec, i, true), start+i*stride, n.extra, n.id, n.root)
		c.section = sec
		if err := r.run(c, depth+1); err != nil {
			r.d.drop(c)
			return fmt.Errorf("%s: %w", c.label, err)
		}
		n.entries = append(n.entries, Entry{node: c.id})
	}
	return nil
}

func (r *reader) embedded(n *Node, sec *schema.Section, pos, count int, numbered bool, depth int) error {
	for i := 0; i < count; i++ {
		c, err := r.record(pos, n, sec, sectionLabel(sec, i, numbered), depth+1)
		if err != nil {
			if r.d.opts.Tolerant && errorIsUnsupported(err) {
				r.d.log.Warn("embedded record left opaque",
					slog.String("section", sec.Label), slog.Int("offset", pos), slog.Any("error", err))
				return r.placeholder(n, sec, pos, sectionLabel(sec, i, numbered), depth)
			}
			return err
		}
		n.entries = append(n.entries, Entry{node: c.id})
		pos = r.d.extentEnd(c)
	}
	return nil
}

// placeholder stands in for an embedded record no program reads. With a
// declared size it becomes an opaque record of the section's kind, so the
// references to it are re-derived like any other. Without one, the section
// is marked unparsed: its offset follows the bytes and the rest stays as read.
func (r *reader) placeholder(n *Node, sec *schema.Section, pos int, label string, depth int) error {
	size := 0
	for _, f := range n.Fields() {
		if f.kind == schema.KindSize && f.target == sec.Kind {
			size = int(f.Uint())
			break
		}
	}
	if size <= 0 || !buf.Has(r.buf, pos, size) {
		st := n.sections[sec.Kind]
		st.unparsed = true
		n.sections[sec.Kind] = st
		return nil
	}
	prog := &schema.Program{
		Kind:  sec.Kind,
		Label: sec.Label,
		Steps: []schema.Step{schema.Opaque(0, size, UnparsedLabel)},
	}
	c := r.d.newNode(prog, label, pos, pos, n.id, types.NoNode)
	c.sig, c.ver, _ = format.ReadTag(r.buf, pos)
	c.section = sec
	c.opaque = true
	if err := r.run(c, depth+1); err != nil {
		r.d.drop(c)
		return err
	}
	n.entries = append(n.entries, Entry{node: c.id})
	return nil
}

func errorIsUnsupported(err error) bool {
	k, ok := types.KindOf(err)
	return ok && k == types.ErrKindUnsupported
}

func sectionLabel(sec *schema.Section, i int, numbered bool) string {
	if !numbered {
		return sec.Label
	}
	return fmt.Sprintf("%s %d", sec.Label, i)
}

// fill rejects overlapping fields and covers every gap, and the tail of the
// buffer, with opaque fields. A gap belongs to the deepest record that holds
// the fields on both sides of it. Padding past the last field of an embedded
// record stays with that record up to the size its owner declares for it.
func (r *reader) fill(base int) error {
	cursor := base
	var prev *Field
	for _, f := range r.d.Leaves() {
		if f.off < cursor {
			return malformed("%q at 0x%x overlaps data ending at 0x%x", f.name, f.off, cursor)
		}
		if f.off > cursor {
			r.gap(prev, f, cursor, f.off)
		}
		cursor = f.End()
		prev = f
	}
	if cursor < len(r.buf) {
		r.gap(prev, nil, cursor, len(r.buf))
	}
	return nil
}

// gap assigns [start, end) between the leaves prev and next, either of
// which may be nil.
func (r *reader) gap(prev, next *Field, start, end int) {
	root := r.d.Root()
	if prev == nil {
		r.unused(root, start, end)
		return
	}
	chain := r.d.recordChain(prev)
	common := root
	if next != nil {
		common = r.d.commonRecord(chain, r.d.recordChain(next))
	}
	for _, rec := range chain {
		if rec == common {
			break
		}
		declared, ok := r.d.declaredEnd(rec)
		if !ok || declared <= start {
			continue
		}
		cut := min(declared, end)
		r.unused(rec, start, cut)
		start = cut
		if start == end {
			return
		}
	}
	r.unused(common, start, end)
}

func (r *reader) unused(n *Node, start, end int) {
	r.d.addField(n, &Field{
		name: UnusedLabel,
		kind: schema.KindOpaque,
		off:  start,
		raw:  slices.Clone(r.buf[start:end]),
	})
}

// recordChain returns the dispatched records holding f, innermost first.
func (d *Document) recordChain(f *Field) []*Node {
	var out []*Node
	n := d.Node(f.owner)
	for n != nil {
		rec := d.Node(n.root)
		if rec == nil {
			break
		}
		out = append(out, rec)
		n = d.Node(rec.parent)
	}
	return out
}

// commonRecord returns the innermost record present in both chains.
func (d *Document) commonRecord(a, b []*Node) *Node {
	for _, x := range a {
		if slices.Contains(b, x) {
			return x
		}
	}
	return d.Root()
}

// declaredEnd returns where rec ends according to a size reference on its
// parent. Only a parent holding a single record of that kind says so.
func (d *Document) declaredEnd(rec *Node) (int, bool) {
	p := d.Node(rec.parent)
	if p == nil {
		return 0, false
	}
	for _, f := range p.Fields() {
		if f.kind != schema.KindSize || f.target != rec.kind {
			continue
		}
		if len(d.childrenOf(p, rec.kind)) != 1 {
			return 0, false
		}
		return rec.off + int(f.Uint()), true
	}
	return 0, false
}

// inlineSpan is the extent of n's own fields and inline groups.
func (d *Document) inlineSpan(n *Node) int {
	end := n.off
	for _, e := range n.entries {
		if e.field != nil {
			end = max(end, e.field.End())
			continue
		}
		if c := d.Node(e.node); c != nil && c.section == nil && c.root == n.root {
			end = max(end, c.off+c.span)
		}
	}
	return end - n.off
}

// extentEnd is one past the highest byte of n's subtree.
func (d *Document) extentEnd(n *Node) int {
	end := n.off + n.span
	d.eachLeaf(n, func(f *Field) { end = max(end, f.End()) })
	return end
}

// table returns the decode table for a field step, preferring a catalog
// IDS table when the step names one and the catalog has it.
func (d *Document) table(s schema.Step) *schema.Table {
	if s.IDS == "" || d.opts.Catalog == nil {
		return s.Table
	}
	if t, ok := d.ids[s.IDS]; ok {
		if t == nil {
			return s.Table
		}
		return t
	}
	var t *schema.Table
	if data, ok := d.opts.Catalog.Lookup(s.IDS); ok {
		parsed, err := schema.ParseIDS(s.IDS, data)
		if err != nil {
			d.log.Warn("ids table ignored", slog.String("name", s.IDS), slog.Any("error", err))
		} else {
			t = parsed
		}
	}
	d.ids[s.IDS] = t
	if t == nil {
		return s.Table
	}
	return t
}
