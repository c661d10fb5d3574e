package resource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/iekit/internal/buf"
	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Field is a leaf value bound to a byte range of the document. It owns a
// copy of its bytes; the width never changes after construction.
type Field struct {
	name   string
	kind   schema.FieldKind
	off    int
	raw    []byte
	table  *schema.Table
	exts   []string
	target schema.Kind
	scope  schema.Scope

	owner types.NodeID
	doc   *Document
	seq   uint64
}

func (f *Field) Name() string           { return f.name }
func (f *Field) Kind() schema.FieldKind { return f.kind }
func (f *Field) Offset() int            { return f.off }
func (f *Field) Width() int             { return len(f.raw) }
func (f *Field) End() int               { return f.off + len(f.raw) }
func (f *Field) Table() *schema.Table   { return f.table }
func (f *Field) Exts() []string         { return f.exts }
func (f *Field) Target() schema.Kind    { return f.target }
func (f *Field) Scope() schema.Scope    { return f.scope }
func (f *Field) Owner() types.NodeID    { return f.owner }
func (f *Field) IsReference() bool      { return f.kind.IsReference() }

// Bytes returns a copy of the raw bytes.
func (f *Field) Bytes() []byte {
	out := make([]byte, len(f.raw))
	copy(out, f.raw)
	return out
}

// Uint returns the value as an unsigned integer. Non-integer fields of
// width 1, 2 or 4 decode the same way.
func (f *Field) Uint() uint64 {
	v, _ := buf.Uint(f.raw, len(f.raw))
	return v
}

// Int returns the value, sign-extended for KindSigned.
func (f *Field) Int() int64 {
	if f.kind == schema.KindSigned {
		v, _ := buf.Int(f.raw, len(f.raw))
		return v
	}
	return int64(f.Uint())
}

// SetInt stores v. It fails when v does not fit the field width.
func (f *Field) SetInt(v int64) error {
	if !f.kind.IsInteger() {
		return fmt.Errorf("field %q: %s is not an integer kind", f.name, f.kind)
	}
	if f.kind == schema.KindSigned {
		if !buf.FitsInt(v, len(f.raw)) {
			return types.Errorf(types.ErrKindBounds, "field %q: %d does not fit %d bytes", f.name, v, len(f.raw))
		}
		return f.SetUint(uint64(v) & (1<<(8*uint(len(f.raw))) - 1))
	}
	if v < 0 {
		return types.Errorf(types.ErrKindBounds, "field %q: negative value %d for %s field", f.name, v, f.kind)
	}
	return f.SetUint(uint64(v))
}

// SetUint stores v. It fails when v does not fit the field width.
func (f *Field) SetUint(v uint64) error {
	if !buf.FitsUint(v, len(f.raw)) {
		return types.Errorf(types.ErrKindBounds, "field %q: %d does not fit %d bytes", f.name, v, len(f.raw))
	}
	next := make([]byte, len(f.raw))
	buf.PutUint(next, len(f.raw), v)
	f.replace(next)
	return nil
}

// Text decodes the field as NUL-terminated Windows-1252 text.
func (f *Field) Text() string { return format.DecodeText(f.raw) }

// SetText encodes s into the field, NUL padded. It fails when the encoded
// text is longer than the width.
func (f *Field) SetText(s string) error {
	enc, err := format.EncodeText(s, len(f.raw))
	if err != nil {
		return fmt.Errorf("field %q: %w", f.name, err)
	}
	f.replace(enc)
	return nil
}

// SetBytes replaces the raw bytes. b must have exactly the field width.
func (f *Field) SetBytes(b []byte) error {
	if len(b) != len(f.raw) {
		return types.Errorf(types.ErrKindBounds, "field %q: %d bytes for width %d", f.name, len(b), len(f.raw))
	}
	next := make([]byte, len(b))
	copy(next, b)
	f.replace(next)
	return nil
}

// ResRef returns the upper-cased resource name.
func (f *Field) ResRef() string { return format.NormalizeResRef(f.raw) }

// Label decodes the value through the field's table. Unmapped values render
// as the raw number.
func (f *Field) Label() string {
	switch f.kind {
	case schema.KindEnum:
		return f.table.Render(f.Int())
	case schema.KindFlags:
		bits := f.table.Bits(f.Uint())
		if len(bits) == 0 {
			return "0"
		}
		return strings.Join(bits, ", ")
	}
	return f.String()
}

// Display renders the value for people. String references resolve through
// st when it is non-nil.
func (f *Field) Display(st types.StringTable) string {
	if f.kind == schema.KindStrRef {
		ref := uint32(f.Uint())
		if ref == format.NoStrRef {
			return "None"
		}
		if st != nil {
			if s, ok := st.String(ref); ok {
				return fmt.Sprintf("%s (%d)", s, ref)
			}
		}
		return strconv.FormatUint(uint64(ref), 10)
	}
	return f.Label()
}

// String renders the raw value according to the kind.
func (f *Field) String() string {
	switch f.kind {
	case schema.KindText:
		return f.Text()
	case schema.KindResRef:
		if r := f.ResRef(); r != "" {
			return r
		}
		return "None"
	case schema.KindOpaque:
		return fmt.Sprintf("% x", f.raw)
	case schema.KindHex, schema.KindOffset:
		return fmt.Sprintf("0x%0*x", 2*len(f.raw), f.Uint())
	case schema.KindEnum, schema.KindFlags:
		return f.Label()
	case schema.KindSigned:
		return strconv.FormatInt(f.Int(), 10)
	}
	return strconv.FormatUint(f.Uint(), 10)
}

func (f *Field) replace(next []byte) {
	if string(next) == string(f.raw) {
		return
	}
	f.raw = next
	if f.doc != nil {
		f.doc.notify(Change{Kind: ChangeValue, Node: f.owner, Offset: f.off, Len: len(f.raw)})
	}
}
