package resource

import (
	"bytes"
	"io"
)

// WriteTo emits every field in offset order. Offsets are never recomputed
// here; a gap or overlap between consecutive fields means the tree is
// inconsistent and nothing more is written.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var written int64
	cursor := d.Base()
	for _, f := range d.Leaves() {
		if f.off != cursor {
			if f.off < cursor {
				return written, malformed("write: %q at 0x%x overlaps data ending at 0x%x", f.name, f.off, cursor)
			}
			return written, malformed("write: gap 0x%x..0x%x before %q", cursor, f.off, f.name)
		}
		n, err := w.Write(f.raw)
		written += int64(n)
		if err != nil {
			return written, err
		}
		cursor = f.End()
	}
	return written, nil
}

// Bytes serializes the document into a fresh buffer.
func (d *Document) Bytes() ([]byte, error) {
	var b bytes.Buffer
	b.Grow(d.End() - d.Base())
	if _, err := d.WriteTo(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
