// Package testfix builds resource fixtures byte by byte for tests.
package testfix

import "encoding/binary"

// Builder is a growable little-endian byte buffer. Writes past the end grow
// the buffer with zeros.
type Builder struct {
	b []byte
}

// New returns a builder holding size zero bytes.
func New(size int) *Builder { return &Builder{b: make([]byte, size)} }

func (w *Builder) ensure(end int) {
	if end > len(w.b) {
		w.b = append(w.b, make([]byte, end-len(w.b))...)
	}
}

// Tag writes an 8-byte signature and version at off.
func (w *Builder) Tag(off int, sig, ver string) *Builder {
	return w.Text(off, 4, sig).Text(off+4, 4, ver)
}

// Text writes s NUL padded to width bytes.
func (w *Builder) Text(off, width int, s string) *Builder {
	w.ensure(off + width)
	n := copy(w.b[off:off+width], s)
	clear(w.b[off+n : off+width])
	return w
}

func (w *Builder) U8(off int, v uint8) *Builder {
	w.ensure(off + 1)
	w.b[off] = v
	return w
}

func (w *Builder) U16(off int, v uint16) *Builder {
	w.ensure(off + 2)
	binary.LittleEndian.PutUint16(w.b[off:], v)
	return w
}

func (w *Builder) U32(off int, v uint32) *Builder {
	w.ensure(off + 4)
	binary.LittleEndian.PutUint32(w.b[off:], v)
	return w
}

// Fill writes n copies of v at off.
func (w *Builder) Fill(off, n int, v byte) *Builder {
	w.ensure(off + n)
	for i := off; i < off+n; i++ {
		w.b[i] = v
	}
	return w
}

// Put copies p to off.
func (w *Builder) Put(off int, p []byte) *Builder {
	w.ensure(off + len(p))
	copy(w.b[off:], p)
	return w
}

// Len returns the current size.
func (w *Builder) Len() int { return len(w.b) }

// Bytes returns a copy of the buffer.
func (w *Builder) Bytes() []byte {
	out := make([]byte, len(w.b))
	copy(out, w.b)
	return out
}

// U16At reads back a little-endian uint16, for assertions on written output.
func U16At(b []byte, off int) uint16 { return binary.LittleEndian.Uint16(b[off:]) }

// U32At reads back a little-endian uint32.
func U32At(b []byte, off int) uint32 { return binary.LittleEndian.Uint32(b[off:]) }
