// Package buf holds bounds checks and little-endian codecs for the
// 1, 2 and 4 byte integer widths used by Infinity Engine resources.
package buf

import "encoding/binary"

// Uint decodes a little-endian unsigned integer of width 1, 2, 4 or 8 bytes.
// ok is false for any other width or when b is too short.
func Uint(b []byte, width int) (uint64, bool) {
	if len(b) < width {
		return 0, false
	}
	switch width {
	case 1:
		return uint64(b[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), true
	case 8:
		return binary.LittleEndian.Uint64(b), true
	}
	return 0, false
}

// Int decodes a little-endian two's complement integer of the given width.
func Int(b []byte, width int) (int64, bool) {
	u, ok := Uint(b, width)
	if !ok {
		return 0, false
	}
	switch width {
	case 1:
		return int64(int8(u)), true
	case 2:
		return int64(int16(u)), true
	case 4:
		return int64(int32(u)), true
	}
	return int64(u), true
}

// PutUint encodes v into the first width bytes of b. Higher bits of v are
// discarded; callers range-check with FitsUint/FitsInt first.
func PutUint(b []byte, width int, v uint64) bool {
	if len(b) < width {
		return false
	}
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	default:
		return false
	}
	return true
}

// FitsUint reports whether v is representable in width unsigned bytes.
func FitsUint(v uint64, width int) bool {
	if width >= 8 {
		return true
	}
	return v < 1<<(8*uint(width))
}

// FitsInt reports whether v is representable in width signed bytes.
func FitsInt(v int64, width int) bool {
	if width >= 8 {
		return true
	}
	bits := 8 * uint(width)
	lo := -int64(1) << (bits - 1)
	hi := int64(1)<<(bits-1) - 1
	return v >= lo && v <= hi
}

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}
