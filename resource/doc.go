// Package resource is the binary structure engine. It interprets schema
// programs against a byte buffer, producing a Document: a tree of nodes and
// fields that can be edited and written back byte for byte.
//
// # Reading
//
//	doc, err := resource.Read(data, 0, resource.WithRegistry(formats.Default()))
//	if errors.Is(err, types.ErrUnsupportedVersion) {
//	    // signature/version outside every registered program
//	}
//
// Every byte of the input lands in exactly one field. Bytes no program
// interprets become opaque "Unused bytes" fields on the innermost record
// that covers them, so an embedded record keeps its padding when it moves.
//
// # Editing
//
// Insert, Graft and Remove splice records in or out. Positions at or beyond
// the edit point move by the size change, including the base offsets of
// embedded records, and every count, offset, index and size reference is
// re-derived from the live tree afterwards. References to an empty section
// keep pointing at the same logical position. A rejected edit leaves the
// document untouched.
//
// # Writing
//
// WriteTo emits fields in offset order and refuses to write a document with
// gaps or overlaps.
package resource
