package schema

import "fmt"

// Kind names a structure node type ("itm.ability", "cre.item", ...).
// Section references bind to kinds, and mutability is declared per kind.
type Kind string

// FieldKind is the closed set of field encodings.
type FieldKind uint8

const (
	KindInvalid  FieldKind = iota
	KindSigned             // two's complement integer
	KindUnsigned           // unsigned integer
	KindHex                // unsigned integer rendered in hex
	KindEnum               // integer decoded through a Table
	KindFlags              // bitmask decoded through a Table of bit labels
	KindText               // fixed-width Windows-1252 text
	KindStrRef             // 4-byte string table index
	KindResRef             // 8-byte resource name
	KindOpaque             // raw bytes, written verbatim
	KindOffset             // section reference: start of first target instance
	KindCount              // section reference: population of target kind
	KindIndex              // section reference: ordinal of first target instance
	KindSize               // section reference: total size of target children
)

var fieldKindNames = [...]string{
	KindInvalid:  "invalid",
	KindSigned:   "signed",
	KindUnsigned: "unsigned",
	KindHex:      "hex",
	KindEnum:     "enum",
	KindFlags:    "flags",
	KindText:     "text",
	KindStrRef:   "strref",
	KindResRef:   "resref",
	KindOpaque:   "opaque",
	KindOffset:   "offset",
	KindCount:    "count",
	KindIndex:    "index",
	KindSize:     "size",
}

func (k FieldKind) String() string {
	if int(k) < len(fieldKindNames) {
		return fieldKindNames[k]
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// IsReference reports whether the kind is one of the section reference roles.
func (k FieldKind) IsReference() bool {
	switch k {
	case KindOffset, KindCount, KindIndex, KindSize:
		return true
	}
	return false
}

// IsInteger reports whether values of the kind are integers.
func (k FieldKind) IsInteger() bool {
	switch k {
	case KindSigned, KindUnsigned, KindHex, KindEnum, KindFlags, KindStrRef,
		KindOffset, KindCount, KindIndex, KindSize:
		return true
	}
	return false
}

// ValidWidth reports whether width is a legal encoding width for the kind.
func (k FieldKind) ValidWidth(width int) bool {
	switch k {
	case KindStrRef:
		return width == 4
	case KindResRef:
		return width == 8
	case KindText, KindOpaque:
		return width > 0
	case KindInvalid:
		return false
	}
	return width == 1 || width == 2 || width == 4
}

// Scope bounds which nodes a section reference counts.
type Scope uint8

const (
	// ScopeDirect counts direct children of the field's owner.
	ScopeDirect Scope = iota
	// ScopeDeep counts descendants of the owner within the same record,
	// without descending into embedded records.
	ScopeDeep
)

func (s Scope) String() string {
	if s == ScopeDeep {
		return "deep"
	}
	return "direct"
}
