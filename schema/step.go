package schema

// Op selects the variant of a Step.
type Op uint8

const (
	OpField   Op = iota + 1 // one field at Off
	OpSection               // child records located through reference fields
	OpChoose                // Then or Else depending on When
	OpGroup                 // inline child node at Off
	OpFill                  // opaque run from Off up to the position named by Until
)

// Step is one construction instruction. Which attributes apply depends on Op.
type Step struct {
	Op Op

	// OpField, OpGroup and OpFill.
	Off   int
	Label string

	// OpField.
	Kind      FieldKind
	Width     int
	WidthFrom string // width taken from a field read earlier, plus WidthBias
	WidthBias int
	Table     *Table
	IDS       string // catalog table that replaces Table when present
	Exts      []string
	Target    Kind  // reference roles only
	Scope     Scope // reference roles only

	// OpFill.
	Until string

	// OpSection.
	Section *Section

	// OpChoose.
	When Cond
	Then []Step
	Else []Step

	// OpGroup.
	Group *Program
}

func field(off, width int, kind FieldKind, label string) Step {
	return Step{Op: OpField, Off: off, Width: width, Kind: kind, Label: label}
}

// Signed is a two's complement integer field.
func Signed(off, width int, label string) Step { return field(off, width, KindSigned, label) }

// Unsigned is an unsigned integer field.
func Unsigned(off, width int, label string) Step { return field(off, width, KindUnsigned, label) }

// Hex is an unsigned integer field displayed in hex.
func Hex(off, width int, label string) Step { return field(off, width, KindHex, label) }

// Enum is an integer field decoded through t.
func Enum(off, width int, label string, t *Table) Step {
	s := field(off, width, KindEnum, label)
	s.Table = t
	return s
}

// IDSEnum is an integer field decoded through the named catalog table.
func IDSEnum(off, width int, label, ids string) Step {
	s := field(off, width, KindEnum, label)
	s.IDS = ids
	return s
}

// Flags is a bitmask field with bit labels from t.
func Flags(off, width int, label string, t *Table) Step {
	s := field(off, width, KindFlags, label)
	s.Table = t
	return s
}

// Text is a fixed-width text field.
func Text(off, width int, label string) Step { return field(off, width, KindText, label) }

// StrRef is a 4-byte string table reference.
func StrRef(off int, label string) Step { return field(off, 4, KindStrRef, label) }

// ResRef is an 8-byte resource name restricted to exts.
func ResRef(off int, label string, exts ...string) Step {
	s := field(off, 8, KindResRef, label)
	s.Exts = exts
	return s
}

// Opaque is a raw byte run.
func Opaque(off, width int, label string) Step { return field(off, width, KindOpaque, label) }

// OpaqueFrom is a raw byte run whose width is value(from) + bias.
func OpaqueFrom(off int, from string, bias int, label string) Step {
	s := field(off, 0, KindOpaque, label)
	s.WidthFrom = from
	s.WidthBias = bias
	return s
}

func ref(kind FieldKind, off, width int, label string, target Kind, scope Scope) Step {
	s := field(off, width, kind, label)
	s.Target = target
	s.Scope = scope
	return s
}

// OffsetRef is a section offset bound to target.
func OffsetRef(off, width int, label string, target Kind, scope Scope) Step {
	return ref(KindOffset, off, width, label, target, scope)
}

// CountRef is a section count bound to target.
func CountRef(off, width int, label string, target Kind, scope Scope) Step {
	return ref(KindCount, off, width, label, target, scope)
}

// IndexRef is a first-instance index bound to target.
func IndexRef(off, width int, label string, target Kind) Step {
	return ref(KindIndex, off, width, label, target, ScopeDirect)
}

// SizeRef is the total size of the owner's direct target children.
func SizeRef(off, width int, label string, target Kind) Step {
	return ref(KindSize, off, width, label, target, ScopeDirect)
}

// Fill is an opaque run from off up to value(until), both relative to the
// record start.
func Fill(off int, until, label string) Step {
	return Step{Op: OpFill, Off: off, Until: until, Label: label}
}

// Sect resolves a section of child records.
func Sect(s *Section) Step { return Step{Op: OpSection, Section: s} }

// Choose selects then or otherwise.
func Choose(when Cond, then []Step, otherwise []Step) Step {
	return Step{Op: OpChoose, When: when, Then: then, Else: otherwise}
}

// Group embeds an inline child node read with p at off.
func Group(off int, p *Program) Step {
	return Step{Op: OpGroup, Off: off, Group: p, Label: p.Label}
}

// Steps concatenates step lists.
func Steps(parts ...[]Step) []Step {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]Step, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Repeat builds count steps from mk, one per ordinal.
func Repeat(count int, mk func(i int) Step) []Step {
	out := make([]Step, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, mk(i))
	}
	return out
}

// end returns one past the last byte a field or group step covers when its
// width is static.
func (s Step) end() (int, bool) {
	switch s.Op {
	case OpField:
		if s.WidthFrom != "" {
			return 0, false
		}
		return s.Off + s.Width, true
	case OpGroup:
		n, ok := s.Group.Size()
		return s.Off + n, ok
	case OpFill:
		return 0, false
	}
	return 0, true
}
