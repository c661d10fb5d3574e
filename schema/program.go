package schema

// Program is the construction program of one node kind.
type Program struct {
	Kind  Kind
	Label string
	Steps []Step

	// Stride overrides the computed static size. Records padded past their
	// last interpreted field set it.
	Stride int
}

// Section locates the child records of one kind.
//
// Exactly one addressing mode applies:
//   - Offset (+ Count or Fixed): records packed from owner extra + offset.
//   - Index + Region (+ Count): records at extra + region + index*stride,
//     where Region labels a field on the record root.
//   - Embed: a separately dispatched record at extra + offset whose extra
//     offset is its own start.
type Section struct {
	Label string
	Kind  Kind

	Child *Program
	Alts  []Alt

	Offset string
	Count  string
	Fixed  int
	Index  string
	Region string

	Embed      bool
	Signatures []string
	// SkipZero treats an offset value of zero as an absent section.
	SkipZero bool

	Mutable bool
	// ZeroWhenEmpty resets the offset field to zero once the last
	// instance is removed.
	ZeroWhenEmpty bool
}

// Alt is a child program selected by a condition.
type Alt struct {
	When    Cond
	Program *Program
}

// Resolve picks the child program: the first matching Alt, else Child.
func (s *Section) Resolve(env Env) *Program {
	for _, a := range s.Alts {
		if a.When.Eval(env) {
			return a.Program
		}
	}
	return s.Child
}

// IsIndexed reports whether records are addressed through an index field.
func (s *Section) IsIndexed() bool { return s.Index != "" }

// Programs returns every child program the section may resolve to.
func (s *Section) Programs() []*Program {
	out := make([]*Program, 0, len(s.Alts)+1)
	for _, a := range s.Alts {
		out = append(out, a.Program)
	}
	if s.Child != nil {
		out = append(out, s.Child)
	}
	return out
}

// Size returns the static byte size of a node read with p, and false when a
// step's extent depends on the data.
func (p *Program) Size() (int, bool) {
	if p.Stride > 0 {
		return p.Stride, true
	}
	return stepsSize(p.Steps)
}

func stepsSize(steps []Step) (int, bool) {
	size := 0
	var branches [][2]int
	for _, s := range steps {
		switch s.Op {
		case OpChoose:
			a, ok1 := stepsSize(s.Then)
			b, ok2 := stepsSize(s.Else)
			if !ok1 || !ok2 {
				return 0, false
			}
			branches = append(branches, [2]int{a, b})
		case OpSection:
		default:
			end, ok := s.end()
			if !ok {
				return 0, false
			}
			size = max(size, end)
		}
	}
	// Branches of different extent only matter when they reach past the
	// unconditional steps.
	for _, br := range branches {
		if br[0] == br[1] {
			size = max(size, br[0])
		}
	}
	for _, br := range branches {
		if max(br[0], br[1]) > size {
			return 0, false
		}
	}
	return size, true
}

// Sections returns every section declared anywhere in p, including both
// branches of conditional steps.
func (p *Program) Sections() []*Section {
	var out []*Section
	var walk func([]Step)
	walk = func(steps []Step) {
		for _, s := range steps {
			switch s.Op {
			case OpSection:
				out = append(out, s.Section)
			case OpChoose:
				walk(s.Then)
				walk(s.Else)
			}
		}
	}
	walk(p.Steps)
	return out
}

// SectionFor returns the first section of p whose records are of kind k.
func (p *Program) SectionFor(k Kind) (*Section, bool) {
	for _, s := range p.Sections() {
		if s.Kind == k {
			return s, true
		}
	}
	return nil, false
}

// Mutable returns the kinds that may be inserted or removed below p.
func (p *Program) Mutable() []Kind {
	var out []Kind
	seen := make(map[Kind]bool)
	for _, s := range p.Sections() {
		if s.Mutable && !seen[s.Kind] {
			seen[s.Kind] = true
			out = append(out, s.Kind)
		}
	}
	return out
}
