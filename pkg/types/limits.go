package types

const (
	// DefaultMaxDepth bounds nesting of structure nodes. Real resources nest
	// at most five levels (GAM > NPC > CRE > memorization > memorized spell).
	DefaultMaxDepth = 16

	// DefaultMaxSectionCount bounds any single section count. Counts above it
	// almost always indicate a corrupt header rather than a huge resource.
	DefaultMaxSectionCount = 1 << 16

	// DefaultMaxDocumentSize bounds the input accepted by a read.
	DefaultMaxDocumentSize = 256 << 20

	// StrictMaxSectionCount is a low bound for untrusted input.
	StrictMaxSectionCount = 4096

	// StrictMaxDocumentSize is a low bound for untrusted input.
	StrictMaxDocumentSize = 8 << 20
)

// Limits defines constraints applied while reading a document, so a corrupt
// count or offset cannot drive unbounded allocation.
type Limits struct {
	// MaxDepth is the maximum nesting depth of structure nodes.
	MaxDepth int

	// MaxSectionCount is the maximum record count of a single section.
	MaxSectionCount int

	// MaxDocumentSize is the maximum accepted input length in bytes.
	MaxDocumentSize int
}

// DefaultLimits returns limits that accept every well-formed game resource.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:        DefaultMaxDepth,
		MaxSectionCount: DefaultMaxSectionCount,
		MaxDocumentSize: DefaultMaxDocumentSize,
	}
}

// StrictLimits returns conservative limits for untrusted input.
func StrictLimits() Limits {
	return Limits{
		MaxDepth:        DefaultMaxDepth,
		MaxSectionCount: StrictMaxSectionCount,
		MaxDocumentSize: StrictMaxDocumentSize,
	}
}
