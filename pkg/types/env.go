package types

import "strings"

// Engine identifies the game engine generation a resource was written for.
// Several formats share a signature/version pair across engines and differ
// only in layout.
type Engine int

const (
	EngineUnknown Engine = iota
	EngineBG1
	EngineBG2
	EnginePST
	EngineIWD
	EngineIWD2
	EngineEE
)

var engineNames = map[Engine]string{
	EngineUnknown: "unknown",
	EngineBG1:     "bg1",
	EngineBG2:     "bg2",
	EnginePST:     "pst",
	EngineIWD:     "iwd",
	EngineIWD2:    "iwd2",
	EngineEE:      "ee",
}

func (e Engine) String() string {
	if s, ok := engineNames[e]; ok {
		return s
	}
	return "unknown"
}

// ParseEngine maps a short engine name ("bg2", "PST", ...) to an Engine.
func ParseEngine(s string) (Engine, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for e, name := range engineNames {
		if name == s {
			return e, true
		}
	}
	return EngineUnknown, false
}

// StringTable resolves string references (TLK indexes) to text.
// The engine never owns one; string reference fields resolve lazily against
// whatever table the caller supplies.
type StringTable interface {
	String(ref uint32) (string, bool)
}

// Catalog answers whether auxiliary resources (IDS tables and the like) exist
// in the game installation. Presence of some of them selects layout variants.
type Catalog interface {
	Has(name string) bool
	Lookup(name string) ([]byte, bool)
}
