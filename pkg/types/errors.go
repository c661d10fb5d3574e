package types

import (
	"errors"
	"fmt"
)

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindUnsupported     ErrKind = iota // signature/version outside every schema table
	ErrKindMalformed                      // declared offset/width/count runs outside the document
	ErrKindInvalidMutation                // insert/remove rejected before the tree was touched
	ErrKindBounds                         // raw byte access past the buffer end
	ErrKindNotFound                       // missing node or field label
	ErrKindState                          // invalid operation for current state (e.g., bad registry)
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindMalformed:
		return "malformed"
	case ErrKindInvalidMutation:
		return "invalid mutation"
	case ErrKindBounds:
		return "bounds"
	case ErrKindNotFound:
		return "not found"
	case ErrKindState:
		return "state"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e != nil && t.Kind == e.Kind
}

// Errorf builds a typed error with a formatted message.
func Errorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind ErrKind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf reports the kind of the first typed error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// Sentinels commonly returned by implementations.
var (
	// ErrUnsupportedVersion indicates a signature/version pair no schema table handles.
	ErrUnsupportedVersion = &Error{Kind: ErrKindUnsupported, Msg: "unsupported format version"}
	// ErrMalformed indicates a layout that points outside the document.
	ErrMalformed = &Error{Kind: ErrKindMalformed, Msg: "malformed layout"}
	// ErrInvalidMutation indicates a rejected insert or remove.
	ErrInvalidMutation = &Error{Kind: ErrKindInvalidMutation, Msg: "invalid mutation"}
	// ErrBounds indicates a byte access past the end of the buffer.
	ErrBounds = &Error{Kind: ErrKindBounds, Msg: "out of bounds"}
	// ErrNotFound indicates a missing node or field.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrState indicates misuse of an object in its current state.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid state"}
)

// NodeID is a handle to a structure node inside one document's arena.
// Zero is never a valid node.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0
