package resource

import (
	"errors"
	"fmt"

	"github.com/joshuapare/iekit/pkg/types"
)

var (
	// ErrNodeNotFound indicates a NodeID that is not live in the document.
	ErrNodeNotFound = errors.New("resource: node not found")
	// ErrNotMutable indicates an insert or remove of a kind the parent does
	// not declare mutable.
	ErrNotMutable = errors.New("resource: kind is not insertable or removable here")
)

func invalidMutation(err error, format string, args ...any) error {
	return types.Wrap(types.ErrKindInvalidMutation, fmt.Sprintf(format, args...), err)
}

func malformed(format string, args ...any) error {
	return types.Errorf(types.ErrKindMalformed, format, args...)
}
