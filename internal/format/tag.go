package format

import (
	"fmt"

	"github.com/joshuapare/iekit/internal/buf"
)

// ReadTag returns the signature and version at off.
func ReadTag(b []byte, off int) (string, string, error) {
	tag, ok := buf.Slice(b, off, HeaderTagSize)
	if !ok {
		return "", "", fmt.Errorf("tag: %w (have %d, need %d at 0x%X)", ErrTruncated, len(b)-off, HeaderTagSize, off)
	}
	return string(tag[:TagSize]), string(tag[TagSize:]), nil
}

// HasSignature reports whether b carries sig at off.
func HasSignature(b []byte, off int, sig string) bool {
	got, ok := buf.Slice(b, off, TagSize)
	return ok && string(got) == sig
}
