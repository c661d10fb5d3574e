package format

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// DecodeText decodes a fixed-width Windows-1252 field, stopping at the first NUL.
func DecodeText(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// EncodeText encodes s into exactly width bytes, NUL padded.
// A string that fills the whole width carries no terminator, as the engine
// stores 8-byte resource names.
func EncodeText(s string, width int) ([]byte, error) {
	enc, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("format: encode %q: %w", s, err)
	}
	if len(enc) > width {
		return nil, fmt.Errorf("%w (%d > %d)", ErrTextTooLong, len(enc), width)
	}
	out := make([]byte, width)
	copy(out, enc)
	return out, nil
}

// NormalizeResRef upper-cases a resource name and drops padding.
func NormalizeResRef(b []byte) string {
	return strings.ToUpper(strings.TrimRight(DecodeText(b), " "))
}
