package format

import "errors"

var (
	// ErrSignatureMismatch indicates a record had an unexpected signature.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a record.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnsupported indicates a signature/version pair outside the supported set.
	ErrUnsupported = errors.New("format: unsupported version")
	// ErrTextTooLong indicates encoded text does not fit its fixed-width field.
	ErrTextTooLong = errors.New("format: text exceeds field width")
)
