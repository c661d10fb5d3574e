// Package codec compresses and decompresses the zlib bodies that wrap
// resources in save containers and compressed archives. The engine only
// sees the decompressed bytes; hosts call Inflate before resource.Read
// and Deflate after (*resource.Document).Bytes.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/joshuapare/iekit/pkg/types"
)

var (
	// ErrLengthMismatch indicates the inflated body differs from the length
	// recorded beside it.
	ErrLengthMismatch = errors.New("codec: uncompressed length mismatch")
	// ErrTooLarge indicates the inflated body exceeds the configured limit.
	ErrTooLarge = errors.New("codec: uncompressed body exceeds limit")
)

// Zlib inflates and deflates zlib streams. The zero value compresses at
// zlib.BestCompression, as the games write their save entries, and caps
// inflated bodies at types.DefaultMaxDocumentSize.
type Zlib struct {
	// Level is the deflate level. Zero means zlib.BestCompression.
	Level int
	// MaxSize caps inflated output. Zero means types.DefaultMaxDocumentSize.
	MaxSize int
}

// Default is the codec used by the package-level helpers.
var Default = Zlib{}

func (z Zlib) level() int {
	if z.Level == 0 {
		return zlib.BestCompression
	}
	return z.Level
}

func (z Zlib) maxSize() int {
	if z.MaxSize <= 0 {
		return types.DefaultMaxDocumentSize
	}
	return z.MaxSize
}

// Inflate decompresses src. When size is non-negative the output must be
// exactly size bytes long.
func (z Zlib) Inflate(src []byte, size int) ([]byte, error) {
	if size > z.maxSize() {
		return nil, fmt.Errorf("inflate: declared %d bytes: %w", size, ErrTooLarge)
	}
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer r.Close()

	var out bytes.Buffer
	if size >= 0 {
		out.Grow(size)
	}
	// One byte past the limit tells an exact fit from an overflow.
	n, err := io.Copy(&out, io.LimitReader(r, int64(z.maxSize())+1))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if n > int64(z.maxSize()) {
		return nil, fmt.Errorf("inflate: %w (limit %d)", ErrTooLarge, z.maxSize())
	}
	if size >= 0 && int(n) != size {
		return nil, fmt.Errorf("inflate: got %d bytes, want %d: %w", n, size, ErrLengthMismatch)
	}
	return out.Bytes(), nil
}

// Deflate compresses src as a zlib stream.
func (z Zlib) Deflate(src []byte) ([]byte, error) {
	var out bytes.Buffer
	w, err := zlib.NewWriterLevel(&out, z.level())
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return out.Bytes(), nil
}

// Inflate decompresses src with the default codec.
func Inflate(src []byte, size int) ([]byte, error) { return Default.Inflate(src, size) }

// Deflate compresses src with the default codec.
func Deflate(src []byte) ([]byte, error) { return Default.Deflate(src) }
