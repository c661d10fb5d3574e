// Package mmfile maps resource files read-only so a parse can copy out the
// bytes it needs without a second full read.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrTooLarge is returned when a file exceeds the limit given to MapLimit.
var ErrTooLarge = errors.New("mmfile: file exceeds size limit")

// Map maps the file at path read-only. The returned slice is valid until the
// release function runs; callers copy anything they keep.
func Map(path string) ([]byte, func() error, error) { return MapLimit(path, 0) }

// sizeOf returns the length of f, refusing anything above limit bytes
// (0 means no limit) or above what a slice can address.
func sizeOf(f *os.File, limit int) (int, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if size > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, f.Name(), size)
	}
	if limit > 0 && size > int64(limit) {
		return 0, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, f.Name(), size, limit)
	}
	return int(size), nil
}

func noRelease() error { return nil }
