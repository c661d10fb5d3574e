//go:build !unix

package mmfile

import (
	"io"
	"os"
)

// MapLimit reads the whole file when mmap is not available.
func MapLimit(path string, limit int) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, noRelease, err
	}
	defer f.Close()

	size, err := sizeOf(f, limit)
	if err != nil {
		return nil, noRelease, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, noRelease, err
	}
	return data, noRelease, nil
}
