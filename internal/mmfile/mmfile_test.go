package mmfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MapLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sw1h01.itm")
	want := []byte("ITM V1  \x00\x01")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"no limit", 0, false},
		{"exact fit", len(want), false},
		{"one byte short", len(want) - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, release, err := MapLimit(path, tt.limit)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrTooLarge)
				return
			}
			require.NoError(t, err)
			require.Equal(t, want, data)
			require.NoError(t, release())
		})
	}
}
