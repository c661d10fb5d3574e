package tlk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/pkg/types"
)

type fixtureEntry struct {
	flags uint16
	sound string
	text  string
}

// buildTLK lays out the entries followed by their strings in order.
func buildTLK(lang uint16, entries ...fixtureEntry) []byte {
	base := HeaderSize + len(entries)*EntrySize
	size := base
	for _, e := range entries {
		size += len(e.text)
	}
	w := testfix.New(size).Tag(0, "TLK ", "V1  ").U16(0x08, lang).
		U32(0x0A, uint32(len(entries))).U32(0x0E, uint32(base))
	pos := 0
	for i, e := range entries {
		off := HeaderSize + i*EntrySize
		w.U16(off, e.flags).Text(off+2, 8, e.sound).
			U32(off+0x0A, 0).U32(off+0x0E, 0).
			U32(off+0x12, uint32(pos)).U32(off+0x16, uint32(len(e.text)))
		w.Put(base+pos, []byte(e.text))
		pos += len(e.text)
	}
	return w.Bytes()
}

func sampleTLK() []byte {
	return buildTLK(2,
		fixtureEntry{flags: 0},
		fixtureEntry{flags: FlagText, text: "Imoen"},
		fixtureEntry{flags: FlagText | FlagSound, sound: "imoen01", text: "Hey, it's me!"},
		fixtureEntry{flags: FlagText, text: "Caf\xe9"},
	)
}

func TestParse_Header(t *testing.T) {
	tbl, err := Parse(sampleTLK())
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, uint16(2), tbl.Language())
}

func TestTable_Lookup(t *testing.T) {
	tbl, err := Parse(sampleTLK())
	require.NoError(t, err)

	tests := []struct {
		name  string
		ref   uint32
		want  Entry
		text  bool
		sound bool
	}{
		{"empty", 0, Entry{}, false, false},
		{"text only", 1, Entry{Flags: FlagText, Text: "Imoen"}, true, false},
		{"with sound", 2, Entry{Flags: FlagText | FlagSound, Sound: "IMOEN01", Text: "Hey, it's me!"}, true, true},
		{"windows-1252", 3, Entry{Flags: FlagText, Text: "Café"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Lookup(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.HasText())
			assert.Equal(t, tt.sound, got.HasSound())
		})
	}
}

func TestTable_String(t *testing.T) {
	tbl, err := Parse(sampleTLK(), WithCacheSize(1))
	require.NoError(t, err)

	for range 2 {
		s, ok := tbl.String(2)
		require.True(t, ok)
		assert.Equal(t, "Hey, it's me!", s)

		s, ok = tbl.String(1)
		require.True(t, ok)
		assert.Equal(t, "Imoen", s)
	}

	_, ok := tbl.String(4)
	assert.False(t, ok)
	_, ok = tbl.String(format.NoStrRef)
	assert.False(t, ok)
}

func TestTable_LookupOutOfRange(t *testing.T) {
	tbl, err := Parse(sampleTLK())
	require.NoError(t, err)

	_, err = tbl.Lookup(99)
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindNotFound, kind)
}

func TestTable_TruncatedString(t *testing.T) {
	data := sampleTLK()
	// Entry 1 claims 500 bytes.
	data[HeaderSize+EntrySize+0x16] = 0xF4
	data[HeaderSize+EntrySize+0x17] = 0x01

	tbl, err := Parse(data)
	require.NoError(t, err)

	_, err = tbl.Lookup(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrTruncated))

	_, ok := tbl.String(1)
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	good := sampleTLK()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		kind   types.ErrKind
		is     error
	}{
		{"short", func(b []byte) []byte { return b[:6] }, types.ErrKindMalformed, format.ErrTruncated},
		{"signature", func(b []byte) []byte { copy(b, "TLKX"); return b }, types.ErrKindUnsupported, format.ErrSignatureMismatch},
		{"version", func(b []byte) []byte { copy(b[4:], "V3.0"); return b }, types.ErrKindUnsupported, format.ErrUnsupported},
		{"header", func(b []byte) []byte { return b[:0x10] }, types.ErrKindMalformed, format.ErrTruncated},
		{"entries", func(b []byte) []byte { b[0x0A] = 200; return b }, types.ErrKindMalformed, nil},
		{"strings offset", func(b []byte) []byte { b[0x11] = 1; return b }, types.ErrKindMalformed, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), good...)
			_, err := Parse(tt.mutate(data))
			require.Error(t, err)
			kind, ok := types.KindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dialog.tlk")
	require.NoError(t, os.WriteFile(path, sampleTLK(), 0o644))

	tbl, err := Open(path)
	require.NoError(t, err)

	s, ok := tbl.String(1)
	require.True(t, ok)
	assert.Equal(t, "Imoen", s)

	require.NoError(t, tbl.Close())
	require.NoError(t, tbl.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.tlk"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
