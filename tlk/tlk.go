// Package tlk reads TLK V1 string tables (dialog.tlk and friends).
//
// Layout:
//
//	Offset  Size  Field
//	0x00    4     Signature "TLK "
//	0x04    4     Version   "V1  "
//	0x08    2     Language ID
//	0x0A    4     # entries
//	0x0E    4     Strings offset
//	0x12    26*n  Entries
//
// Each entry:
//
//	0x00    2     Flags (bit 0 text, bit 1 sound, bit 2 standard tokens)
//	0x02    8     Sound resource
//	0x0A    4     Volume variance
//	0x0E    4     Pitch variance
//	0x12    4     String offset, relative to Strings offset
//	0x16    4     String length
package tlk

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/joshuapare/iekit/internal/buf"
	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/internal/mmfile"
	"github.com/joshuapare/iekit/pkg/types"
)

const (
	HeaderSize = 0x12
	EntrySize  = 26

	Version = "V1  "

	// DefaultCacheSize is the number of decoded strings kept by default.
	DefaultCacheSize = 1024
)

// Entry flags.
const (
	FlagText     uint16 = 1 << 0
	FlagSound    uint16 = 1 << 1
	FlagStandard uint16 = 1 << 2
)

// Entry is one decoded string table entry.
type Entry struct {
	Flags          uint16
	Sound          string
	VolumeVariance uint32
	PitchVariance  uint32
	Text           string
}

// HasText reports whether the entry carries text.
func (e Entry) HasText() bool { return e.Flags&FlagText != 0 }

// HasSound reports whether the entry names a sound.
func (e Entry) HasSound() bool { return e.Flags&FlagSound != 0 }

// Table is a read-only view of a TLK file. It is safe for concurrent use.
type Table struct {
	data     []byte
	language uint16
	count    int
	base     int

	cache *lru.Cache[uint32, string]

	closeOnce sync.Once
	release   func() error
}

var _ types.StringTable = (*Table)(nil)

// Option configures a Table.
type Option func(*config)

type config struct {
	cacheSize int
}

// WithCacheSize sets how many decoded strings are cached. Zero or less
// keeps the default.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// Parse reads a TLK table from b. The table keeps b; callers must not
// modify it afterwards.
func Parse(b []byte, opts ...Option) (*Table, error) {
	cfg := config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	sig, ver, err := format.ReadTag(b, 0)
	if err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, "tlk header", err)
	}
	if sig != format.SigTLK {
		return nil, types.Wrap(types.ErrKindUnsupported, fmt.Sprintf("tlk: signature %q", sig), format.ErrSignatureMismatch)
	}
	if ver != Version {
		return nil, types.Wrap(types.ErrKindUnsupported, fmt.Sprintf("tlk: version %q", ver), format.ErrUnsupported)
	}
	if !buf.Has(b, 0, HeaderSize) {
		return nil, types.Wrap(types.ErrKindMalformed, "tlk header", format.ErrTruncated)
	}

	count := int(buf.U32LE(b[0x0A:]))
	if _, err := buf.CheckRun(len(b), HeaderSize, count, EntrySize); err != nil {
		return nil, types.Wrap(types.ErrKindMalformed, fmt.Sprintf("tlk: %d entries", count), err)
	}
	base := int(buf.U32LE(b[0x0E:]))
	if base > len(b) {
		return nil, types.Errorf(types.ErrKindMalformed, "tlk: strings offset 0x%X past end (%d bytes)", base, len(b))
	}

	cache, err := lru.New[uint32, string](cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Table{
		data:     b,
		language: buf.U16LE(b[0x08:]),
		count:    count,
		base:     base,
		cache:    cache,
	}, nil
}

// Open maps the file at path and parses it. Close releases the mapping.
func Open(path string, opts ...Option) (*Table, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	t, err := Parse(data, opts...)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	t.release = release
	return t, nil
}

// Close releases the file mapping of a table returned by Open. Lookups
// after Close are invalid.
func (t *Table) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if t.release != nil {
			err = t.release()
		}
	})
	return err
}

// Len returns the number of entries.
func (t *Table) Len() int { return t.count }

// Language returns the language ID from the header.
func (t *Table) Language() uint16 { return t.language }

// Lookup decodes the entry for ref.
func (t *Table) Lookup(ref uint32) (Entry, error) {
	raw, err := t.entry(ref)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Flags:          buf.U16LE(raw[0x00:]),
		Sound:          format.NormalizeResRef(raw[0x02 : 0x02+format.ResRefSize]),
		VolumeVariance: buf.U32LE(raw[0x0A:]),
		PitchVariance:  buf.U32LE(raw[0x0E:]),
	}
	e.Text, err = t.text(ref, raw)
	return e, err
}

// String implements types.StringTable. Out of range references, the
// "no string" reference and malformed entries report false.
func (t *Table) String(ref uint32) (string, bool) {
	if ref == format.NoStrRef {
		return "", false
	}
	raw, err := t.entry(ref)
	if err != nil {
		return "", false
	}
	s, err := t.text(ref, raw)
	return s, err == nil
}

func (t *Table) entry(ref uint32) ([]byte, error) {
	if uint64(ref) >= uint64(t.count) {
		return nil, types.Errorf(types.ErrKindNotFound, "tlk: strref %d out of range (%d entries)", ref, t.count)
	}
	off := HeaderSize + int(ref)*EntrySize
	return t.data[off : off+EntrySize], nil
}

func (t *Table) text(ref uint32, raw []byte) (string, error) {
	if s, ok := t.cache.Get(ref); ok {
		return s, nil
	}
	off := int(buf.U32LE(raw[0x12:]))
	n := int(buf.U32LE(raw[0x16:]))
	start, ok := buf.AddOverflowSafe(t.base, off)
	if !ok {
		return "", types.Errorf(types.ErrKindMalformed, "tlk: strref %d: string offset overflows", ref)
	}
	b, ok := buf.Slice(t.data, start, n)
	if !ok {
		return "", types.Wrap(types.ErrKindMalformed,
			fmt.Sprintf("tlk: strref %d: %d bytes at 0x%X", ref, n, start), format.ErrTruncated)
	}
	s := format.DecodeText(b)
	t.cache.Add(ref, s)
	return s, nil
}
