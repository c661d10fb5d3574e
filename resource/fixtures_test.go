package resource

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// A small spell-shaped format: 100-byte header, 40-byte abilities, and one
// region of 48-byte effects addressed by index from the header (global
// effects) and from each ability.

var testEffect = &schema.Program{
	Kind:  "effect",
	Label: "Effect",
	Steps: []schema.Step{
		schema.Unsigned(0, 2, "Opcode"),
		schema.Opaque(2, 46, "Body"),
	},
}

var testAbility = &schema.Program{
	Kind:  "ability",
	Label: "Ability",
	Steps: []schema.Step{
		schema.Enum(0, 2, "Type", schema.List("type", "Default", "Melee", "Ranged")),
		schema.Opaque(2, 28, "Data"),
		schema.CountRef(30, 2, "# effects", "effect", schema.ScopeDirect),
		schema.IndexRef(32, 2, "First effect index", "effect"),
		schema.Opaque(34, 6, "Tail"),
		schema.Sect(&schema.Section{
			Label: "Effect", Kind: "effect", Child: testEffect,
			Index: "First effect index", Count: "# effects", Region: "Effects offset",
			Mutable: true,
		}),
	},
}

var testRecord = &schema.Program{
	Kind:  "tst",
	Label: "TST",
	Steps: []schema.Step{
		schema.Text(0, 4, "Signature"),
		schema.Text(4, 4, "Version"),
		schema.OffsetRef(8, 4, "Abilities offset", "ability", schema.ScopeDirect),
		schema.CountRef(12, 2, "# abilities", "ability", schema.ScopeDirect),
		schema.OffsetRef(14, 4, "Effects offset", "effect", schema.ScopeDeep),
		schema.CountRef(18, 2, "# global effects", "effect", schema.ScopeDirect),
		schema.IndexRef(20, 2, "Global effect index", "effect"),
		schema.Opaque(22, 78, "Reserved"),
		schema.Sect(&schema.Section{
			Label: "Ability", Kind: "ability", Child: testAbility,
			Offset: "Abilities offset", Count: "# abilities", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Global effect", Kind: "effect", Child: testEffect,
			Index: "Global effect index", Count: "# global effects", Region: "Effects offset",
			Mutable: true,
		}),
	},
}

var testNote = &schema.Program{
	Kind:  "note",
	Label: "Note",
	Steps: []schema.Step{schema.Unsigned(0, 4, "Value")},
}

// An envelope: 32-byte header, a list of 4-byte notes, then an embedded
// TST record.
var testEnvelope = &schema.Program{
	Kind:  "env",
	Label: "ENV",
	Steps: []schema.Step{
		schema.Text(0, 4, "Signature"),
		schema.Text(4, 4, "Version"),
		schema.Text(8, 8, "Name"),
		schema.OffsetRef(16, 4, "Record offset", "tst", schema.ScopeDirect),
		schema.SizeRef(20, 4, "Record size", "tst"),
		schema.OffsetRef(24, 4, "Notes offset", "note", schema.ScopeDirect),
		schema.CountRef(28, 4, "# notes", "note", schema.ScopeDirect),
		schema.Sect(&schema.Section{
			Label: "Note", Kind: "note", Child: testNote,
			Offset: "Notes offset", Count: "# notes", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Record", Kind: "tst", Offset: "Record offset",
			Embed: true, Signatures: []string{"TST "}, SkipZero: true,
			Mutable: true, ZeroWhenEmpty: true,
		}),
	},
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	r.Register("TST ", "V1  ", testRecord)
	r.Register("ENV ", "V1  ", testEnvelope)
	require.NoError(t, r.Validate())
	return r
}

// tstFixture: abilities (2, 100), a 160-byte gap, effects at 340.
// Ability 0 owns effect 0, ability 1 owns effect 1, no global effects.
func tstFixture() []byte {
	w := testfix.New(436).Tag(0, "TST ", "V1  ").
		U32(8, 100).U16(12, 2).U32(14, 340).U16(18, 0).U16(20, 2).
		Fill(22, 78, 0xAA)
	w.U16(100, 1).U16(130, 1).U16(132, 0).Fill(134, 6, 0x11)
	w.U16(140, 2).U16(170, 1).U16(172, 1).Fill(174, 6, 0x22)
	w.Fill(180, 160, 0xCC)
	w.U16(340, 12).Fill(342, 46, 0x33)
	w.U16(388, 13).Fill(390, 46, 0x44)
	return w.Bytes()
}

// envFixture wraps tstFixture at recordAt with two notes at 32.
func envFixture(recordAt int, ver string) []byte {
	rec := tstFixture()
	copy(rec[4:8], ver)
	return testfix.New(recordAt).Tag(0, "ENV ", "V1  ").Text(8, 8, "alpha").
		U32(16, uint32(recordAt)).U32(20, uint32(len(rec))).
		U32(24, 32).U32(28, 2).U32(32, 7).U32(36, 8).
		Put(recordAt, rec).Bytes()
}

// paddedEnvFixture is envFixture with pad bytes of 0xEE after the record,
// counted in the declared record size.
func paddedEnvFixture(recordAt, pad int) []byte {
	rec := testfix.New(0).Put(0, tstFixture()).Fill(436, pad, 0xEE).Bytes()
	return testfix.New(recordAt).Tag(0, "ENV ", "V1  ").Text(8, 8, "alpha").
		U32(16, uint32(recordAt)).U32(20, uint32(len(rec))).
		U32(24, 32).U32(28, 2).U32(32, 7).U32(36, 8).
		Put(recordAt, rec).Bytes()
}

func readTest(t *testing.T, data []byte, opts ...Option) *Document {
	t.Helper()
	opts = append([]Option{WithRegistry(testRegistry(t))}, opts...)
	d, err := Read(data, 0, opts...)
	require.NoError(t, err)
	return d
}

func mustResolve(t *testing.T, d *Document, path string) *Node {
	t.Helper()
	n, err := d.Resolve(path)
	require.NoError(t, err)
	return n
}

func fieldValue(t *testing.T, n *Node, name string) int64 {
	t.Helper()
	f, ok := n.Field(name)
	require.True(t, ok, "field %q on %q", name, n.Label())
	return f.Int()
}

func mustBytes(t *testing.T, d *Document) []byte {
	t.Helper()
	out, err := d.Bytes()
	require.NoError(t, err)
	return out
}

// requirePacked checks that consecutive fields tile the document exactly.
func requirePacked(t *testing.T, d *Document) {
	t.Helper()
	leaves := d.Leaves()
	for i := 1; i < len(leaves); i++ {
		require.Equal(t, leaves[i-1].End(), leaves[i].Offset(),
			"%q ends at 0x%x, %q starts at 0x%x", leaves[i-1].Name(), leaves[i-1].End(), leaves[i].Name(), leaves[i].Offset())
	}
}

type stringTable map[uint32]string

func (s stringTable) String(ref uint32) (string, bool) {
	v, ok := s[ref]
	return v, ok
}

var _ types.StringTable = stringTable(nil)
