package formats

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/resource"
)

// creLayout describes where creFixture placed things, relative to the
// start of the CRE.
type creLayout struct {
	header   int // end of the header, start of the known spells
	memInfo  int
	memSpell int
	effects  int
	items    int
	slots    int
	size     int
}

func layoutCRE(shift, effSize, slotsSize int) creLayout {
	l := creLayout{header: 0x2D4 + shift}
	l.memInfo = l.header + 12
	l.memSpell = l.memInfo + 16
	l.effects = l.memSpell + 2*12
	l.items = l.effects + effSize
	l.slots = l.items + 2*20
	l.size = l.slots + slotsSize
	return l
}

// creFixture builds a creature with one known spell, one memorization
// entry owning two memorized spells, one effect, two items and the item
// slot block.
func creFixture(version string, shift, slotsSize int, effVersion byte) []byte {
	effSize := 48
	if effVersion == 1 {
		effSize = 264
	}
	l := layoutCRE(shift, effSize, slotsSize)
	w := testfix.New(l.size).Tag(0, "CRE ", version)
	w.U32(0x08, 0xFFFFFFFF).U32(0x0C, 0xFFFFFFFF)
	w.U16(0x24, 12).U16(0x26, 14)
	w.U8(0x33, effVersion)
	w.Text(0x280+shift, 32, "My Guard")

	refs := 0x2A0 + shift
	w.U32(refs+0x00, uint32(l.header)).U32(refs+0x04, 1)
	w.U32(refs+0x08, uint32(l.memInfo)).U32(refs+0x0C, 1)
	w.U32(refs+0x10, uint32(l.memSpell)).U32(refs+0x14, 2)
	w.U32(refs+0x18, uint32(l.slots))
	w.U32(refs+0x1C, uint32(l.items)).U32(refs+0x20, 2)
	w.U32(refs+0x24, uint32(l.effects)).U32(refs+0x28, 1)

	w.Text(l.header, 8, "SPWI112").U16(l.header+8, 0).U16(l.header+10, 1)
	w.U16(l.memInfo, 0).U16(l.memInfo+2, 2).U16(l.memInfo+4, 2).U16(l.memInfo+6, 1)
	w.U32(l.memInfo+8, 0).U32(l.memInfo+12, 2)
	w.Text(l.memSpell, 8, "SPWI112").U16(l.memSpell+8, 1)
	w.Text(l.memSpell+12, 8, "SPWI113").U16(l.memSpell+20, 1)
	if effVersion == 1 {
		w.Text(l.effects, 4, "").Text(l.effects+4, 4, "V2.0")
		w.U32(l.effects+8, 0x3E)
	} else {
		w.U16(l.effects, 0x3E)
	}
	w.Text(l.items, 8, "SW1H01").U16(l.items+10, 1)
	w.Text(l.items+20, 8, "POTN08").U16(l.items+30, 5)
	w.Fill(l.slots, slotsSize-6, 0xFF)
	w.U16(l.slots+2, 1)
	return w.Bytes()
}

func creV10Fixture() []byte { return creFixture("V1.0", 0, 80, 0) }

// chrFixture wraps cre in a CHR envelope whose header ends at creAt.
func chrFixture(version string, creAt int, cre []byte) []byte {
	w := testfix.New(creAt).Tag(0, "CHR ", version)
	w.Text(0x08, 32, "Imoen")
	w.U32(0x28, uint32(creAt)).U32(0x2C, uint32(len(cre)))
	w.Put(creAt, cre)
	return w.Bytes()
}

// gamFixture is a V2.0 save with one party member whose CRE follows its
// NPC record, and one global variable after the CRE. Empty sections point
// at the end.
func gamFixture(npcSize int, cre []byte) []byte {
	const header = 0xB4
	creAt := header + npcSize
	globals := creAt + len(cre)
	end := globals + 84

	w := testfix.New(end).Tag(0, "GAME", "V2.0")
	w.U32(0x18, 1000)
	w.U32(0x20, header).U32(0x24, 1)
	w.U32(0x30, uint32(globals))
	w.U32(0x38, uint32(globals)).U32(0x3C, 1)
	w.U32(0x50, uint32(end))
	w.U32(0x6C, uint32(end))
	w.U32(0x78, uint32(end))

	w.U16(header, 0x8001)
	w.U32(header+4, uint32(creAt)).U32(header+8, uint32(len(cre)))
	w.Text(header+12, 8, "*IMOEN")
	w.Put(creAt, cre)

	w.Text(globals, 32, "CHAPTER").U32(globals+0x28, 2)
	return w.Bytes()
}

func readFormat(t *testing.T, data []byte, opts ...resource.Option) *resource.Document {
	t.Helper()
	d, err := Read(data, opts...)
	require.NoError(t, err)
	return d
}

func mustResolve(t *testing.T, d *resource.Document, path string) *resource.Node {
	t.Helper()
	n, err := d.Resolve(path)
	require.NoError(t, err)
	return n
}

func fieldValue(t *testing.T, n *resource.Node, name string) int64 {
	t.Helper()
	f, ok := n.Field(name)
	require.True(t, ok, "field %q on %q", name, n.Label())
	return f.Int()
}

func mustBytes(t *testing.T, d *resource.Document) []byte {
	t.Helper()
	out, err := d.Bytes()
	require.NoError(t, err)
	return out
}

// requirePacked checks that consecutive fields tile the document exactly.
func requirePacked(t *testing.T, d *resource.Document) {
	t.Helper()
	leaves := d.Leaves()
	for i := 1; i < len(leaves); i++ {
		require.Equal(t, leaves[i-1].End(), leaves[i].Offset(),
			"%q ends at 0x%x, %q starts at 0x%x", leaves[i-1].Name(), leaves[i-1].End(), leaves[i].Name(), leaves[i].Offset())
	}
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
