package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/pkg/types"
)

// stoFixture sells three items, one drink and one cure.
//
//	0x9C  items for sale, 28 bytes each
//	0xF0  drinks, 20 bytes
//	0x104 cures, 12 bytes
func stoFixture() []byte {
	w := testfix.New(0x9C).Tag(0, "STOR", "V1.0")
	w.U32(0x08, 2).U32(0x0C, 0xFFFFFFFF).U32(0x14, 150).U32(0x18, 50)
	w.U32(0x2C, 0x9C)
	w.U32(0x34, 0x9C).U32(0x38, 3)
	w.U32(0x4C, 0xF0).U32(0x50, 1)
	w.U32(0x70, 0x104).U32(0x74, 1)
	for i, name := range []string{"sw1h02", "AROW01", "POTN08"} {
		it := 0x9C + i*28
		w.Text(it, 8, name).U16(it+0x0A, uint16(i+1)).U32(it+0x14, 5)
	}
	w.Text(0xF0, 8, "RBEER").U32(0xF8, 1234).U32(0xFC, 3)
	w.Text(0x104, 8, "SPPR103").U32(0x10C, 100)
	return w.Bytes()
}

func saleItems(t *testing.T, out []byte) []string {
	t.Helper()
	d := readFormat(t, out)
	var names []string
	for _, n := range d.ChildrenOf(d.Root().ID(), KindSaleItem) {
		names = append(names, itemName(n))
	}
	return names
}

func TestSortStoreItems(t *testing.T) {
	data := stoFixture()
	d := readFormat(t, data)

	require.NoError(t, SortStoreItems(d))

	out := mustBytes(t, d)
	require.Len(t, out, len(data))
	assert.Equal(t, []string{"AROW01", "POTN08", "SW1H02"}, saleItems(t, out))
	assert.Equal(t, uint32(0x9C), testfix.U32At(out, 0x34))
	assert.Equal(t, data[0xF0:], out[0xF0:], "drinks and cures stay in place")

	// Charges travel with their item.
	assert.Equal(t, uint16(2), testfix.U16At(out, 0x9C+0x0A))
	assert.Equal(t, uint16(3), testfix.U16At(out, 0x9C+28+0x0A))
	assert.Equal(t, uint16(1), testfix.U16At(out, 0x9C+56+0x0A))

	assert.Equal(t, "Item for sale 0", mustResolve(t, d, "Item for sale 0").Label())
	f, ok := mustResolve(t, d, "Item for sale 0").Field("Item")
	require.True(t, ok)
	assert.Equal(t, "AROW01", f.ResRef())

	require.NoError(t, SortStoreItems(d))
	assert.Equal(t, out, mustBytes(t, d))
}

func TestSortStoreItems_NotAStore(t *testing.T) {
	d := readFormat(t, creV10Fixture())
	err := SortStoreItems(d)
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindState, kind)
}

func TestSTO_InsertCure(t *testing.T) {
	d := readFormat(t, stoFixture())
	root := d.Root()

	_, err := d.Insert(root.ID(), KindCure, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fieldValue(t, root, "# cures for sale"))
	assert.Equal(t, int64(0x104), fieldValue(t, root, "Cures for sale offset"))
	f, ok := mustResolve(t, d, "Cure for sale 1").Field("Spell")
	require.True(t, ok)
	assert.Equal(t, "SPPR103", f.ResRef())

	_, err = d.Insert(root.ID(), KindPurchased, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fieldValue(t, root, "# items purchased"))
	assert.Equal(t, int64(0x9C), fieldValue(t, root, "Items purchased offset"))
	assert.Equal(t, int64(0xA0), fieldValue(t, root, "Items for sale offset"))
	assert.Equal(t, int64(0xF4), fieldValue(t, root, "Drinks for sale offset"))
	requirePacked(t, d)
}
