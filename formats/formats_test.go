package formats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/schema"
)

func TestDefault_Validates(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	require.NoError(t, r.Validate())
	assert.Same(t, r, Default())

	want := []schema.Key{
		{Signature: "CHR ", Version: "V1.0"},
		{Signature: "CHR ", Version: "V2.0"},
		{Signature: "CHR ", Version: "V2.1"},
		{Signature: "CHR ", Version: "V2.2"},
		{Signature: "CHUI", Version: "V1  "},
		{Signature: "CRE ", Version: "V1.0"},
		{Signature: "CRE ", Version: "V1.1"},
		{Signature: "CRE ", Version: "V1.2"},
		{Signature: "CRE ", Version: "V9.0"},
		{Signature: "GAME", Version: "V1.1"},
		{Signature: "GAME", Version: "V2.0"},
		{Signature: "ITM ", Version: "V1  "},
		{Signature: "SPL ", Version: "V1  "},
		{Signature: "STOR", Version: "V1.0"},
	}
	assert.Equal(t, want, r.Keys())
}

func TestRead_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts []resource.Option
	}{
		{"cre v1.0", creV10Fixture(), nil},
		{"cre v1.0 effect v2", creFixture("V1.0", 0, 80, 1), nil},
		{"cre v1.1", creFixture("V1.1", creShiftPST, 80, 0), nil},
		{"cre v1.2", creFixture("V1.2", creShiftPST, 96, 0), nil},
		{"cre v9.0", creFixture("V9.0", creShiftIWD, 80, 0), nil},
		{"chr v2.0", chrFixture("V2.0", 0x64, creV10Fixture()), nil},
		{"chr v2.2", chrFixture("V2.2", 0x224, creV10Fixture()), nil},
		{"chu", chuNamedFixture(), nil},
		{"spl", splFixture(), nil},
		{"itm", itmFixture(), nil},
		{"gam bg2", gamFixture(352, creV10Fixture()), nil},
		{"gam pst", gamFixture(360, creV10Fixture()), []resource.Option{resource.WithEngine(types.EnginePST)}},
		{"gam iwd", gamFixture(384, creV10Fixture()), []resource.Option{resource.WithEngine(types.EngineIWD)}},
		{"sto", stoFixture(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := readFormat(t, tt.data, tt.opts...)
			assert.Equal(t, tt.data, mustBytes(t, d))
			requirePacked(t, d)
		})
	}
}

func TestRead_UnsupportedVersion(t *testing.T) {
	data := testfix.New(0x2D4).Tag(0, "CRE ", "V9.9").Bytes()

	d, err := Read(data)
	require.Error(t, err)
	assert.Nil(t, d)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindUnsupported, kind)
}

func TestCHR_EmbeddedOffsetsAreRelative(t *testing.T) {
	cre := creV10Fixture()
	tests := []struct {
		version string
		creAt   int
	}{
		{"V1.0", 0x64},
		{"V2.0", 0x64},
		{"V2.1", 0x64},
		{"V2.2", 0x224},
		{"V2.0", 0x80},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d := readFormat(t, chrFixture(tt.version, tt.creAt, cre))
			root := d.Root()
			assert.Equal(t, int64(tt.creAt), fieldValue(t, root, "CRE offset"))
			assert.Equal(t, int64(len(cre)), fieldValue(t, root, "CRE size"))

			n := mustResolve(t, d, "CRE")
			assert.True(t, n.IsRecord())
			assert.Equal(t, tt.creAt, n.Extra())
			assert.Equal(t, int64(0x2D4), fieldValue(t, n, "Known spells offset"))
			assert.Equal(t, int64(0x2D4+92+48), fieldValue(t, n, "Item slots offset"))
			assert.Equal(t, tt.creAt+0x2D4, mustResolve(t, d, "CRE/Known spell 0").Offset())

			x, err := ExtractCRE(d)
			require.NoError(t, err)
			assert.Equal(t, cre, mustBytes(t, x))
		})
	}
}

func TestCHR_InsertIntoEmbeddedCRE(t *testing.T) {
	cre := creV10Fixture()
	d := readFormat(t, chrFixture("V2.0", 0x64, cre))
	n := mustResolve(t, d, "CRE")

	_, err := d.Insert(n.ID(), KindCREItem, 2)
	require.NoError(t, err)

	l := layoutCRE(0, 48, 80)
	assert.Equal(t, int64(len(cre)+20), fieldValue(t, d.Root(), "CRE size"))
	assert.Equal(t, int64(0x64), fieldValue(t, d.Root(), "CRE offset"))
	assert.Equal(t, int64(3), fieldValue(t, n, "# items"))
	assert.Equal(t, int64(l.slots+20), fieldValue(t, n, "Item slots offset"))
	assert.Equal(t, int64(l.items), fieldValue(t, n, "Items offset"))

	out := mustBytes(t, d)
	require.Len(t, out, 0x64+len(cre)+20)
	assert.Equal(t, uint32(len(cre)+20), testfix.U32At(out, 0x2C))
	requirePacked(t, d)
}

func TestCHR_PaddedCREMovesWhole(t *testing.T) {
	cre := creV10Fixture()
	padded := testfix.New(0).Put(0, cre).Fill(len(cre), 8, 0xEE).Bytes()
	data := chrFixture("V2.0", 0x64, padded)

	d := readFormat(t, data)
	n := mustResolve(t, d, "CRE")
	assert.Equal(t, len(padded), n.Size())
	assert.Equal(t, int64(len(padded)), fieldValue(t, d.Root(), "CRE size"))

	_, err := d.Insert(n.ID(), KindCREItem, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(len(padded)+20), fieldValue(t, d.Root(), "CRE size"))
	requirePacked(t, d)

	ex, err := ExtractCRE(d)
	require.NoError(t, err)
	out := mustBytes(t, ex)
	require.Len(t, out, len(padded)+20)
	assert.Equal(t, padded[len(cre):], out[len(cre)+20:])

	require.NoError(t, d.Remove(n.ID()))
	assert.Len(t, mustBytes(t, d), 0x64)
}

func TestCHR_RemoveCREZeroesReferences(t *testing.T) {
	d := readFormat(t, chrFixture("V2.0", 0x64, creV10Fixture()))
	require.NoError(t, d.Remove(mustResolve(t, d, "CRE").ID()))

	assert.Equal(t, int64(0), fieldValue(t, d.Root(), "CRE offset"))
	assert.Equal(t, int64(0), fieldValue(t, d.Root(), "CRE size"))
	assert.Len(t, mustBytes(t, d), 0x64)

	_, err := ExtractCRE(d)
	kind, _ := types.KindOf(err)
	assert.Equal(t, types.ErrKindNotFound, kind)
}

func TestCHR_GraftCRE(t *testing.T) {
	cre := creV10Fixture()
	d := readFormat(t, chrFixture("V2.0", 0x64, cre))
	require.NoError(t, d.Remove(mustResolve(t, d, "CRE").ID()))

	src := readFormat(t, cre)
	_, err := d.Graft(d.Root().ID(), 0, src)
	require.NoError(t, err)

	assert.Equal(t, chrFixture("V2.0", 0x64, cre), mustBytes(t, d))
}

func TestScriptName_Versions(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		opts []resource.Option
	}{
		{"cre v1.0", creV10Fixture(), nil},
		{"cre v1.2", creFixture("V1.2", creShiftPST, 96, 0), nil},
		{"cre v9.0", creFixture("V9.0", creShiftIWD, 80, 0), nil},
		{"chr", chrFixture("V2.0", 0x64, creV10Fixture()), nil},
		{"gam", gamFixture(352, creV10Fixture()), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := ScriptName(readFormat(t, tt.data, tt.opts...))
			require.True(t, ok)
			assert.Equal(t, "myguard", name)
		})
	}

	_, ok := ScriptName(readFormat(t, stoFixture()))
	assert.False(t, ok)
}

func TestNormalizeScriptName(t *testing.T) {
	assert.Equal(t, "myguard", NormalizeScriptName("My Guard"))
	assert.Equal(t, "imoen2", NormalizeScriptName(" IMOEN 2 "))
	assert.Equal(t, "", NormalizeScriptName(""))
}

func TestReadFile_UsesDefaultRegistry(t *testing.T) {
	path := t.TempDir() + "/guard.cre"
	data := creV10Fixture()
	require.NoError(t, writeFile(path, data))

	d, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindCRE, d.Root().Kind())

	var buf bytes.Buffer
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}
