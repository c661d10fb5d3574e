package main

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/formats"
	"github.com/joshuapare/iekit/internal/testfix"
)

func TestFixtures_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		size int
	}{
		{"spl", splBytes(), 0xC2 + 3*48},
		{"cre", creBytes("guard"), creHeader + slotsSize},
		{"chr", chrBytes("imoen"), 0x64 + creHeader + slotsSize},
		{"sto", stoBytes(), 0x9C + 3*28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.data, tt.size)
			doc, err := formats.Read(tt.data)
			require.NoError(t, err)
			out, err := doc.Bytes()
			require.NoError(t, err)
			assert.Equal(t, tt.data, out)
		})
	}
}

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		data        []byte
		json        bool
		wantContain []string
	}{
		{
			name: "creature",
			file: "GUARD.CRE",
			data: creBytes("Guard One"),
			wantContain: []string{
				"Type: CRE V1.0", "Size: 804 B (804 bytes)", "Script name: guardone", "cre.itemslots",
			},
		},
		{
			name:        "envelope",
			file:        "IMOEN.CHR",
			data:        chrBytes("imoen"),
			wantContain: []string{"Type: CHR V1.0", "Embedded records:", "CRE V1.0 @0x64 (804 B)"},
		},
		{
			name:        "spell as JSON",
			file:        "SPWI112.SPL",
			data:        splBytes(),
			json:        true,
			wantContain: []string{`"signature": "SPL "`, `"spl.ability": 2`, `"effect": 3`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			jsonOut = tt.json
			path := writeFixture(t, tt.file, tt.data)

			out, err := captureOutput(t, func() error { return runInfo([]string{path}) })
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			if tt.json {
				var info resourceInfo
				decodeJSON(t, out, &info)
				assert.Equal(t, len(tt.data), info.Size)
			}
		})
	}
}

func TestInfoCommand_Unsupported(t *testing.T) {
	resetFlags()
	path := writeFixture(t, "X.BAM", []byte("BAM V2  and more"))
	_, err := captureOutput(t, func() error { return runInfo([]string{path}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestDumpCommand(t *testing.T) {
	path := writeFixture(t, "SPWI112.SPL", splBytes())

	tests := []struct {
		name           string
		setup          func()
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:        "full tree",
			setup:       func() {},
			wantContain: []string{"[SPL] @0x0 SPL V1", "[Spell ability 1] @0x9A", `"# abilities"`},
		},
		{
			name:           "structure only",
			setup:          func() { dumpNoFields = true },
			wantContain:    []string{"[Spell ability 0]", "[Effect"},
			wantNotContain: []string{`"# abilities"`},
		},
		{
			name:           "subtree",
			setup:          func() { dumpPath = "spell ability 1"; dumpKinds = true },
			wantContain:    []string{"[Spell ability 1] @0x9A <spl.ability>"},
			wantNotContain: []string{"[SPL]", "[Spell ability 0]"},
		},
		{
			name:           "node only",
			setup:          func() { dumpPath = "Spell ability 0"; dumpNodeOnly = true },
			wantContain:    []string{"[Spell ability 0]"},
			wantNotContain: []string{"[Effect"},
		},
		{
			name:           "depth",
			setup:          func() { dumpDepth = 1 },
			wantContain:    []string{"[SPL]"},
			wantNotContain: []string{"[Spell ability"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			tt.setup()
			out, err := captureOutput(t, func() error { return runDump([]string{path}) })
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			for _, dont := range tt.wantNotContain {
				assert.NotContains(t, out, dont)
			}
		})
	}
}

func TestDumpCommand_JSON(t *testing.T) {
	resetFlags()
	jsonOut = true
	path := writeFixture(t, "SPWI112.SPL", splBytes())

	out, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)

	var tree struct {
		Label    string `json:"label"`
		Children []struct {
			Label string `json:"label"`
		} `json:"children"`
	}
	decodeJSON(t, out, &tree)
	assert.Equal(t, "SPL", tree.Label)
	assert.NotEmpty(t, tree.Children)
}

func TestVerifyCommand(t *testing.T) {
	resetFlags()
	good := writeFixture(t, "IMOEN.CHR", chrBytes("imoen"))
	out, err := captureOutput(t, func() error { return runVerify([]string{good}) })
	require.NoError(t, err)
	assert.Contains(t, out, "no problems found")

	data := chrBytes("imoen")
	binary.LittleEndian.PutUint32(data[0x2C:], 900)
	bad := writeFixture(t, "BAD.CHR", data)

	out, err = captureOutput(t, func() error { return runVerify([]string{bad}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s)")
	assert.Contains(t, out, `"CRE size"`)
	assert.Contains(t, out, "is 900, tree implies 804")

	jsonOut = true
	out, err = captureOutput(t, func() error { return runVerify([]string{bad}) })
	require.Error(t, err)
	var result verifyResult
	decodeJSON(t, out, &result)
	assert.False(t, result.Valid)
	assert.Len(t, result.Problems, 1)
}

func TestRoundtripCommand(t *testing.T) {
	resetFlags()
	files := []string{
		writeFixture(t, "A.SPL", splBytes()),
		writeFixture(t, "B.CHR", chrBytes("b")),
		writeFixture(t, "C.STO", stoBytes()),
	}
	out, err := captureOutput(t, func() error { return runRoundtrip(files) })
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "✓"))

	junk := writeFixture(t, "D.XYZ", []byte("XYZ V1  "))
	out, err = captureOutput(t, func() error { return runRoundtrip(append(files, junk)) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4")
	assert.Contains(t, out, "✗ "+junk)
}

func TestFirstDiff(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"abc", "abc", -1},
		{"abc", "abd", 2},
		{"abc", "ab", 2},
		{"", "x", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, firstDiff([]byte(tt.a), []byte(tt.b)), "%q vs %q", tt.a, tt.b)
	}
}

func TestAddRemoveCommand_InPlace(t *testing.T) {
	resetFlags()
	original := splBytes()
	path := writeFixture(t, "SPWI112.SPL", original)
	ctx := context.Background()

	out, err := captureOutput(t, func() error { return runAdd(ctx, []string{path, "", "spl.ability"}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Added Spell ability 2 at 0xC2 (40 bytes)")

	grown, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, grown, len(original)+40)
	assert.Equal(t, uint16(3), testfix.U16At(grown, 0x68))
	assert.Equal(t, uint32(0xC2+40), testfix.U32At(grown, 0x6A))

	out, err = captureOutput(t, func() error { return runRemove(ctx, []string{path, "Spell ability 2"}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Removed Spell ability 2 (40 bytes)")

	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestAddCommand_Output(t *testing.T) {
	resetFlags()
	original := splBytes()
	path := writeFixture(t, "SPWI112.SPL", original)
	addOutput = filepath.Join(t.TempDir(), "OUT.SPL")
	addIndex = 0

	_, err := captureOutput(t, func() error {
		return runAdd(context.Background(), []string{path, "Spell ability 0", "effect"})
	})
	require.NoError(t, err)

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, unchanged)

	edited, err := os.ReadFile(addOutput)
	require.NoError(t, err)
	assert.Len(t, edited, len(original)+48)
	// Ability 0 now owns two effects; ability 1's first index moved to 2.
	assert.Equal(t, uint16(2), testfix.U16At(edited, 0x72+30))
	assert.Equal(t, uint16(3), testfix.U16At(edited, 0x72+40+32))
}

func TestAddCommand_ListsKinds(t *testing.T) {
	resetFlags()
	path := writeFixture(t, "SPWI112.SPL", splBytes())
	out, err := captureOutput(t, func() error { return runAdd(context.Background(), []string{path, ""}) })
	require.NoError(t, err)
	assert.Contains(t, out, "SPL accepts:")
	assert.Contains(t, out, "spl.ability")
}

func TestAddCommand_Rejected(t *testing.T) {
	resetFlags()
	original := splBytes()
	path := writeFixture(t, "SPWI112.SPL", original)

	_, err := captureOutput(t, func() error { return runAdd(context.Background(), []string{path, "", "cre.item"}) })
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestRemoveThenGraftCRE(t *testing.T) {
	resetFlags()
	original := chrBytes("imoen")
	chr := writeFixture(t, "IMOEN.CHR", original)
	cre := writeFixture(t, "IMOEN.CRE", creBytes("imoen"))
	ctx := context.Background()

	_, err := captureOutput(t, func() error { return runRemove(ctx, []string{chr, "CRE"}) })
	require.NoError(t, err)
	bare, err := os.ReadFile(chr)
	require.NoError(t, err)
	require.Len(t, bare, 0x64)
	assert.Zero(t, testfix.U32At(bare, 0x28))
	assert.Zero(t, testfix.U32At(bare, 0x2C))

	addFrom = cre
	out, err := captureOutput(t, func() error { return runAdd(ctx, []string{chr, ""}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Added CRE at 0x64")

	restored, err := os.ReadFile(chr)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestExtractCommand(t *testing.T) {
	resetFlags()
	chr := writeFixture(t, "IMOEN.CHR", chrBytes("imoen"))
	extractOutput = filepath.Join(t.TempDir(), "IMOEN.CRE")

	out, err := captureOutput(t, func() error { return runExtract([]string{chr}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Extracted 804 bytes")

	got, err := os.ReadFile(extractOutput)
	require.NoError(t, err)
	assert.Equal(t, creBytes("imoen"), got)

	resetFlags()
	_, err = captureOutput(t, func() error { return runExtract([]string{chr}) })
	assert.Error(t, err)
}

func TestSortStoreCommand(t *testing.T) {
	resetFlags()
	path := writeFixture(t, "BAG01.STO", stoBytes())

	out, err := captureOutput(t, func() error { return runSortStore(context.Background(), []string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Sorted 3 item(s)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, len(stoBytes()))
	doc, err := formats.Read(data)
	require.NoError(t, err)
	var names []string
	for _, n := range doc.ChildrenOf(doc.Root().ID(), formats.KindSaleItem) {
		f, ok := n.Field("Item")
		require.True(t, ok)
		names = append(names, f.ResRef())
	}
	assert.Equal(t, []string{"AROW01", "POTN08", "SW1H02"}, names)
}

func TestTLKCommand(t *testing.T) {
	resetFlags()
	path := writeFixture(t, "dialog.tlk", tlkBytes())

	out, err := captureOutput(t, func() error { return runTLK([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 2")

	out, err = captureOutput(t, func() error { return runTLK([]string{path, "0", "1"}) })
	require.NoError(t, err)
	assert.Contains(t, out, "0 Imoen\n")
	assert.Contains(t, out, "1 [IMOEN01] Hey\n")

	_, err = captureOutput(t, func() error { return runTLK([]string{path, "x"}) })
	assert.Error(t, err)
	_, err = captureOutput(t, func() error { return runTLK([]string{path, "7"}) })
	assert.Error(t, err)
}

func TestDumpCommand_ResolvesStrings(t *testing.T) {
	resetFlags()
	tlkPath = writeFixture(t, "dialog.tlk", tlkBytes())
	data := splBytes()
	binary.LittleEndian.PutUint32(data[0x08:], 0)
	path := writeFixture(t, "SPWI112.SPL", data)
	dumpNodeOnly = true

	out, err := captureOutput(t, func() error { return runDump([]string{path}) })
	require.NoError(t, err)
	assert.Contains(t, out, "Imoen (0)")
}

func TestIndexCommand(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "imoen2.cre"), creBytes("Imoen 2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "IMOEN.CHR"), chrBytes("imoen2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "GUARD.CRE"), creBytes("guard"), 0o644))

	out, err := captureOutput(t, func() error { return runIndex(context.Background(), []string{dir}) })
	require.NoError(t, err)
	assert.Contains(t, out, "guard: GUARD.CRE\n")
	assert.Contains(t, out, "imoen2: IMOEN.CHR, IMOEN2.CRE\n")

	indexLookup = "Imoen 2"
	jsonOut = true
	out, err = captureOutput(t, func() error { return runIndex(context.Background(), []string{dir}) })
	require.NoError(t, err)
	var got map[string][]string
	decodeJSON(t, out, &got)
	assert.Equal(t, []string{"IMOEN.CHR", "IMOEN2.CRE"}, got["Imoen 2"])
}

func TestCodecCommands(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	src := writeFixture(t, "SPWI112.SPL", splBytes())
	packed := filepath.Join(dir, "SPWI112.SPL.z")
	unpacked := filepath.Join(dir, "SPWI112.out")

	_, err := captureOutput(t, func() error { return runDeflate([]string{src, packed}) })
	require.NoError(t, err)

	inflateSize = len(splBytes())
	_, err = captureOutput(t, func() error { return runInflate([]string{packed, unpacked}) })
	require.NoError(t, err)

	got, err := os.ReadFile(unpacked)
	require.NoError(t, err)
	assert.Equal(t, splBytes(), got)

	inflateSize = 3
	_, err = captureOutput(t, func() error { return runInflate([]string{packed, unpacked}) })
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	path := filepath.Join(dir, "iectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`engine: bg2
override_dir: /games/override
tlk: /games/dialog.tlk
tolerant: true
log:
  enabled: false
  level: debug
`), 0o644))

	p, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "bg2", p.Engine)
	assert.Equal(t, "/games/override", p.OverrideDir)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVar(&engineName, "engine", "", "")
	flags.StringVar(&tlkPath, "tlk", "", "")
	require.NoError(t, flags.Parse([]string{"--engine", "pst"}))

	applyProfile(flags, p)
	assert.Equal(t, "pst", engineName, "flags win over the profile")
	assert.Equal(t, "/games/override", overrideDir)
	assert.Equal(t, "/games/dialog.tlk", tlkPath)
	assert.True(t, tolerant)

	level, err := p.Log.level()
	require.NoError(t, err)
	assert.Equal(t, "DEBUG", level.String())
}

func TestProfile_Errors(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("engin: bg2\n"), 0o644))
	_, err := loadProfile(unknown)
	assert.Error(t, err)

	_, err = loadProfile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = loadProfile(empty)
	assert.NoError(t, err)

	_, err = LogProfile{Level: "loud"}.level()
	assert.Error(t, err)
}

func TestReadOptions_UnknownEngine(t *testing.T) {
	resetFlags()
	engineName = "baldur"
	_, cleanup, err := readOptions()
	defer cleanup()
	assert.Error(t, err)
}
