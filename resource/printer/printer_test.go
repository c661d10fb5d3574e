package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/iekit/internal/testfix"
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/schema"
)

var tblColor = schema.List("Color", "Red", "Green", "Blue")

var testItem = &schema.Program{
	Kind:  "item",
	Label: "Item",
	Steps: []schema.Step{
		schema.ResRef(0, "Resource", "ITM"),
		schema.Enum(8, 4, "Color", tblColor),
		schema.Opaque(12, 4, "Pad"),
	},
}

// REC V1: 64-byte header with a 40-byte opaque blob, then 16-byte items.
var testRecord = &schema.Program{
	Kind:  "rec",
	Label: "REC",
	Steps: []schema.Step{
		schema.Text(0, 4, "Signature"),
		schema.Text(4, 4, "Version"),
		schema.OffsetRef(8, 4, "Items offset", "item", schema.ScopeDirect),
		schema.CountRef(12, 4, "# items", "item", schema.ScopeDirect),
		schema.StrRef(16, "Name"),
		schema.Signed(20, 4, "Bias"),
		schema.Opaque(24, 40, "Blob"),
		schema.Sect(&schema.Section{
			Label: "Item", Kind: "item", Child: testItem,
			Offset: "Items offset", Count: "# items", Mutable: true,
		}),
	},
}

type stringTable map[uint32]string

func (s stringTable) String(ref uint32) (string, bool) {
	v, ok := s[ref]
	return v, ok
}

func setupDoc(t *testing.T) *resource.Document {
	t.Helper()
	w := testfix.New(96).Tag(0, "REC ", "V1  ").U32(8, 64).U32(12, 2).
		U32(16, 7).U32(20, 0xFFFFFFFE).Fill(24, 40, 0xAB)
	w.Text(64, 8, "SW1H01").U32(72, 2)
	w.Text(80, 8, "POTN08").U32(88, 9)

	r := schema.NewRegistry()
	r.Register("REC ", "V1  ", testRecord)
	require.NoError(t, r.Validate())
	d, err := resource.Read(w.Bytes(), 0,
		resource.WithRegistry(r), resource.WithStrings(stringTable{7: "Bottle"}))
	require.NoError(t, err)
	return d
}

func TestPrinter_PrintNode_Text(t *testing.T) {
	doc := setupDoc(t)

	var buf bytes.Buffer
	p := New(doc, &buf, DefaultOptions())
	require.NoError(t, p.PrintNode(""))

	out := buf.String()
	assert.Contains(t, out, "[REC] @0x0 REC V1, 96 bytes")
	assert.Contains(t, out, `0x0008 "Items offset" = 0x40 (64)`)
	assert.Contains(t, out, `0x0010 "Name" = Bottle (7)`)
	assert.Contains(t, out, `0x0014 "Bias" = -2`)
	assert.Contains(t, out, `"Signature" = "REC "`)
	assert.NotContains(t, out, "[Item 0]", "PrintNode must not descend")
}

func TestPrinter_PrintNode_Truncates(t *testing.T) {
	doc := setupDoc(t)

	tests := []struct {
		name     string
		maxBytes int
		want     string
	}{
		{"default", DefaultMaxValueBytes, strings.Repeat("AB", 32) + " (truncated, 40 total bytes)"},
		{"short", 4, "ABABABAB (truncated, 40 total bytes)"},
		{"unlimited", 0, strings.Repeat("AB", 40) + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := DefaultOptions()
			opts.MaxValueBytes = tt.maxBytes
			require.NoError(t, New(doc, &buf, opts).PrintField("", "Blob"))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrinter_PrintTree_Text(t *testing.T) {
	doc := setupDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowKinds = true
	require.NoError(t, New(doc, &buf, opts).PrintTree(""))

	out := buf.String()
	assert.Contains(t, out, "[REC] @0x0 <rec>")
	assert.Contains(t, out, "  [Item 0] @0x40 <item>")
	assert.Contains(t, out, "  [Item 1] @0x50 <item>")
	assert.Contains(t, out, `    0x0040 "Resource" [resref:8] = SW1H01`)
	assert.Contains(t, out, `    0x0048 "Color" [enum:4] = Blue (2)`)
	assert.Contains(t, out, `"Color" [enum:4] = 9`)
}

func TestPrinter_PrintTree_Options(t *testing.T) {
	doc := setupDoc(t)

	t.Run("max depth", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.MaxDepth = 1
		require.NoError(t, New(doc, &buf, opts).PrintTree(""))
		assert.NotContains(t, buf.String(), "[Item")
	})

	t.Run("no fields no offsets", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.ShowFields = false
		opts.ShowOffsets = false
		require.NoError(t, New(doc, &buf, opts).PrintTree(""))
		assert.Equal(t, "[REC] REC V1, 96 bytes\n  [Item 0]\n  [Item 1]\n", buf.String())
	})

	t.Run("indent", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.IndentSize = 4
		opts.ShowFields = false
		require.NoError(t, New(doc, &buf, opts).PrintTree(""))
		assert.Contains(t, buf.String(), "\n    [Item 1] @0x50\n")
	})
}

func TestPrinter_PrintTree_JSON(t *testing.T) {
	doc := setupDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(doc, &buf, opts).PrintTree(""))

	var got jsonNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "REC", got.Label)
	assert.Equal(t, "REC ", got.Signature)
	assert.Equal(t, 96, got.Size)
	require.Len(t, got.Children, 2)
	assert.Equal(t, "Item 1", got.Children[1].Label)
	assert.Equal(t, 0x50, got.Children[1].Offset)

	byName := make(map[string]jsonField)
	for _, f := range got.Fields {
		byName[f.Name] = f
	}
	assert.EqualValues(t, 64, byName["Items offset"].Value)
	assert.EqualValues(t, -2, byName["Bias"].Value)
	assert.Equal(t, "Bottle (7)", byName["Name"].Display)
	assert.Equal(t, strings.Repeat("ab", 32), byName["Blob"].Value)
	assert.Empty(t, byName["# items"].Display)

	color := got.Children[0].Fields[1]
	assert.Equal(t, "Color", color.Name)
	assert.Equal(t, "Blue (2)", color.Display)
}

func TestPrinter_PrintNode_JSON(t *testing.T) {
	doc := setupDoc(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	require.NoError(t, New(doc, &buf, opts).PrintNode("item 1"))

	var got jsonNode
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Item 1", got.Label)
	assert.Empty(t, got.Children)
	require.Len(t, got.Fields, 3)
	assert.Equal(t, "POTN08", got.Fields[0].Value)
}

func TestPrinter_NotFound(t *testing.T) {
	doc := setupDoc(t)
	p := New(doc, &bytes.Buffer{}, DefaultOptions())

	err := p.PrintTree("Item 5")
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindNotFound, kind)

	err = p.PrintField("", "Nope")
	kind, ok = types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindNotFound, kind)
}
