package formats

import (
	"fmt"

	"github.com/joshuapare/iekit/internal/format"
	"github.com/joshuapare/iekit/schema"
)

// KindCHR is the node kind of CHR character envelopes.
const KindCHR schema.Kind = "chr"

// creSection is an embedded CRE located by the "CRE offset" field of its
// owner. Removing it zeroes the offset and size.
func creSection() schema.Step {
	return schema.Sect(&schema.Section{
		Label: "CRE", Kind: KindCRE, Offset: "CRE offset",
		Embed: true, Signatures: []string{format.SigCRE}, SkipZero: true,
		Mutable: true, ZeroWhenEmpty: true,
	})
}

func chrHead() []schema.Step {
	return []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.Text(0x08, 32, "Character name"),
		schema.OffsetRef(0x28, 4, "CRE offset", KindCRE, schema.ScopeDirect),
		schema.SizeRef(0x2C, 4, "CRE size", KindCRE),
	}
}

func quick(off, stride, n int, mk func(off int, label string) schema.Step, pattern string) []schema.Step {
	return schema.Repeat(n, func(i int) schema.Step {
		return mk(off+i*stride, fmt.Sprintf(pattern, i+1))
	})
}

func slotField(off int, label string) schema.Step {
	return schema.IDSEnum(off, 2, label, "SLOTS.IDS")
}

func abilityField(off int, label string) schema.Step { return schema.Signed(off, 2, label) }

func spellField(off int, label string) schema.Step { return schema.ResRef(off, label, "SPL") }

// CHR V1.0, V2.0 and V2.1: quick slots up to 0x64.
var chrV1 = &schema.Program{
	Kind:  KindCHR,
	Label: "CHR",
	Steps: schema.Steps(
		chrHead(),
		quick(0x30, 2, 4, slotField, "Quick weapon slot %d"),
		quick(0x38, 2, 4, abilityField, "Quick weapon ability %d"),
		quick(0x40, 8, 3, spellField, "Quick spell %d"),
		quick(0x58, 2, 3, slotField, "Quick item slot %d"),
		quick(0x5E, 2, 3, abilityField, "Quick item ability %d"),
		[]schema.Step{
			schema.Fill(0x64, "CRE offset", "Unknown"),
			creSection(),
		},
	),
}

// CHR V2.2 (IWD2): quick slots up to 0x224.
var chrV22 = &schema.Program{
	Kind:  KindCHR,
	Label: "CHR",
	Steps: schema.Steps(
		chrHead(),
		quick(0x30, 4, 4, slotField, "Quick weapon slot %d"),
		quick(0x32, 4, 4, slotField, "Quick shield slot %d"),
		quick(0x40, 4, 4, abilityField, "Quick weapon ability %d"),
		quick(0x42, 4, 4, abilityField, "Quick shield ability %d"),
		quick(0x50, 8, 9, spellField, "Quick spell %d"),
		quick(0x98, 1, 9, func(off int, label string) schema.Step {
			return schema.IDSEnum(off, 1, label, "CLASS.IDS")
		}, "Quick spell %d class"),
		[]schema.Step{schema.Opaque(0xA1, 1, "Unknown")},
		quick(0xA2, 2, 3, slotField, "Quick item slot %d"),
		quick(0xA8, 2, 3, abilityField, "Quick item ability %d"),
		quick(0xAE, 8, 9, spellField, "Quick innate %d"),
		quick(0xF6, 8, 9, spellField, "Quick song %d"),
		quick(0x13E, 4, 9, func(off int, label string) schema.Step {
			return schema.Signed(off, 4, label)
		}, "Quick button %d"),
		[]schema.Step{
			schema.Opaque(0x162, 26, "Unknown"),
			schema.Text(0x17C, 8, "Voice set prefix"),
			schema.Text(0x184, 32, "Voice set"),
			schema.Opaque(0x1A4, 128, "Unknown"),
			schema.Fill(0x224, "CRE offset", "Unknown"),
			creSection(),
		},
	),
}
