package formats

import "github.com/joshuapare/iekit/schema"

// Node kinds of CHU records.
const (
	KindCHU            schema.Kind = "chu"
	KindCHUPanel       schema.Kind = "chu.panel"
	KindCHUControl     schema.Kind = "chu.control"
	KindCHUControlData schema.Kind = "chu.control.data"
)

// CHU V1 header:
//
//	Offset  Size  Field
//	0x00    4     Signature
//	0x04    4     Version
//	0x08    4     # panels
//	0x0C    4     Controls offset (table of 8-byte control entries)
//	0x10    4     Panels offset
//
// Panels are 28 bytes, or 36 when they open with an 8-byte name. The header
// does not say which, so the stride between the panel table and the control
// table decides. Each panel owns # controls consecutive control entries
// starting at Controls offset + First control index*8.

// controlData is the control body a control entry points at. Its length
// comes from the entry; the 14-byte common prefix is interpreted.
var controlData = &schema.Program{
	Kind:  KindCHUControlData,
	Label: "Control",
	Steps: []schema.Step{
		schema.Unsigned(0, 2, "Control ID"),
		schema.Unsigned(2, 2, "Buffer length"),
		schema.Signed(4, 2, "Position: X"),
		schema.Signed(6, 2, "Position: Y"),
		schema.Signed(8, 2, "Width"),
		schema.Signed(10, 2, "Height"),
		schema.Enum(12, 1, "Type", tblControlType),
		schema.Opaque(13, 1, "Unknown"),
		schema.OpaqueFrom(14, "Control length", -14, "Properties"),
	},
}

var chuControl = &schema.Program{
	Kind:  KindCHUControl,
	Label: "Control entry",
	Steps: []schema.Step{
		schema.OffsetRef(0, 4, "Control offset", KindCHUControlData, schema.ScopeDirect),
		schema.SizeRef(4, 4, "Control length", KindCHUControlData),
		schema.Sect(&schema.Section{
			Label: "Control", Kind: KindCHUControlData, Child: controlData,
			Offset: "Control offset", Fixed: 1,
		}),
	},
}

func panelSteps(base int) []schema.Step {
	return []schema.Step{
		schema.Unsigned(base+0, 2, "Panel ID"),
		schema.Opaque(base+2, 2, "Unknown"),
		schema.Signed(base+4, 2, "Position: X"),
		schema.Signed(base+6, 2, "Position: Y"),
		schema.Signed(base+8, 2, "Width"),
		schema.Signed(base+10, 2, "Height"),
		schema.Enum(base+12, 2, "Has background?", tblHasBackground),
		schema.CountRef(base+14, 2, "# controls", KindCHUControl, schema.ScopeDirect),
		schema.ResRef(base+16, "Background image", "MOS"),
		schema.IndexRef(base+24, 2, "First control index", KindCHUControl),
		schema.Flags(base+26, 2, "Flags", tblPanelFlags),
		schema.Sect(&schema.Section{
			Label: "Control", Kind: KindCHUControl, Child: chuControl,
			Index: "First control index", Count: "# controls", Region: "Controls offset",
		}),
	}
}

var chuPanel = &schema.Program{
	Kind:  KindCHUPanel,
	Label: "Panel",
	Steps: panelSteps(0),
}

var chuPanelNamed = &schema.Program{
	Kind:  KindCHUPanel,
	Label: "Panel",
	Steps: schema.Steps(
		[]schema.Step{schema.Text(0, 8, "Name")},
		panelSteps(8),
	),
}

var chuV1 = &schema.Program{
	Kind:  KindCHU,
	Label: "CHU",
	Steps: []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.CountRef(0x08, 4, "# panels", KindCHUPanel, schema.ScopeDirect),
		schema.OffsetRef(0x0C, 4, "Controls offset", KindCHUControl, schema.ScopeDeep),
		schema.OffsetRef(0x10, 4, "Panels offset", KindCHUPanel, schema.ScopeDirect),
		schema.Sect(&schema.Section{
			Label: "Panel", Kind: KindCHUPanel, Child: chuPanel,
			Alts: []schema.Alt{{
				When:    schema.StrideEq("Controls offset", "Panels offset", "# panels", 36),
				Program: chuPanelNamed,
			}},
			Offset: "Panels offset", Count: "# panels", Mutable: true,
		}),
	},
}
