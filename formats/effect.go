package formats

import "github.com/joshuapare/iekit/schema"

// KindEffect is the node kind of both effect layouts. A record holds either
// version 1 or version 2 effects, never both.
const KindEffect schema.Kind = "effect"

// Effect v1 (48 bytes), used by ITM, SPL and CRE effect version 0:
//
//	Offset  Size  Field
//	0x00    2     Opcode
//	0x02    1     Target
//	0x03    1     Power
//	0x04    4     Parameter 1
//	0x08    4     Parameter 2
//	0x0C    1     Timing mode
//	0x0D    1     Dispel/Resistance
//	0x0E    4     Duration
//	0x12    1     Probability 1
//	0x13    1     Probability 2
//	0x14    8     Resource
//	0x1C    4     # dice thrown
//	0x20    4     Dice size
//	0x24    4     Save type (flags)
//	0x28    4     Save bonus
//	0x2C    4     Special
var effectV1 = &schema.Program{
	Kind:  KindEffect,
	Label: "Effect",
	Steps: []schema.Step{
		schema.IDSEnum(0x00, 2, "Type", "EFFECTS.IDS"),
		schema.Enum(0x02, 1, "Target", tblEffectTarget),
		schema.Unsigned(0x03, 1, "Power"),
		schema.Signed(0x04, 4, "Parameter 1"),
		schema.Signed(0x08, 4, "Parameter 2"),
		schema.Enum(0x0C, 1, "Timing mode", tblTiming),
		schema.Enum(0x0D, 1, "Dispel/Resistance", tblDispel),
		schema.Signed(0x0E, 4, "Duration"),
		schema.Unsigned(0x12, 1, "Probability 1"),
		schema.Unsigned(0x13, 1, "Probability 2"),
		schema.ResRef(0x14, "Resource", "SPL", "ITM", "CRE", "VVC", "BAM"),
		schema.Signed(0x1C, 4, "# dice thrown"),
		schema.Signed(0x20, 4, "Dice size"),
		schema.Flags(0x24, 4, "Save type", tblSaveType),
		schema.Signed(0x28, 4, "Save bonus"),
		schema.Unsigned(0x2C, 4, "Special"),
	},
}

// effectV2 is the 264-byte standalone effect layout, embedded verbatim
// (signature included) in CRE records with effect version 1.
var effectV2 = &schema.Program{
	Kind:  KindEffect,
	Label: "Effect",
	Steps: []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.IDSEnum(0x08, 4, "Type", "EFFECTS.IDS"),
		schema.Enum(0x0C, 4, "Target", tblEffectTarget),
		schema.Unsigned(0x10, 4, "Power"),
		schema.Signed(0x14, 4, "Parameter 1"),
		schema.Signed(0x18, 4, "Parameter 2"),
		schema.Enum(0x1C, 4, "Timing mode", tblTiming),
		schema.Signed(0x20, 4, "Duration"),
		schema.Unsigned(0x24, 2, "Probability 1"),
		schema.Unsigned(0x26, 2, "Probability 2"),
		schema.ResRef(0x28, "Resource", "SPL", "ITM", "CRE", "VVC", "BAM"),
		schema.Signed(0x30, 4, "# dice thrown"),
		schema.Signed(0x34, 4, "Dice size"),
		schema.Flags(0x38, 4, "Save type", tblSaveType),
		schema.Signed(0x3C, 4, "Save bonus"),
		schema.Unsigned(0x40, 4, "Special"),
		schema.Enum(0x44, 4, "Primary type", tblSchool),
		schema.Opaque(0x48, 4, "Unknown"),
		schema.Unsigned(0x4C, 4, "Minimum level"),
		schema.Unsigned(0x50, 4, "Maximum level"),
		schema.Enum(0x54, 4, "Dispel/Resistance", tblDispel),
		schema.Signed(0x58, 4, "Parameter 3"),
		schema.Signed(0x5C, 4, "Parameter 4"),
		schema.Opaque(0x60, 8, "Unknown"),
		schema.ResRef(0x68, "Resource 2", "VVC", "BAM"),
		schema.ResRef(0x70, "Resource 3", "VVC", "BAM"),
		schema.Signed(0x78, 4, "Caster location: X"),
		schema.Signed(0x7C, 4, "Caster location: Y"),
		schema.Signed(0x80, 4, "Target location: X"),
		schema.Signed(0x84, 4, "Target location: Y"),
		schema.Unsigned(0x88, 4, "Resource type"),
		schema.ResRef(0x8C, "Parent resource", "SPL", "ITM"),
		schema.Hex(0x94, 4, "Resource flags"),
		schema.Unsigned(0x98, 4, "Impact projectile"),
		schema.Signed(0x9C, 4, "Source item slot"),
		schema.Text(0xA0, 32, "Variable name"),
		schema.Unsigned(0xC0, 4, "Caster level"),
		schema.Unsigned(0xC4, 4, "First apply"),
		schema.Unsigned(0xC8, 4, "Secondary type"),
		schema.Opaque(0xCC, 60, "Unused"),
	},
}
