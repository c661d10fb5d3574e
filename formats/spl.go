package formats

import "github.com/joshuapare/iekit/schema"

// Node kinds of SPL records.
const (
	KindSPL        schema.Kind = "spl"
	KindSPLAbility schema.Kind = "spl.ability"
)

// SPL ability (40 bytes).
var splAbility = &schema.Program{
	Kind:  KindSPLAbility,
	Label: "Spell ability",
	Steps: []schema.Step{
		schema.Enum(0, 1, "Type", tblAbilityType),
		schema.Unsigned(1, 1, "Unknown"),
		schema.Enum(2, 2, "Ability location", tblAbilityUse),
		schema.ResRef(4, "Icon", "BAM"),
		schema.Enum(12, 1, "Target", tblTargetType),
		schema.Unsigned(13, 1, "# targets"),
		schema.Signed(14, 2, "Range (feet)"),
		schema.Unsigned(16, 2, "Minimum level"),
		schema.Signed(18, 2, "Casting speed"),
		schema.Signed(20, 2, "Bonus to hit"),
		schema.Signed(22, 2, "Dice size"),
		schema.Signed(24, 2, "# dice thrown"),
		schema.Signed(26, 2, "Damage bonus"),
		schema.Enum(28, 2, "Damage type", tblDamageType),
		schema.CountRef(30, 2, "# effects", KindEffect, schema.ScopeDirect),
		schema.IndexRef(32, 2, "First effect index", KindEffect),
		schema.Signed(34, 2, "# charges"),
		schema.Enum(36, 2, "When drained", tblDrain),
		projectile(38),
		effectSection("Effect", "First effect index", "# effects"),
	},
}

// SPL V1 header (0x72 bytes), laid out like the ITM header.
var splV1 = &schema.Program{
	Kind:  KindSPL,
	Label: "SPL",
	Steps: []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.StrRef(0x08, "Spell name"),
		schema.StrRef(0x0C, "Identified name"),
		schema.ResRef(0x10, "Casting sound", "WAV"),
		schema.Flags(0x18, 4, "Flags", tblSpellFlags),
		schema.Enum(0x1C, 2, "Spell type", tblSpellType),
		schema.Hex(0x1E, 4, "Exclusion flags"),
		schema.Unsigned(0x22, 2, "Casting animation"),
		schema.Opaque(0x24, 1, "Unknown"),
		schema.Enum(0x25, 1, "Primary type (school)", tblSchool),
		schema.Opaque(0x26, 1, "Unknown"),
		schema.Unsigned(0x27, 1, "Secondary type"),
		schema.Opaque(0x28, 12, "Unknown"),
		schema.Unsigned(0x34, 4, "Spell level"),
		schema.Unsigned(0x38, 2, "Maximum in stack"),
		schema.ResRef(0x3A, "Spell icon", "BAM"),
		schema.Unsigned(0x42, 2, "Lore to identify"),
		schema.ResRef(0x44, "Ground icon", "BAM"),
		schema.Unsigned(0x4C, 4, "Weight"),
		schema.StrRef(0x50, "Spell description"),
		schema.StrRef(0x54, "Identified description"),
		schema.ResRef(0x58, "Description image", "BAM"),
		schema.Opaque(0x60, 4, "Unknown"),
		schema.OffsetRef(0x64, 4, "Abilities offset", KindSPLAbility, schema.ScopeDirect),
		schema.CountRef(0x68, 2, "# abilities", KindSPLAbility, schema.ScopeDirect),
		schema.OffsetRef(0x6A, 4, "Effects offset", KindEffect, schema.ScopeDeep),
		schema.IndexRef(0x6E, 2, "Global effects index", KindEffect),
		schema.CountRef(0x70, 2, "# global effects", KindEffect, schema.ScopeDirect),
		schema.Sect(&schema.Section{
			Label: "Spell ability", Kind: KindSPLAbility, Child: splAbility,
			Offset: "Abilities offset", Count: "# abilities", Mutable: true,
		}),
		effectSection("Effect", "Global effects index", "# global effects"),
	},
}
