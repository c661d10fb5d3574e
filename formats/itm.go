package formats

import (
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Node kinds of ITM records.
const (
	KindITM        schema.Kind = "itm"
	KindITMAbility schema.Kind = "itm.ability"
)

// projectile is the ability projectile field. A catalog PROJECTL.IDS wins;
// without one the table depends on the engine.
func projectile(off int) schema.Step {
	pick := func(t *schema.Table) []schema.Step {
		s := schema.Enum(off, 2, "Projectile", t)
		s.IDS = "PROJECTL.IDS"
		return []schema.Step{s}
	}
	return schema.Choose(schema.OnEngine(types.EnginePST),
		pick(tblProjectilePST),
		[]schema.Step{schema.Choose(schema.OnEngine(types.EngineIWD, types.EngineIWD2),
			pick(tblProjectileIWD),
			pick(tblProjectile))})
}

// effectSection is the indexed effect block of an ability: # effects
// records starting at Effects offset + index*48.
func effectSection(label, index, count string) schema.Step {
	return schema.Sect(&schema.Section{
		Label: label, Kind: KindEffect, Child: effectV1,
		Index: index, Count: count, Region: "Effects offset",
		Mutable: true,
	})
}

// ITM ability (56 bytes). BG2 and EE split several 2-byte fields of the
// original layout into byte pairs.
var itmAbility = &schema.Program{
	Kind:  KindITMAbility,
	Label: "Item ability",
	Steps: []schema.Step{
		schema.Choose(schema.OnEngine(types.EngineBG2, types.EngineEE),
			[]schema.Step{
				schema.Enum(0, 1, "Type", tblAbilityType),
				schema.Enum(1, 1, "Identify to use?", tblNoYes),
				schema.Enum(2, 1, "Ability location", tblAbilityUse),
				schema.Unsigned(3, 1, "Alternate dice size"),
				schema.ResRef(4, "Icon", "BAM"),
				schema.Enum(12, 1, "Target", tblTargetType),
				schema.Unsigned(13, 1, "# targets"),
				schema.Signed(14, 2, "Range (feet)"),
				schema.Enum(16, 1, "Launcher required", tblLauncher),
				schema.Signed(17, 1, "Alternate # dice thrown"),
				schema.Signed(18, 1, "Speed"),
				schema.Signed(19, 1, "Alternate damage bonus"),
				schema.Signed(20, 2, "Bonus to hit"),
				schema.Signed(22, 1, "Dice size"),
				schema.Unsigned(23, 1, "Primary type (school)"),
				schema.Signed(24, 1, "# dice thrown"),
				schema.Unsigned(25, 1, "Secondary type"),
			},
			[]schema.Step{
				schema.Enum(0, 1, "Type", tblAbilityType),
				schema.Enum(1, 1, "Identify to use?", tblNoYes),
				schema.Enum(2, 2, "Ability location", tblAbilityUse),
				schema.ResRef(4, "Icon", "BAM"),
				schema.Enum(12, 2, "Target", tblTargetType),
				schema.Signed(14, 2, "Range (feet)"),
				schema.Enum(16, 2, "Launcher required", tblLauncher),
				schema.Signed(18, 2, "Speed"),
				schema.Signed(20, 2, "Bonus to hit"),
				schema.Signed(22, 2, "Dice size"),
				schema.Signed(24, 2, "# dice thrown"),
			}),
		schema.Signed(26, 2, "Damage bonus"),
		schema.Enum(28, 2, "Damage type", tblDamageType),
		schema.CountRef(30, 2, "# effects", KindEffect, schema.ScopeDirect),
		schema.IndexRef(32, 2, "First effect index", KindEffect),
		schema.Signed(34, 2, "# charges"),
		schema.Enum(36, 2, "When drained", tblDrain),
		schema.Flags(38, 4, "Flags", tblAbilityFlags),
		projectile(42),
		schema.Signed(44, 2, "Animation: Overhand swing %"),
		schema.Signed(46, 2, "Animation: Backhand swing %"),
		schema.Signed(48, 2, "Animation: Thrust %"),
		schema.Enum(50, 2, "Is arrow?", tblNoYes),
		schema.Enum(52, 2, "Is bolt?", tblNoYes),
		schema.Enum(54, 2, "Is bullet?", tblNoYes),
		effectSection("Effect", "First effect index", "# effects"),
	},
}

// ITM V1 header (0x72 bytes). Abilities follow at Abilities offset; all
// effects, the equipping effects first, share one block at Effects offset.
var itmV1 = &schema.Program{
	Kind:  KindITM,
	Label: "ITM",
	Steps: []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.StrRef(0x08, "General name"),
		schema.StrRef(0x0C, "Identified name"),
		schema.ResRef(0x10, "Drained item", "ITM"),
		schema.Flags(0x18, 4, "Flags", tblItemFlags),
		schema.Enum(0x1C, 2, "Category", tblItemType),
		schema.Hex(0x1E, 4, "Unusable by"),
		schema.Text(0x22, 2, "Equipped appearance"),
		schema.Unsigned(0x24, 2, "Minimum level"),
		schema.Unsigned(0x26, 2, "Minimum strength"),
		schema.Unsigned(0x28, 1, "Minimum strength bonus"),
		schema.Hex(0x29, 1, "Unusable by (1/4)"),
		schema.Unsigned(0x2A, 1, "Minimum intelligence"),
		schema.Hex(0x2B, 1, "Unusable by (2/4)"),
		schema.Unsigned(0x2C, 1, "Minimum dexterity"),
		schema.Hex(0x2D, 1, "Unusable by (3/4)"),
		schema.Unsigned(0x2E, 1, "Minimum wisdom"),
		schema.Hex(0x2F, 1, "Unusable by (4/4)"),
		schema.Unsigned(0x30, 1, "Minimum constitution"),
		schema.Unsigned(0x31, 1, "Weapon proficiency"),
		schema.Unsigned(0x32, 2, "Minimum charisma"),
		schema.Unsigned(0x34, 4, "Price"),
		schema.Unsigned(0x38, 2, "Maximum in stack"),
		schema.ResRef(0x3A, "Icon", "BAM"),
		schema.Unsigned(0x42, 2, "Lore to identify"),
		schema.ResRef(0x44, "Ground icon", "BAM"),
		schema.Unsigned(0x4C, 4, "Weight"),
		schema.StrRef(0x50, "General description"),
		schema.StrRef(0x54, "Identified description"),
		schema.ResRef(0x58, "Description image", "BAM"),
		schema.Signed(0x60, 4, "Enchantment"),
		schema.OffsetRef(0x64, 4, "Abilities offset", KindITMAbility, schema.ScopeDirect),
		schema.CountRef(0x68, 2, "# abilities", KindITMAbility, schema.ScopeDirect),
		schema.OffsetRef(0x6A, 4, "Effects offset", KindEffect, schema.ScopeDeep),
		schema.IndexRef(0x6E, 2, "Global effects index", KindEffect),
		schema.CountRef(0x70, 2, "# global effects", KindEffect, schema.ScopeDirect),
		schema.Sect(&schema.Section{
			Label: "Item ability", Kind: KindITMAbility, Child: itmAbility,
			Offset: "Abilities offset", Count: "# abilities", Mutable: true,
		}),
		effectSection("Effect", "Global effects index", "# global effects"),
	},
}
