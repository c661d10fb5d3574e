package formats

import (
	"fmt"
	"slices"

	"github.com/joshuapare/iekit/schema"
)

// Node kinds of CRE records.
const (
	KindCRE          schema.Kind = "cre"
	KindKnownSpell   schema.Kind = "cre.known"
	KindMemInfo      schema.Kind = "cre.meminfo"
	KindMemSpell     schema.Kind = "cre.memspell"
	KindCREItem      schema.Kind = "cre.item"
	KindCREItemSlots schema.Kind = "cre.itemslots"
)

// The V1.0 header is 0x2D4 bytes. V1.1/V1.2 and V9.0 insert a block at
// 0x270, pushing every later field, section references included, by its
// size.
const (
	creShiftPST = 164
	creShiftIWD = 104
)

var knownSpell = &schema.Program{
	Kind:  KindKnownSpell,
	Label: "Known spell",
	Steps: []schema.Step{
		schema.ResRef(0, "Spell", "SPL"),
		schema.Unsigned(8, 2, "Level"),
		schema.Enum(10, 2, "Type", tblSpellType),
	},
}

var memSpell = &schema.Program{
	Kind:  KindMemSpell,
	Label: "Memorized spell",
	Steps: []schema.Step{
		schema.ResRef(0, "Spell", "SPL"),
		schema.Flags(8, 2, "Memorized", schema.List("memorized", "Spell memorized", "Spell disabled")),
		schema.Opaque(10, 2, "Unused"),
	},
}

// Each memorization entry owns a run of memorized spells addressed by index
// into the block at Memorized spells offset.
var memInfo = &schema.Program{
	Kind:  KindMemInfo,
	Label: "Memorization info",
	Steps: []schema.Step{
		schema.Unsigned(0, 2, "Spell level"),
		schema.Unsigned(2, 2, "# spells memorizable"),
		schema.Unsigned(4, 2, "# spells memorizable (effective)"),
		schema.Enum(6, 2, "Type", tblSpellType),
		schema.IndexRef(8, 4, "First memorized spell", KindMemSpell),
		schema.CountRef(12, 4, "# spells", KindMemSpell, schema.ScopeDirect),
		schema.Sect(&schema.Section{
			Label: "Memorized spell", Kind: KindMemSpell, Child: memSpell,
			Index: "First memorized spell", Count: "# spells",
			Region: "Memorized spells offset", Mutable: true,
		}),
	},
}

var creItem = &schema.Program{
	Kind:  KindCREItem,
	Label: "Item",
	Steps: []schema.Step{
		schema.ResRef(0, "Item", "ITM"),
		schema.Unsigned(8, 2, "Duration"),
		schema.Unsigned(10, 2, "Quantity/Charges 1"),
		schema.Unsigned(12, 2, "Quantity/Charges 2"),
		schema.Unsigned(14, 2, "Quantity/Charges 3"),
		schema.Flags(16, 4, "Flags", tblStoreItemFlags),
	},
}

func slots(labels ...string) []schema.Step {
	out := make([]schema.Step, 0, len(labels)+3)
	for i, l := range labels {
		out = append(out, schema.Signed(i*2, 2, l))
	}
	n := len(labels) * 2
	return append(out,
		schema.Signed(n, 2, "Magically created weapon"),
		schema.Signed(n+2, 2, "Weapon slot selected"),
		schema.Signed(n+4, 2, "Weapon ability selected"),
	)
}

func numbered(format string, from, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf(format, from+i)
	}
	return out
}

var itemSlots = &schema.Program{
	Kind:  KindCREItemSlots,
	Label: "Item slots",
	Steps: slots(slices.Concat(
		[]string{"Helmet", "Armor", "Shield", "Gloves", "Left ring", "Right ring", "Amulet", "Belt", "Boots"},
		numbered("Weapon %d", 1, 4),
		numbered("Quiver %d", 1, 4),
		[]string{"Cloak"},
		numbered("Quick item %d", 1, 3),
		numbered("Inventory %d", 1, 16),
	)...),
}

var itemSlotsPST = &schema.Program{
	Kind:  KindCREItemSlots,
	Label: "Item slots",
	Steps: slots(slices.Concat(
		[]string{"Right earring", "Chest", "Left tattoo", "Hand", "Left ring", "Right ring",
			"Left earring", "Right tattoo (lower)", "Wrist"},
		numbered("Weapon %d", 1, 4),
		numbered("Quiver %d", 1, 6),
		[]string{"Right tattoo (upper)"},
		numbered("Quick item %d", 1, 5),
		numbered("Inventory %d", 1, 20),
	)...),
}

func proficiencies(off int, names []string, pad int) []schema.Step {
	out := make([]schema.Step, 0, len(names)+1)
	for i, n := range names {
		out = append(out, schema.Unsigned(off+i, 1, "Proficiency: "+n))
	}
	return append(out, schema.Opaque(off+len(names), pad, "Unknown"))
}

// creCommon covers 0x08..0x270, identical in every supported version apart
// from the proficiency block.
func creCommon(profs []schema.Step, pst bool) []schema.Step {
	portraitExt := "BMP"
	skill := schema.Unsigned(0x64, 1, "Detect illusions")
	if pst {
		portraitExt = "BAM"
		skill = schema.Signed(0x64, 1, "Unspent proficiencies")
	}
	steps := []schema.Step{
		schema.StrRef(0x08, "Name"),
		schema.StrRef(0x0C, "Tooltip"),
		schema.Hex(0x10, 4, "Flags"),
		schema.Signed(0x14, 4, "XP value"),
		schema.Signed(0x18, 4, "XP"),
		schema.Signed(0x1C, 4, "Gold"),
		schema.Hex(0x20, 4, "Status"),
		schema.Signed(0x24, 2, "Current HP"),
		schema.Signed(0x26, 2, "Maximum HP"),
		schema.IDSEnum(0x28, 4, "Animation", "ANIMATE.IDS"),
		schema.Unsigned(0x2C, 1, "Metal color"),
		schema.Unsigned(0x2D, 1, "Minor color"),
		schema.Unsigned(0x2E, 1, "Major color"),
		schema.Unsigned(0x2F, 1, "Skin color"),
		schema.Unsigned(0x30, 1, "Leather color"),
		schema.Unsigned(0x31, 1, "Armor color"),
		schema.Unsigned(0x32, 1, "Hair color"),
		schema.Enum(0x33, 1, "Effect version", tblEffectVersion),
		schema.ResRef(0x34, "Small portrait", "BMP"),
		schema.ResRef(0x3C, "Large portrait", portraitExt),
		schema.Unsigned(0x44, 1, "Reputation"),
		schema.Unsigned(0x45, 1, "Hide in shadows"),
		schema.Signed(0x46, 2, "Natural AC"),
		schema.Signed(0x48, 2, "Effective AC"),
		schema.Signed(0x4A, 2, "Crushing AC modifier"),
		schema.Signed(0x4C, 2, "Missile AC modifier"),
		schema.Signed(0x4E, 2, "Piercing AC modifier"),
		schema.Signed(0x50, 2, "Slashing AC modifier"),
		schema.Signed(0x52, 1, "THAC0"),
		schema.Unsigned(0x53, 1, "# attacks/round"),
		schema.Signed(0x54, 1, "Save vs. death"),
		schema.Signed(0x55, 1, "Save vs. wand"),
		schema.Signed(0x56, 1, "Save vs. polymorph"),
		schema.Signed(0x57, 1, "Save vs. breath"),
		schema.Signed(0x58, 1, "Save vs. spell"),
		schema.Signed(0x59, 1, "Resist fire"),
		schema.Signed(0x5A, 1, "Resist cold"),
		schema.Signed(0x5B, 1, "Resist electricity"),
		schema.Signed(0x5C, 1, "Resist acid"),
		schema.Signed(0x5D, 1, "Resist magic"),
		schema.Signed(0x5E, 1, "Resist magic fire"),
		schema.Signed(0x5F, 1, "Resist magic cold"),
		schema.Signed(0x60, 1, "Resist slashing"),
		schema.Signed(0x61, 1, "Resist crushing"),
		schema.Signed(0x62, 1, "Resist piercing"),
		schema.Signed(0x63, 1, "Resist missile"),
		skill,
		schema.Unsigned(0x65, 1, "Set traps"),
		schema.Signed(0x66, 1, "Lore"),
		schema.Unsigned(0x67, 1, "Open locks"),
		schema.Unsigned(0x68, 1, "Move silently"),
		schema.Unsigned(0x69, 1, "Find traps"),
		schema.Unsigned(0x6A, 1, "Pick pockets"),
		schema.Signed(0x6B, 1, "Fatigue"),
		schema.Signed(0x6C, 1, "Intoxication"),
		schema.Signed(0x6D, 1, "Luck"),
	}
	steps = append(steps, profs...)
	steps = append(steps,
		schema.Signed(0x82, 1, "Undead level"),
		schema.Signed(0x83, 1, "Tracking"),
		schema.Text(0x84, 32, "Target"),
	)
	steps = append(steps, schema.Repeat(100, func(i int) schema.Step {
		return schema.StrRef(0xA4+i*4, fmt.Sprintf("Sound slot %d", i))
	})...)
	return append(steps,
		schema.Unsigned(0x234, 1, "Level first class"),
		schema.Unsigned(0x235, 1, "Level second class"),
		schema.Unsigned(0x236, 1, "Level third class"),
		schema.IDSEnum(0x237, 1, "Sex", "GENDER.IDS"),
		schema.Unsigned(0x238, 1, "Strength"),
		schema.Unsigned(0x239, 1, "Strength bonus"),
		schema.Unsigned(0x23A, 1, "Intelligence"),
		schema.Unsigned(0x23B, 1, "Wisdom"),
		schema.Unsigned(0x23C, 1, "Dexterity"),
		schema.Unsigned(0x23D, 1, "Constitution"),
		schema.Unsigned(0x23E, 1, "Charisma"),
		schema.Unsigned(0x23F, 1, "Morale"),
		schema.Unsigned(0x240, 1, "Morale break"),
		schema.IDSEnum(0x241, 1, "Racial enemy", "RACE.IDS"),
		schema.Unsigned(0x242, 2, "Morale recovery"),
		schema.Choose(schema.HasResource("KIT.IDS"),
			[]schema.Step{schema.Hex(0x244, 4, "Kit")},
			[]schema.Step{
				schema.IDSEnum(0x244, 2, "Deity", "DEITY.IDS"),
				schema.IDSEnum(0x246, 2, "Mage type", "MAGESPEC.IDS"),
			}),
		schema.ResRef(0x248, "Override script", "BCS"),
		schema.ResRef(0x250, "Class script", "BCS", "BS"),
		schema.ResRef(0x258, "Race script", "BCS"),
		schema.ResRef(0x260, "General script", "BCS"),
		schema.ResRef(0x268, "Default script", "BCS"),
	)
}

// creTail covers the identity block, the section references and the
// sections. s is the version shift.
func creTail(s int, slotsProg *schema.Program) []schema.Step {
	return []schema.Step{
		schema.IDSEnum(0x270+s, 1, "Allegiance", "EA.IDS"),
		schema.IDSEnum(0x271+s, 1, "General", "GENERAL.IDS"),
		schema.IDSEnum(0x272+s, 1, "Race", "RACE.IDS"),
		schema.IDSEnum(0x273+s, 1, "Class", "CLASS.IDS"),
		schema.IDSEnum(0x274+s, 1, "Specifics", "SPECIFIC.IDS"),
		schema.IDSEnum(0x275+s, 1, "Gender", "GENDER.IDS"),
		schema.IDSEnum(0x276+s, 1, "Object spec 1", "OBJECT.IDS"),
		schema.IDSEnum(0x277+s, 1, "Object spec 2", "OBJECT.IDS"),
		schema.IDSEnum(0x278+s, 1, "Object spec 3", "OBJECT.IDS"),
		schema.IDSEnum(0x279+s, 1, "Object spec 4", "OBJECT.IDS"),
		schema.IDSEnum(0x27A+s, 1, "Object spec 5", "OBJECT.IDS"),
		schema.IDSEnum(0x27B+s, 1, "Alignment", "ALIGNMEN.IDS"),
		schema.Signed(0x27C+s, 2, "Global identifier"),
		schema.Signed(0x27E+s, 2, "Local identifier"),
		schema.Text(0x280+s, 32, ScriptNameField),
		schema.OffsetRef(0x2A0+s, 4, "Known spells offset", KindKnownSpell, schema.ScopeDirect),
		schema.CountRef(0x2A4+s, 4, "# known spells", KindKnownSpell, schema.ScopeDirect),
		schema.OffsetRef(0x2A8+s, 4, "Memorization info offset", KindMemInfo, schema.ScopeDirect),
		schema.CountRef(0x2AC+s, 4, "# memorization info", KindMemInfo, schema.ScopeDirect),
		schema.OffsetRef(0x2B0+s, 4, "Memorized spells offset", KindMemSpell, schema.ScopeDeep),
		schema.CountRef(0x2B4+s, 4, "# memorized spells", KindMemSpell, schema.ScopeDeep),
		schema.OffsetRef(0x2B8+s, 4, "Item slots offset", KindCREItemSlots, schema.ScopeDirect),
		schema.OffsetRef(0x2BC+s, 4, "Items offset", KindCREItem, schema.ScopeDirect),
		schema.CountRef(0x2C0+s, 4, "# items", KindCREItem, schema.ScopeDirect),
		schema.OffsetRef(0x2C4+s, 4, "Effects offset", KindEffect, schema.ScopeDirect),
		schema.CountRef(0x2C8+s, 4, "# effects", KindEffect, schema.ScopeDirect),
		schema.ResRef(0x2CC+s, "Dialogue", "DLG"),

		schema.Sect(&schema.Section{
			Label: "Known spell", Kind: KindKnownSpell, Child: knownSpell,
			Offset: "Known spells offset", Count: "# known spells", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Memorization info", Kind: KindMemInfo, Child: memInfo,
			Offset: "Memorization info offset", Count: "# memorization info",
		}),
		schema.Sect(&schema.Section{
			Label: "Effect", Kind: KindEffect, Child: effectV1,
			Alts:   []schema.Alt{{When: schema.FieldEq("Effect version", 1), Program: effectV2}},
			Offset: "Effects offset", Count: "# effects", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Item", Kind: KindCREItem, Child: creItem,
			Offset: "Items offset", Count: "# items", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Item slots", Kind: KindCREItemSlots, Child: slotsProg,
			Offset: "Item slots offset", Fixed: 1,
		}),
	}
}

func creHead() []schema.Step {
	return []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
	}
}

var creV10 = &schema.Program{
	Kind:  KindCRE,
	Label: "CRE",
	Steps: schema.Steps(
		creHead(),
		creCommon(proficiencies(0x6E, []string{
			"Large sword", "Small sword", "Bow", "Spear", "Blunt", "Spiked", "Axe", "Missile",
		}, 12), false),
		creTail(0, itemSlots),
	),
}

// crePST builds the V1.1/V1.2 program. Only V1.2 carries the PST item slot
// layout.
func crePST(slotsProg *schema.Program) *schema.Program {
	return &schema.Program{
		Kind:  KindCRE,
		Label: "CRE",
		Steps: schema.Steps(
			creHead(),
			creCommon(proficiencies(0x6E, []string{
				"Fist", "Edged weapon", "Hammer", "Axe", "Club", "Bow",
			}, 14), true),
			[]schema.Step{
				schema.Opaque(0x270, 36, "Unknown"),
				schema.Hex(0x294, 4, "Overlays offset"),
				schema.Unsigned(0x298, 4, "Overlays size"),
				schema.Signed(0x29C, 4, "XP second class"),
				schema.Signed(0x2A0, 4, "XP third class"),
			},
			schema.Repeat(10, func(i int) schema.Step {
				return schema.Signed(0x2A4+i*2, 2, fmt.Sprintf("Internal %d", i))
			}),
			[]schema.Step{
				schema.Signed(0x2B8, 1, "Good increment by"),
				schema.Signed(0x2B9, 1, "Law increment by"),
				schema.Signed(0x2BA, 1, "Lady increment by"),
				schema.Signed(0x2BB, 1, "Murder increment by"),
				schema.Text(0x2BC, 32, "Character type"),
				schema.Unsigned(0x2DC, 1, "Dialogue activation radius"),
				schema.Unsigned(0x2DD, 1, "Collision radius"),
				schema.Opaque(0x2DE, 1, "Unknown"),
				schema.Unsigned(0x2DF, 1, "# colors"),
				schema.Hex(0x2E0, 4, "Attributes"),
			},
			schema.Repeat(7, func(i int) schema.Step {
				return schema.IDSEnum(0x2E4+i*2, 2, fmt.Sprintf("Color %d", i+1), "CLOWNCLR.IDS")
			}),
			[]schema.Step{schema.Opaque(0x2F2, 3, "Unknown")},
			schema.Repeat(7, func(i int) schema.Step {
				return schema.Unsigned(0x2F5+i, 1, fmt.Sprintf("Color %d placement", i+1))
			}),
			[]schema.Step{
				schema.Opaque(0x2FC, 21, "Unknown"),
				schema.IDSEnum(0x311, 1, "Species", "RACE.IDS"),
				schema.IDSEnum(0x312, 1, "Team", "TEAM.IDS"),
				schema.IDSEnum(0x313, 1, "Faction", "FACTION.IDS"),
			},
			creTail(creShiftPST, slotsProg),
		),
	}
}

var (
	creV11 = crePST(itemSlots)
	creV12 = crePST(itemSlotsPST)
)

var creV90 = &schema.Program{
	Kind:  KindCRE,
	Label: "CRE",
	Steps: schema.Steps(
		creHead(),
		creCommon(proficiencies(0x6E, []string{
			"Large sword", "Small sword", "Bow", "Spear", "Axe", "Missile", "Greatsword",
			"Dagger", "Halberd", "Mace", "Flail", "Hammer", "Club", "Quarterstaff", "Crossbow",
		}, 5), false),
		[]schema.Step{
			schema.Enum(0x270, 1, "Default visibility", schema.List("visibility", "Shown", "Hidden")),
			schema.Enum(0x271, 1, "Set extra death variable?", tblNoYes),
			schema.Enum(0x272, 1, "Increment kill count?", tblNoYes),
			schema.Opaque(0x273, 1, "Unknown"),
		},
		schema.Repeat(5, func(i int) schema.Step {
			return schema.Signed(0x274+i*2, 2, fmt.Sprintf("Internal %d", i+1))
		}),
		[]schema.Step{
			schema.Text(0x27E, 32, "Death variable (set)"),
			schema.Text(0x29E, 32, "Death variable (increment)"),
			schema.Enum(0x2BE, 2, "Location saved?", tblNoYes),
			schema.Signed(0x2C0, 2, "Saved location: X"),
			schema.Signed(0x2C2, 2, "Saved location: Y"),
			schema.Enum(0x2C4, 2, "Saved orientation", tblOrientation),
			schema.Opaque(0x2C6, 18, "Unknown"),
		},
		creTail(creShiftIWD, itemSlots),
	),
}
