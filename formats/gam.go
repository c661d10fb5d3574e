package formats

import (
	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Node kinds of GAM records.
const (
	KindGAM       schema.Kind = "gam"
	KindPartyNPC  schema.Kind = "gam.party"
	KindNPC       schema.Kind = "gam.npc"
	KindNPCStats  schema.Kind = "gam.stats"
	KindGlobal    schema.Kind = "gam.global"
	KindJournal   schema.Kind = "gam.journal"
	KindFamiliar  schema.Kind = "gam.familiar"
	KindStoredLoc schema.Kind = "gam.stored"
	KindPocketLoc schema.Kind = "gam.pocket"
)

// npcStats is the 116-byte character statistics block of a GAM NPC.
var npcStats = &schema.Program{
	Kind:  KindNPCStats,
	Label: "Character stats",
	Steps: schema.Steps(
		[]schema.Step{
			schema.StrRef(0, "Most powerful foe vanquished"),
			schema.Unsigned(4, 4, "XP for most powerful foe"),
			schema.Unsigned(8, 4, "Time in party (ticks)"),
			schema.Unsigned(12, 4, "Join time (ticks)"),
			schema.Enum(16, 1, "Currently in party?", tblNoYes),
			schema.Opaque(17, 2, "Unused"),
			schema.Text(19, 1, "Initial character"),
			schema.Unsigned(20, 4, "Kill XP (chapter)"),
			schema.Unsigned(24, 4, "# kills (chapter)"),
			schema.Unsigned(28, 4, "Kill XP (game)"),
			schema.Unsigned(32, 4, "# kills (game)"),
		},
		quick(36, 8, 4, spellField, "Favorite spell %d"),
		quick(68, 2, 4, func(off int, label string) schema.Step {
			return schema.Unsigned(off, 2, label)
		}, "Favorite spell %d count"),
		quick(76, 8, 4, func(off int, label string) schema.Step {
			return schema.ResRef(off, label, "ITM")
		}, "Favorite weapon %d"),
		quick(108, 2, 4, func(off int, label string) schema.Step {
			return schema.Unsigned(off, 2, label)
		}, "Favorite weapon %d time"),
	),
}

func npcHead() []schema.Step {
	return []schema.Step{
		schema.Enum(0, 2, "Selection state", tblSelection),
		schema.Enum(2, 2, "Party position", tblPartyOrder),
		schema.OffsetRef(4, 4, "CRE offset", KindCRE, schema.ScopeDirect),
		schema.SizeRef(8, 4, "CRE size", KindCRE),
		schema.Choose(schema.ByteEq(12, '*'),
			[]schema.Step{schema.Text(12, 8, "Character")},
			[]schema.Step{schema.ResRef(12, "Character", "CRE")}),
		schema.Enum(20, 4, "Orientation", tblOrientation),
		schema.ResRef(24, "Current area", "ARE"),
		schema.Signed(32, 2, "Location: X"),
		schema.Signed(34, 2, "Location: Y"),
		schema.Signed(36, 2, "Viewport location: X"),
		schema.Signed(38, 2, "Viewport location: Y"),
	}
}

// quickSlots is the BG/IWD quick slot block at 140..192.
func quickSlots() []schema.Step {
	return schema.Steps(
		quick(140, 2, 4, slotField, "Quick weapon slot %d"),
		quick(148, 2, 4, abilityField, "Quick weapon ability %d"),
		quick(156, 8, 3, spellField, "Quick spell %d"),
		quick(180, 2, 3, slotField, "Quick item slot %d"),
		quick(186, 2, 3, abilityField, "Quick item ability %d"),
	)
}

// npcPrograms returns the BG/EE (352 bytes), PST (360 bytes) and IWD
// (384 bytes) layouts of one NPC kind.
func npcPrograms(kind schema.Kind, label string) (bg, pst, iwd *schema.Program) {
	bg = &schema.Program{
		Kind:  kind,
		Label: label,
		Steps: schema.Steps(
			npcHead(),
			[]schema.Step{
				schema.IDSEnum(40, 2, "Modal state", "MODAL.IDS"),
				schema.Signed(42, 2, "Happiness"),
				schema.Opaque(44, 96, "Unknown"),
			},
			quickSlots(),
			[]schema.Step{
				schema.Text(192, 32, "Name"),
				schema.Unsigned(224, 4, "# times talked to"),
				schema.Group(228, npcStats),
				schema.Text(344, 8, "Voice set"),
				creSection(),
			},
		),
	}
	pst = &schema.Program{
		Kind:  kind,
		Label: label,
		Steps: schema.Steps(
			npcHead(),
			[]schema.Step{
				schema.Signed(40, 2, "Modal state"),
				schema.Signed(42, 2, "Happiness"),
				schema.Opaque(44, 96, "Unknown"),
			},
			quick(140, 2, 4, abilityField, "Quick weapon slot %d"),
			quick(148, 2, 4, abilityField, "Quick weapon ability %d"),
			quick(156, 8, 3, spellField, "Quick spell %d"),
			quick(180, 2, 5, abilityField, "Quick item slot %d"),
			quick(190, 2, 5, abilityField, "Quick item ability %d"),
			[]schema.Step{
				schema.Text(200, 32, "Name"),
				schema.Unsigned(232, 4, "# times talked to"),
				schema.Group(236, npcStats),
				schema.Opaque(352, 8, "Unknown"),
				creSection(),
			},
		),
	}
	iwd = &schema.Program{
		Kind:  kind,
		Label: label,
		Steps: schema.Steps(
			npcHead(),
			[]schema.Step{
				schema.Signed(40, 2, "Modal state"),
				schema.Opaque(42, 98, "Unknown"),
			},
			quickSlots(),
			[]schema.Step{
				schema.Text(192, 32, "Name"),
				schema.Opaque(224, 4, "Unknown"),
				schema.Group(228, npcStats),
				schema.Text(344, 8, "Voice set prefix"),
				schema.Text(352, 32, "Voice set"),
				creSection(),
			},
		),
	}
	return bg, pst, iwd
}

// npcSection picks the NPC layout by engine.
func npcSection(kind schema.Kind, label, offset, count string) schema.Step {
	bg, pst, iwd := npcPrograms(kind, label)
	return schema.Sect(&schema.Section{
		Label: label, Kind: kind, Child: bg,
		Alts: []schema.Alt{
			{When: schema.OnEngine(types.EnginePST), Program: pst},
			{When: schema.OnEngine(types.EngineIWD), Program: iwd},
		},
		Offset: offset, Count: count, Mutable: true,
	})
}

var gamGlobal = &schema.Program{
	Kind:  KindGlobal,
	Label: "Variable",
	Steps: []schema.Step{
		schema.Text(0x00, 32, "Name"),
		schema.Enum(0x20, 2, "Type", tblVarType),
		schema.Signed(0x22, 2, "Reference value"),
		schema.Unsigned(0x24, 4, "Dword value"),
		schema.Signed(0x28, 4, "Value"),
		schema.Opaque(0x2C, 8, "Double value"),
		schema.Text(0x34, 32, "Script name"),
	},
}

var gamJournal = &schema.Program{
	Kind:  KindJournal,
	Label: "Journal entry",
	Steps: []schema.Step{
		schema.StrRef(0, "Text"),
		schema.Unsigned(4, 4, "Time (ticks)"),
		schema.Unsigned(8, 1, "Current chapter"),
		schema.Unsigned(9, 1, "Read by"),
		schema.Enum(10, 1, "Section", tblJournalSection),
		schema.Unsigned(11, 1, "Location flag"),
	},
}

func location(kind schema.Kind, label string) *schema.Program {
	return &schema.Program{
		Kind:  kind,
		Label: label,
		Steps: []schema.Step{
			schema.ResRef(0, "Area", "ARE"),
			schema.Signed(8, 2, "Location: X"),
			schema.Signed(10, 2, "Location: Y"),
		},
	}
}

// gamFamiliar covers the nine alignment familiar references at the start
// of the familiar block. Later per-level tables vary between releases and
// stay opaque.
var gamFamiliar = &schema.Program{
	Kind:  KindFamiliar,
	Label: "Familiar info",
	Steps: quick(0, 8, 9, func(off int, label string) schema.Step {
		return schema.ResRef(off, label, "CRE")
	}, "Familiar %d"),
}

// gamHead is the 0xB4-byte header shared by V1.1 and V2.0. The block at
// 0x68 is the familiar block offset in V2.0 and unused in V1.1.
func gamHead(familiar bool) []schema.Step {
	steps := []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.Unsigned(0x08, 4, "Game time (game seconds)"),
		schema.Unsigned(0x0C, 2, "Selected formation"),
	}
	steps = append(steps, quick(0x0E, 2, 5, func(off int, label string) schema.Step {
		return schema.Unsigned(off, 2, label)
	}, "Formation button %d")...)
	steps = append(steps,
		schema.Unsigned(0x18, 4, "Party gold"),
		schema.Signed(0x1C, 2, "# NPCs in party (view)"),
		schema.Hex(0x1E, 2, "Weather"),
		schema.OffsetRef(0x20, 4, "Party members offset", KindPartyNPC, schema.ScopeDirect),
		schema.CountRef(0x24, 4, "# party members", KindPartyNPC, schema.ScopeDirect),
		schema.Hex(0x28, 4, "Party inventory offset"),
		schema.Unsigned(0x2C, 4, "# party inventory items"),
		schema.OffsetRef(0x30, 4, "Non-party characters offset", KindNPC, schema.ScopeDirect),
		schema.CountRef(0x34, 4, "# non-party characters", KindNPC, schema.ScopeDirect),
		schema.OffsetRef(0x38, 4, "Global variables offset", KindGlobal, schema.ScopeDirect),
		schema.CountRef(0x3C, 4, "# global variables", KindGlobal, schema.ScopeDirect),
		schema.ResRef(0x40, "Main area", "ARE"),
		schema.Hex(0x48, 4, "Familiar extra offset"),
		schema.CountRef(0x4C, 4, "# journal entries", KindJournal, schema.ScopeDirect),
		schema.OffsetRef(0x50, 4, "Journal entries offset", KindJournal, schema.ScopeDirect),
		schema.Signed(0x54, 4, "Party reputation (*10)"),
		schema.ResRef(0x58, "Current area", "ARE"),
		schema.Hex(0x60, 4, "GUI flags"),
		schema.Unsigned(0x64, 4, "Loading progress"),
	)
	if familiar {
		steps = append(steps, schema.OffsetRef(0x68, 4, "Familiar info offset", KindFamiliar, schema.ScopeDirect))
	} else {
		steps = append(steps, schema.Opaque(0x68, 4, "Unknown"))
	}
	steps = append(steps,
		schema.OffsetRef(0x6C, 4, "Stored locations offset", KindStoredLoc, schema.ScopeDirect),
		schema.CountRef(0x70, 4, "# stored locations", KindStoredLoc, schema.ScopeDirect),
		schema.Unsigned(0x74, 4, "Game time (real seconds)"),
		schema.OffsetRef(0x78, 4, "Pocket plane locations offset", KindPocketLoc, schema.ScopeDirect),
		schema.CountRef(0x7C, 4, "# pocket plane locations", KindPocketLoc, schema.ScopeDirect),
		schema.Opaque(0x80, 52, "Unused"),

		npcSection(KindPartyNPC, "Party member", "Party members offset", "# party members"),
		npcSection(KindNPC, "Non-party character", "Non-party characters offset", "# non-party characters"),
		schema.Sect(&schema.Section{
			Label: "Variable", Kind: KindGlobal, Child: gamGlobal,
			Offset: "Global variables offset", Count: "# global variables", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Journal entry", Kind: KindJournal, Child: gamJournal,
			Offset: "Journal entries offset", Count: "# journal entries", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Stored location", Kind: KindStoredLoc, Child: location(KindStoredLoc, "Stored location"),
			Offset: "Stored locations offset", Count: "# stored locations", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Pocket plane location", Kind: KindPocketLoc, Child: location(KindPocketLoc, "Pocket plane location"),
			Offset: "Pocket plane locations offset", Count: "# pocket plane locations", Mutable: true,
		}),
	)
	if familiar {
		steps = append(steps, schema.Sect(&schema.Section{
			Label: "Familiar info", Kind: KindFamiliar, Child: gamFamiliar,
			Offset: "Familiar info offset", Fixed: 1, SkipZero: true,
		}))
	}
	return steps
}

var (
	gamV11 = &schema.Program{Kind: KindGAM, Label: "GAM", Steps: gamHead(false)}
	gamV20 = &schema.Program{Kind: KindGAM, Label: "GAM", Steps: gamHead(true)}
)
