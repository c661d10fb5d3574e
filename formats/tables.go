package formats

import "github.com/joshuapare/iekit/schema"

// Value tables shared by several formats. Catalog IDS tables replace the
// ones declared with an IDS name whenever the catalog holds them.

var (
	tblNoYes = schema.List("noyes", "No", "Yes")

	tblAbilityType = schema.List("ability type",
		"Default", "Melee", "Ranged", "Magical", "Launcher")

	tblAbilityUse = schema.Sparse("ability location", map[int64]string{
		1: "Weapon slots",
		2: "Spell slots",
		3: "Item slots",
		4: "Gem?",
	})

	tblTargetType = schema.List("target type",
		"Invalid", "Living actor", "Inventory", "Dead actor",
		"Any point within range", "Caster", "Crash", "Caster (keep spell, no animation)")

	tblDamageType = schema.List("damage type",
		"None", "Piercing", "Crushing", "Slashing", "Missile", "Fist",
		"Piercing/Crushing", "Piercing/Slashing", "Crushing/Slashing", "Blunt missile")

	tblLauncher = schema.List("launcher", "None", "Bow", "Crossbow", "Sling")

	tblDrain = schema.List("when drained",
		"Item remains", "Item vanishes", "Replace with used up", "Item recharges")

	tblAbilityFlags = schema.List("ability flags",
		"Add strength bonus", "Breakable", "EE: Damage strength bonus",
		"EE: THAC0 strength bonus", "", "", "", "", "", "",
		"Hostile", "Recharge after resting", "", "", "", "", "Bypass armor", "Keen edge", "",
		"", "", "", "", "", "", "Ex: Toggle backstab", "Ex: Cannot target invisible")

	tblProjectile = schema.List("projectile",
		"", "None", "Arrow", "Arrow exploding", "Arrow flaming", "Arrow heavy",
		"Arrow (non-magical)", "Axe", "Axe exploding", "Axe flaming", "Axe heavy",
		"Axe (non-magical)", "Bolt", "Bolt exploding", "Bolt flaming", "Bolt heavy",
		"Bolt (non-magical)", "Bullet", "Bullet exploding", "Bullet flaming",
		"Bullet heavy", "Bullet (non-magical)")

	tblProjectilePST = schema.List("projectile (pst)",
		"", "None", "Arrow", "Arrow exploding", "Arrow flaming", "Arrow heavy",
		"Arrow (non-magical)", "Axe", "Axe exploding", "Axe flaming", "Axe heavy",
		"Axe (non-magical)", "Bolt", "Bolt exploding")

	tblProjectileIWD = schema.List("projectile (iwd)",
		"", "None", "Arrow", "Arrow exploding", "Arrow flaming", "Arrow heavy",
		"Arrow (non-magical)", "Axe", "Axe exploding", "Axe flaming", "Axe heavy",
		"Axe (non-magical)", "Bolt", "Bolt exploding", "Bolt flaming", "Bolt heavy",
		"Bolt (non-magical)", "Bullet", "Bullet exploding", "Bullet flaming",
		"Bullet heavy", "Bullet (non-magical)", "Magic missile", "Fireball")

	tblEffectTarget = schema.List("effect target",
		"None", "Self", "Preset target", "Party", "Everyone",
		"Everyone except party", "Caster group", "Target group", "Everyone except self",
		"Original caster")

	tblTiming = schema.Sparse("timing mode", map[int64]string{
		0:    "Instant/Limited",
		1:    "Instant/Permanent until death",
		2:    "Instant/While equipped",
		3:    "Delay/Limited",
		4:    "Delay/Permanent",
		5:    "Delay/While equipped",
		6:    "Limited after duration",
		7:    "Permanent after duration",
		8:    "Equipped after duration",
		9:    "Instant/Permanent",
		10:   "Instant/Limited (ticks)",
		4096: "Absolute duration",
	})

	tblDispel = schema.List("dispel/resistance",
		"Natural/Nonmagical", "Dispel/Not bypass resistance",
		"Not dispel/Bypass resistance", "Dispel/Bypass resistance")

	tblSaveType = schema.List("save type",
		"Spell", "Breath weapon", "Paralyze/Poison/Death", "Wand", "Petrify/Polymorph")

	tblSpellType = schema.List("spell type",
		"Special", "Wizard", "Priest", "Psionic", "Innate", "Bard song")

	tblItemType = schema.List("item type",
		"Books/misc", "Amulets and necklaces", "Armor", "Belts and girdles",
		"Boots", "Arrows", "Bracers and gauntlets", "Headgear", "Keys", "Potions",
		"Rings", "Scrolls", "Shields", "Food", "Bullets", "Bows", "Daggers",
		"Maces", "Slings", "Small swords", "Large swords", "Hammers",
		"Morning stars", "Flails", "Darts", "Axes", "Quarterstaves", "Crossbows",
		"Hand-to-hand weapons", "Spears", "Halberds", "Bolts", "Cloaks and robes",
		"Gold pieces", "Gems", "Wands", "Containers", "Books", "Familiars",
		"Tattoos", "Lenses", "Bucklers", "Candles", "Child bodies", "Clubs",
		"Female bodies", "Keys (PST)", "Large shields", "Male bodies",
		"Medium shields", "Notes", "Rods", "Skulls", "Small shields",
		"Spider bodies", "Telescopes", "Drinks", "Great swords", "Containers",
		"Fur/pelt", "Leather armor", "Studded leather armor", "Chain mail",
		"Splint mail", "Half plate", "Full plate", "Hide armor", "Robes",
		"Scale mail", "Bastard swords", "Scarves", "Food (IWD2)", "Hats", "Gauntlets")

	tblItemFlags = schema.List("item flags",
		"Critical item", "Two-handed", "Droppable", "Displayable", "Cursed",
		"Not copyable", "Magical", "Left-handed", "Silver", "Cold iron",
		"Off-handed", "Conversable", "EE: Fake two-handed", "EE: Forbid off-hand animation",
		"", "EE: Adamantine", "", "", "", "", "", "", "", "", "", "EE: Undispellable",
		"EE: Toggle critical hits")

	tblSpellFlags = schema.List("spell flags",
		"", "", "", "", "", "", "", "", "", "Break sanctuary", "Hostile",
		"No LOS required", "Allow spotting", "Outdoors only", "Non-magical ability",
		"Trigger/Contingency", "Non-combat ability")

	tblSchool = schema.List("school",
		"None", "Abjurer", "Conjurer", "Diviner", "Enchanter", "Illusionist",
		"Invoker", "Necromancer", "Transmuter", "Generalist")

	tblEffectVersion = schema.List("effect version", "Version 1", "Version 2")

	tblOrientation = schema.List("orientation",
		"South", "SSW", "SW", "WSW", "West", "WNW", "NW", "NNW",
		"North", "NNE", "NE", "ENE", "East", "ESE", "SE", "SSE")

	tblSelection = schema.Sparse("selection state", map[int64]string{
		0:      "Not selected",
		1:      "Selected",
		0x8000: "Dead",
	})

	tblPartyOrder = schema.Sparse("party position", map[int64]string{
		0:      "Slot 1",
		1:      "Slot 2",
		2:      "Slot 3",
		3:      "Slot 4",
		4:      "Slot 5",
		5:      "Slot 6",
		0xFFFF: "Not in party",
	})

	tblStoreType = schema.List("store type",
		"Store", "Tavern", "Inn", "Temple", "Container")

	tblStoreFlags = schema.List("store flags",
		"User allowed to buy", "User allowed to sell", "User allowed to identify",
		"User allowed to steal", "User allowed to donate money",
		"User allowed to purchase cures", "User allowed to purchase drinks", "",
		"", "Quality bit 0 (tavern)", "Quality bit 1 (tavern)", "", "", "Buy fenced goods",
		"Reputation does not affect prices", "Toggle item recharge")

	tblRoomFlags = schema.List("room types",
		"Peasant", "Merchant", "Noble", "Royal")

	tblStoreItemFlags = schema.List("store item flags",
		"Identified", "Unstealable", "Stolen", "Undroppable")

	tblHasBackground = schema.List("has background", "No", "Yes")

	tblPanelFlags = schema.List("panel flags", "Don't dim background")

	tblControlType = schema.List("control type",
		"Button", "", "Slider", "Text field", "", "Text area", "Label", "Scroll bar")

	tblVarType = schema.Sparse("variable type", map[int64]string{
		0: "Integer",
		1: "Float",
		2: "Script name",
		3: "Resource reference",
		4: "String reference",
		5: "Double word",
	})

	tblJournalSection = schema.Sparse("journal section", map[int64]string{
		0x00: "User notes",
		0x01: "Quests",
		0x02: "Done quests",
		0x04: "Journal info",
	})
)
