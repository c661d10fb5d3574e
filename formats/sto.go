package formats

import "github.com/joshuapare/iekit/schema"

// Node kinds of STO records.
const (
	KindSTO       schema.Kind = "sto"
	KindSaleItem  schema.Kind = "sto.item"
	KindDrink     schema.Kind = "sto.drink"
	KindCure      schema.Kind = "sto.cure"
	KindPurchased schema.Kind = "sto.purchased"
)

var stoItem = &schema.Program{
	Kind:  KindSaleItem,
	Label: "Item for sale",
	Steps: []schema.Step{
		schema.ResRef(0x00, "Item", "ITM"),
		schema.Unsigned(0x08, 2, "Expiration time"),
		schema.Unsigned(0x0A, 2, "Quantity/Charges 1"),
		schema.Unsigned(0x0C, 2, "Quantity/Charges 2"),
		schema.Unsigned(0x0E, 2, "Quantity/Charges 3"),
		schema.Flags(0x10, 4, "Flags", tblStoreItemFlags),
		schema.Unsigned(0x14, 4, "# in stock"),
		schema.Enum(0x18, 4, "Infinite supply?", tblNoYes),
	},
}

var stoDrink = &schema.Program{
	Kind:  KindDrink,
	Label: "Drink for sale",
	Steps: []schema.Step{
		schema.ResRef(0x00, "Rumor", "DLG"),
		schema.StrRef(0x08, "Drink name"),
		schema.Unsigned(0x0C, 4, "Price"),
		schema.Unsigned(0x10, 4, "Rumor rate"),
	},
}

var stoCure = &schema.Program{
	Kind:  KindCure,
	Label: "Cure for sale",
	Steps: []schema.Step{
		schema.ResRef(0x00, "Spell", "SPL"),
		schema.Unsigned(0x08, 4, "Price"),
	},
}

var stoPurchased = &schema.Program{
	Kind:  KindPurchased,
	Label: "Store purchases",
	Steps: []schema.Step{
		schema.Enum(0, 4, "Item type", tblItemType),
	},
}

// STO V1.0 header (0x9C bytes).
var stoV10 = &schema.Program{
	Kind:  KindSTO,
	Label: "STO",
	Steps: []schema.Step{
		schema.Text(0x00, 4, "Signature"),
		schema.Text(0x04, 4, "Version"),
		schema.Enum(0x08, 4, "Type", tblStoreType),
		schema.StrRef(0x0C, "Name"),
		schema.Flags(0x10, 4, "Flags", tblStoreFlags),
		schema.Unsigned(0x14, 4, "Sell markup"),
		schema.Unsigned(0x18, 4, "Buy markup"),
		schema.Unsigned(0x1C, 4, "Depreciation rate"),
		schema.Unsigned(0x20, 2, "Stealing difficulty"),
		schema.Unsigned(0x22, 2, "Storage capacity"),
		schema.Opaque(0x24, 8, "Unknown"),
		schema.OffsetRef(0x2C, 4, "Items purchased offset", KindPurchased, schema.ScopeDirect),
		schema.CountRef(0x30, 4, "# items purchased", KindPurchased, schema.ScopeDirect),
		schema.OffsetRef(0x34, 4, "Items for sale offset", KindSaleItem, schema.ScopeDirect),
		schema.CountRef(0x38, 4, "# items for sale", KindSaleItem, schema.ScopeDirect),
		schema.Unsigned(0x3C, 4, "Lore"),
		schema.Unsigned(0x40, 4, "Cost to identify"),
		schema.ResRef(0x44, "Rumors (drinks)", "DLG"),
		schema.OffsetRef(0x4C, 4, "Drinks for sale offset", KindDrink, schema.ScopeDirect),
		schema.CountRef(0x50, 4, "# drinks for sale", KindDrink, schema.ScopeDirect),
		schema.ResRef(0x54, "Rumors (donations)", "DLG"),
		schema.Flags(0x5C, 4, "Available rooms", tblRoomFlags),
		schema.Unsigned(0x60, 4, "Price peasant room"),
		schema.Unsigned(0x64, 4, "Price merchant room"),
		schema.Unsigned(0x68, 4, "Price noble room"),
		schema.Unsigned(0x6C, 4, "Price royal room"),
		schema.OffsetRef(0x70, 4, "Cures for sale offset", KindCure, schema.ScopeDirect),
		schema.CountRef(0x74, 4, "# cures for sale", KindCure, schema.ScopeDirect),
		schema.Opaque(0x78, 36, "Unused"),
		schema.Sect(&schema.Section{
			Label: "Store purchases", Kind: KindPurchased, Child: stoPurchased,
			Offset: "Items purchased offset", Count: "# items purchased", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Item for sale", Kind: KindSaleItem, Child: stoItem,
			Offset: "Items for sale offset", Count: "# items for sale", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Drink for sale", Kind: KindDrink, Child: stoDrink,
			Offset: "Drinks for sale offset", Count: "# drinks for sale", Mutable: true,
		}),
		schema.Sect(&schema.Section{
			Label: "Cure for sale", Kind: KindCure, Child: stoCure,
			Offset: "Cures for sale offset", Count: "# cures for sale", Mutable: true,
		}),
	},
}
