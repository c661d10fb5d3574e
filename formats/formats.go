// Package formats declares the Infinity Engine record layouts as schema
// programs and registers them by signature and version:
//
//	CHUI V1                      UI panel layouts
//	CRE  V1.0, V1.1, V1.2, V9.0  creatures
//	CHR  V1.0, V2.0, V2.1, V2.2  character envelopes around a CRE
//	ITM  V1                      items
//	SPL  V1                      spells
//	GAME V1.1, V2.0              saved games, NPCs embed a CRE each
//	STOR V1.0                    stores
//
// Layout variants that depend on the game are selected through the read
// options: the engine (GAM NPCs, ITM abilities) and the catalog (KIT.IDS,
// PROJECTL.IDS and the IDS tables behind enum fields).
package formats

import (
	"strings"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
)

// ScriptNameField labels the CRE script name (death variable) field.
const ScriptNameField = "Script name"

// Read parses b with the default registry. Options given here override it.
func Read(b []byte, opts ...resource.Option) (*resource.Document, error) {
	return resource.Read(b, 0, withDefault(opts)...)
}

// ReadFile parses the file at path with the default registry.
func ReadFile(path string, opts ...resource.Option) (*resource.Document, error) {
	return resource.ReadFile(path, withDefault(opts)...)
}

func withDefault(opts []resource.Option) []resource.Option {
	return append([]resource.Option{resource.WithRegistry(Default())}, opts...)
}

// FindCRE returns the first CRE record in doc: the root itself, or the
// first embedded one in offset order.
func FindCRE(doc *resource.Document) (*resource.Node, bool) {
	var found *resource.Node
	_ = doc.Walk(func(n *resource.Node, _ int) error {
		if found == nil && n.IsRecord() && !n.IsOpaque() && n.Kind() == KindCRE {
			found = n
		}
		return nil
	})
	return found, found != nil
}

// ExtractCRE returns the CRE embedded in a CHR envelope or GAM NPC as a
// standalone document based at offset 0.
func ExtractCRE(doc *resource.Document) (*resource.Document, error) {
	n, ok := FindCRE(doc)
	if !ok {
		return nil, types.Errorf(types.ErrKindNotFound, "%s: no CRE record", doc.Root().Label())
	}
	return doc.Extract(n.ID())
}

// ScriptName returns the normalized script name of the first CRE in doc:
// lower case with spaces removed, as scripts refer to it.
func ScriptName(doc *resource.Document) (string, bool) {
	n, ok := FindCRE(doc)
	if !ok {
		return "", false
	}
	f, ok := n.Field(ScriptNameField)
	if !ok {
		return "", false
	}
	return NormalizeScriptName(f.Text()), true
}

// NormalizeScriptName lower-cases s and drops spaces.
func NormalizeScriptName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// SortStoreItems orders the items for sale of a STO document by item
// resource name. Items with equal names keep their order.
func SortStoreItems(doc *resource.Document) error {
	root := doc.Root()
	if root.Kind() != KindSTO {
		return types.Errorf(types.ErrKindState, "sort store items: %s is not a store", root.Label())
	}
	return doc.Reorder(root.ID(), KindSaleItem, func(a, b *resource.Node) bool {
		return itemName(a) < itemName(b)
	})
}

func itemName(n *resource.Node) string {
	if f, ok := n.Field("Item"); ok {
		return f.ResRef()
	}
	return ""
}
