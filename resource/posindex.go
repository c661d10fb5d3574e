package resource

import (
	"github.com/tidwall/btree"

	"github.com/joshuapare/iekit/pkg/types"
)

type posKind uint8

const (
	posField posKind = iota
	posNode
	posExtra
)

// posItem is one shiftable position: a field offset, a node offset, or a
// node's extra offset.
type posItem struct {
	off   int
	seq   uint64
	kind  posKind
	field *Field
	node  types.NodeID
}

// posIndex orders every shiftable position of a document by (offset, seq)
// so an edit can visit "everything at or beyond P" without walking the tree.
type posIndex struct {
	tree *btree.BTreeG[posItem]
}

func newPosIndex() *posIndex {
	less := func(a, b posItem) bool {
		if a.off != b.off {
			return a.off < b.off
		}
		return a.seq < b.seq
	}
	return &posIndex{tree: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true})}
}

func (p *posIndex) add(it posItem) { p.tree.Set(it) }

func (p *posIndex) remove(off int, seq uint64) {
	p.tree.Delete(posItem{off: off, seq: seq})
}

func (p *posIndex) len() int { return p.tree.Len() }

// from returns the items with offset >= off in ascending order.
func (p *posIndex) from(off int) []posItem {
	var out []posItem
	p.tree.Ascend(posItem{off: off}, func(it posItem) bool {
		out = append(out, it)
		return true
	})
	return out
}

// rangeOf returns the items with start <= offset < end.
func (p *posIndex) rangeOf(start, end int) []posItem {
	var out []posItem
	p.tree.Ascend(posItem{off: start}, func(it posItem) bool {
		if it.off >= end {
			return false
		}
		out = append(out, it)
		return true
	})
	return out
}

// shift moves every position at or beyond from by delta. Items are removed
// and re-inserted because their keys change.
func (p *posIndex) shift(d *Document, from, delta int) {
	if delta == 0 {
		return
	}
	items := p.from(from)
	for _, it := range items {
		p.tree.Delete(it)
	}
	for _, it := range items {
		it.off += delta
		d.setPos(it)
		p.tree.Set(it)
	}
}

// move relocates a set of items by delta without touching anything else.
func (p *posIndex) move(d *Document, items []posItem, delta int) {
	for _, it := range items {
		p.tree.Delete(it)
	}
	for _, it := range items {
		it.off += delta
		d.setPos(it)
		p.tree.Set(it)
	}
}
