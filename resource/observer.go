package resource

import "github.com/joshuapare/iekit/pkg/types"

// ChangeKind classifies a document change.
type ChangeKind uint8

const (
	ChangeInsert  ChangeKind = iota + 1 // bytes spliced in at Offset
	ChangeRemove                        // bytes cut out at Offset
	ChangeValue                         // a field value changed in place
	ChangeReorder                       // records permuted inside [Offset, Offset+Len)
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeRemove:
		return "remove"
	case ChangeValue:
		return "value"
	case ChangeReorder:
		return "reorder"
	}
	return "unknown"
}

// Change describes one edit. For inserts and removes Delta is the signed
// size change and every position at or beyond Offset moved by it.
type Change struct {
	Kind   ChangeKind
	Parent types.NodeID
	Node   types.NodeID
	Offset int
	Len    int
	Delta  int
}

// Observer is notified after each change, once the tree is consistent again.
type Observer interface {
	Changed(c Change)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Change)

func (f ObserverFunc) Changed(c Change) { f(c) }

// Observe registers o and returns a function that unregisters it.
func (d *Document) Observe(o Observer) func() {
	d.obsSeq++
	id := d.obsSeq
	d.observers = append(d.observers, observerEntry{id: id, o: o})
	return func() {
		for i, e := range d.observers {
			if e.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

type observerEntry struct {
	id int
	o  Observer
}

func (d *Document) notify(c Change) {
	if d.mute > 0 {
		d.pending = append(d.pending, c)
		return
	}
	for _, e := range d.observers {
		e.o.Changed(c)
	}
}

// batch holds back notifications until the returned function runs, so
// observers never see a half-repaired tree.
func (d *Document) batch() func() {
	d.mute++
	return func() {
		d.mute--
		if d.mute > 0 {
			return
		}
		pending := d.pending
		d.pending = nil
		for _, c := range pending {
			d.notify(c)
		}
	}
}
