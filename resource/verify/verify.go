// Package verify checks the structural invariants of a resource document:
// fields tile the document without gaps or overlaps, every section
// reference agrees with the tree, and fixed-size records have their
// declared size. Every violation is reported, not just the first.
package verify

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/joshuapare/iekit/resource"
)

// ValidationError is one violated invariant.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// All runs every check and combines the violations. Use multierr.Errors to
// split the result.
func All(d *resource.Document) error {
	return multierr.Combine(
		Layout(d),
		References(d),
		Spans(d),
	)
}

// Layout checks that consecutive fields, in offset order, start exactly
// where the previous one ends, beginning at the document base.
func Layout(d *resource.Document) error {
	var errs error
	cursor := d.Base()
	var prev *resource.Field
	for _, f := range d.Leaves() {
		switch {
		case f.Offset() < cursor:
			errs = multierr.Append(errs, &ValidationError{
				Type:    "Layout",
				Message: fmt.Sprintf("%q overlaps %s", f.Name(), describe(prev, cursor)),
				Offset:  f.Offset(),
			})
		case f.Offset() > cursor:
			errs = multierr.Append(errs, &ValidationError{
				Type:    "Layout",
				Message: fmt.Sprintf("gap of %d bytes before %q", f.Offset()-cursor, f.Name()),
				Offset:  cursor,
			})
		}
		cursor = max(cursor, f.End())
		prev = f
	}
	return errs
}

func describe(f *resource.Field, end int) string {
	if f == nil {
		return fmt.Sprintf("data ending at 0x%X", end)
	}
	return fmt.Sprintf("%q ending at 0x%X", f.Name(), end)
}

// References checks every offset, count, index and size field against the
// value the tree implies.
func References(d *resource.Document) error {
	var errs error
	for _, f := range d.Leaves() {
		if !f.IsReference() {
			continue
		}
		want, ok := d.Derive(f)
		if !ok {
			continue
		}
		if got := f.Int(); got != want {
			owner := d.Node(f.Owner())
			errs = multierr.Append(errs, &ValidationError{
				Type:    "Reference",
				Message: fmt.Sprintf("%s %q of %q is %d, tree implies %d", f.Kind(), f.Name(), owner.Label(), got, want),
				Offset:  f.Offset(),
			})
		}
	}
	return errs
}

// Spans checks that every node below the root whose program has a fixed
// size spans exactly that many bytes.
func Spans(d *resource.Document) error {
	var errs error
	root := d.Root().ID()
	_ = d.Walk(func(n *resource.Node, _ int) error {
		if n.ID() == root {
			return nil
		}
		size, fixed := n.Program().Size()
		if fixed && n.Span() != size {
			errs = multierr.Append(errs, &ValidationError{
				Type:    "Span",
				Message: fmt.Sprintf("%q spans %d bytes, its layout is %d", n.Label(), n.Span(), size),
				Offset:  n.Offset(),
			})
		}
		return nil
	})
	return errs
}
