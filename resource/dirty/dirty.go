// Package dirty tracks which byte ranges of a resource document changed
// since it was read, so a caller can rewrite only those ranges of the file
// it came from.
//
// The tracker observes the document. A value change marks the field's
// bytes. An insert or remove marks everything from the edit point to the
// end, since every later byte moved. A reorder marks the permuted block.
// Ranges are coalesced, and optionally rounded out to page boundaries, when
// they are read or flushed.
package dirty

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/joshuapare/iekit/resource"
)

// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
const defaultRangeCapacity = 64

// Range is a dirty byte range in document offsets.
type Range struct {
	Off int64
	Len int64
}

// End returns one past the last byte of the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges of one document.
//
// NOT thread-safe, like the document it observes.
type Tracker struct {
	doc      *resource.Document
	ranges   []Range
	pageSize int64
	resized  bool
	stop     func()
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPageSize rounds coalesced ranges out to multiples of size.
// Values below 2 disable rounding.
func WithPageSize(size int) Option {
	return func(t *Tracker) {
		if size > 1 {
			t.pageSize = int64(size)
		}
	}
}

// NewTracker starts tracking doc. Call Close to stop.
func NewTracker(doc *resource.Document, opts ...Option) *Tracker {
	t := &Tracker{
		doc:      doc,
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: 1,
	}
	for _, o := range opts {
		o(t)
	}
	t.stop = doc.Observe(t)
	return t
}

// Close stops observing the document. Tracked ranges are kept.
func (t *Tracker) Close() {
	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
}

// Add records a dirty range.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: int64(off), Len: int64(length)})
}

// Changed implements resource.Observer.
func (t *Tracker) Changed(c resource.Change) {
	switch c.Kind {
	case resource.ChangeValue, resource.ChangeReorder:
		t.Add(c.Offset, c.Len)
	case resource.ChangeInsert, resource.ChangeRemove:
		t.resized = true
		t.Add(c.Offset, t.doc.End()-c.Offset)
	}
}

// Dirty reports whether anything changed.
func (t *Tracker) Dirty() bool { return len(t.ranges) > 0 || t.resized }

// Resized reports whether an insert or remove changed the document size.
func (t *Tracker) Resized() bool { return t.resized }

// Reset clears every tracked range.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
	t.resized = false
}

// Raw returns a copy of the uncoalesced ranges, in the order they were added.
func (t *Tracker) Raw() []Range {
	out := make([]Range, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// Ranges returns the sorted, merged dirty ranges.
func (t *Tracker) Ranges() []Range { return t.coalesce() }

// coalesce rounds every range out to the page size, sorts them, and merges
// overlapping or adjacent ones.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}
	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start := (r.Off / t.pageSize) * t.pageSize
		end := r.End()
		if end%t.pageSize != 0 {
			end = (end/t.pageSize + 1) * t.pageSize
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}
	sort.Slice(aligned, func(i, j int) bool { return aligned[i].Off < aligned[j].Off })

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			current.Len = max(current.End(), next.End()) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// truncater is implemented by *os.File.
type truncater interface {
	Truncate(size int64) error
}

// Flush writes the dirty ranges of the serialized document to w, at file
// offsets relative to the document base, and truncates w to the document
// size when it shrank and w supports it. Ranges are cleared on success.
//
// The context is checked between ranges; a cancelled flush may have
// written some of them.
func (t *Tracker) Flush(ctx context.Context, w io.WriterAt) (int64, error) {
	if !t.Dirty() {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := t.doc.Bytes()
	if err != nil {
		return 0, fmt.Errorf("dirty: serialize: %w", err)
	}
	base := int64(t.doc.Base())
	size := int64(len(data))

	var written int64
	for _, r := range t.coalesce() {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		start := max(r.Off-base, 0)
		end := min(r.End()-base, size)
		if start >= end {
			continue
		}
		n, err := w.WriteAt(data[start:end], start)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("dirty: write 0x%x+%d: %w", start, end-start, err)
		}
	}
	if t.resized {
		if tr, ok := w.(truncater); ok {
			if err := tr.Truncate(size); err != nil {
				return written, fmt.Errorf("dirty: truncate to %d: %w", size, err)
			}
		}
	}
	t.Reset()
	return written, nil
}
