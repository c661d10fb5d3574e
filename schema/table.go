package schema

import (
	"sort"
	"strconv"
)

// Table maps integer values to labels. An ordered table indexes labels by
// value; a sparse table keeps an explicit value map. For KindFlags fields the
// ordered labels name bits 0..n.
type Table struct {
	name   string
	labels []string
	sparse map[int64]string
}

// List builds an ordered table: labels[i] names value i.
func List(name string, labels ...string) *Table {
	return &Table{name: name, labels: labels}
}

// Sparse builds a value-keyed table.
func Sparse(name string, m map[int64]string) *Table {
	cp := make(map[int64]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Table{name: name, sparse: cp}
}

// Name returns the table name used in diagnostics.
func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Len returns the number of labelled values.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	if t.sparse != nil {
		return len(t.sparse)
	}
	return len(t.labels)
}

// Label returns the label for v. Empty labels count as unmapped.
func (t *Table) Label(v int64) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.sparse != nil {
		s, ok := t.sparse[v]
		return s, ok && s != ""
	}
	if v < 0 || v >= int64(len(t.labels)) || t.labels[v] == "" {
		return "", false
	}
	return t.labels[v], true
}

// Render returns the label for v, or the raw number when unmapped.
func (t *Table) Render(v int64) string {
	if s, ok := t.Label(v); ok {
		return s + " (" + strconv.FormatInt(v, 10) + ")"
	}
	return strconv.FormatInt(v, 10)
}

// Bits returns the labels of the set bits of v, lowest bit first.
// Set bits without a label render as "bit N".
func (t *Table) Bits(v uint64) []string {
	var out []string
	for bit := 0; bit < 64; bit++ {
		if v&(1<<uint(bit)) == 0 {
			continue
		}
		if s, ok := t.Label(int64(bit)); ok {
			out = append(out, s)
		} else {
			out = append(out, "bit "+strconv.Itoa(bit))
		}
	}
	return out
}

// Values returns the mapped values in ascending order.
func (t *Table) Values() []int64 {
	if t == nil {
		return nil
	}
	var out []int64
	if t.sparse != nil {
		for k, v := range t.sparse {
			if v != "" {
				out = append(out, k)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}
	for i, s := range t.labels {
		if s != "" {
			out = append(out, int64(i))
		}
	}
	return out
}
