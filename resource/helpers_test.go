package resource

import (
	"os"

	"github.com/joshuapare/iekit/schema"
)

func kindsOf(ks []schema.Kind) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	return out
}

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// offsets snapshots every field's offset.
func offsets(d *Document) map[*Field]int {
	m := make(map[*Field]int)
	for _, f := range d.Leaves() {
		m[f] = f.Offset()
	}
	return m
}
