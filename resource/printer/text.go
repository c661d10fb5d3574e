package printer

import (
	"fmt"
	"strings"

	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/schema"
)

// printNodeText prints a node header and, if requested, its own fields.
func (p *Printer) printNodeText(n *resource.Node, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	fmt.Fprintf(p.writer, "%s[%s]", indent, n.Label())
	if p.opts.ShowOffsets {
		fmt.Fprintf(p.writer, " @0x%X", n.Offset())
	}
	if p.opts.ShowKinds {
		fmt.Fprintf(p.writer, " <%s>", n.Kind())
	}
	if n.IsRecord() {
		fmt.Fprintf(p.writer, " %s %s, %d bytes",
			strings.TrimSpace(n.Signature()), strings.TrimSpace(n.Version()), n.Size())
	}
	fmt.Fprintln(p.writer)

	if !p.opts.ShowFields {
		return nil
	}
	for _, f := range n.Fields() {
		if err := p.printFieldText(f, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printFieldText prints one field as: [offset] "Name" [kind] = value.
func (p *Printer) printFieldText(f *resource.Field, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	fmt.Fprint(p.writer, indent)
	if p.opts.ShowOffsets {
		fmt.Fprintf(p.writer, "0x%04X ", f.Offset())
	}
	fmt.Fprintf(p.writer, "%q", f.Name())
	if p.opts.ShowKinds {
		fmt.Fprintf(p.writer, " [%s:%d]", f.Kind(), f.Width())
	}
	_, err := fmt.Fprintf(p.writer, " = %s\n", p.textValue(f))
	return err
}

func (p *Printer) textValue(f *resource.Field) string {
	switch f.Kind() {
	case schema.KindOpaque:
		data := f.Bytes()
		shown, truncated := p.clip(data)
		if len(shown) == 0 {
			return "<empty>" + truncated
		}
		return fmt.Sprintf("%X%s", shown, truncated)
	case schema.KindText:
		return fmt.Sprintf("%q", f.Text())
	case schema.KindResRef:
		if r := f.ResRef(); r != "" {
			return r
		}
		return "<none>"
	case schema.KindOffset, schema.KindSize:
		return fmt.Sprintf("0x%X (%d)", f.Uint(), f.Uint())
	}
	return f.Display(p.opts.Strings)
}

// clip applies MaxValueBytes and returns the note to append when it cut.
func (p *Printer) clip(data []byte) ([]byte, string) {
	maxBytes := p.opts.MaxValueBytes
	if maxBytes == 0 || len(data) <= maxBytes {
		return data, ""
	}
	return data[:maxBytes], fmt.Sprintf(" (truncated, %d total bytes)", len(data))
}

// printTreeText recursively prints a subtree in text format.
func (p *Printer) printTreeText(n *resource.Node, depth int) error {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return nil
	}
	if err := p.printNodeText(n, depth); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := p.printTreeText(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
