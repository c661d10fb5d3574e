// Package printer renders resource documents as indented text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/resource"
)

const (
	DefaultIndentSize    = 2
	DefaultMaxDepth      = 0
	DefaultMaxValueBytes = 32
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDepth limits recursion depth (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowFields includes field values in output.
	// Default: true
	ShowFields bool

	// ShowOffsets prefixes every field and node with its absolute offset.
	// Default: true
	ShowOffsets bool

	// ShowKinds includes field encodings and node kinds.
	// Default: false
	ShowKinds bool

	// MaxValueBytes limits how many bytes of opaque fields to display.
	// Longer values are truncated. Set to 0 for no limit.
	// Default: 32
	MaxValueBytes int

	// Strings resolves string references. When nil the document's own
	// string table is used, if it has one.
	Strings types.StringTable
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		MaxDepth:      DefaultMaxDepth,
		ShowFields:    true,
		ShowOffsets:   true,
		MaxValueBytes: DefaultMaxValueBytes,
	}
}

// Printer handles formatted output of resource documents.
type Printer struct {
	opts   Options
	writer io.Writer
	doc    *resource.Document
}

// New creates a new Printer.
//
// Example:
//
//	doc, _ := formats.ReadFile("GUARD.CRE")
//	p := printer.New(doc, os.Stdout, printer.DefaultOptions())
//	p.PrintTree("")
func New(doc *resource.Document, w io.Writer, opts Options) *Printer {
	if opts.Strings == nil {
		opts.Strings = doc.Strings()
	}
	return &Printer{doc: doc, writer: w, opts: opts}
}

// PrintNode prints one node and its fields, without children. The path
// uses the labels accepted by (*resource.Document).Resolve.
func (p *Printer) PrintNode(path string) error {
	n, err := p.doc.Resolve(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(n, false)
	default:
		return p.printNodeText(n, 0)
	}
}

// PrintTree prints a whole subtree.
func (p *Printer) PrintTree(path string) error {
	n, err := p.doc.Resolve(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(n, true)
	default:
		return p.printTreeText(n, 0)
	}
}

// PrintField prints a single field of the node at path.
func (p *Printer) PrintField(path, name string) error {
	n, err := p.doc.Resolve(path)
	if err != nil {
		return fmt.Errorf("find node %q: %w", path, err)
	}
	f, ok := n.Field(name)
	if !ok {
		return types.Errorf(types.ErrKindNotFound, "node %q has no field %q", n.Label(), name)
	}
	switch p.opts.Format {
	case FormatJSON:
		return p.printFieldJSON(f)
	default:
		return p.printFieldText(f, 0)
	}
}
