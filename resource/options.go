package resource

import (
	"io"
	"log/slog"

	"github.com/joshuapare/iekit/pkg/types"
	"github.com/joshuapare/iekit/schema"
)

// Options configures how a document is read.
type Options struct {
	// Registry supplies the programs records are dispatched to.
	// Required; formats.Default() carries every supported format.
	Registry *schema.Registry

	// Engine selects among layouts that share a signature and version.
	// Default: types.EngineBG2
	Engine types.Engine

	// Catalog answers which auxiliary resources exist. Some layout variants
	// depend on it.
	// Default: nil (no auxiliary resources)
	Catalog types.Catalog

	// Strings resolves string references when fields are displayed.
	// Default: nil
	Strings types.StringTable

	// Tolerant turns an unsupported embedded record into opaque bytes
	// instead of failing the read. Top-level records always fail.
	// Default: false
	Tolerant bool

	// Limits bounds nesting depth, section counts and input size.
	// Default: types.DefaultLimits()
	Limits types.Limits

	// Logger receives dispatch diagnostics.
	// Default: a logger that discards everything
	Logger *slog.Logger
}

// DefaultOptions returns options with every default applied and no registry.
func DefaultOptions() *Options {
	return &Options{
		Engine: types.EngineBG2,
		Limits: types.DefaultLimits(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option adjusts Options.
type Option func(*Options)

func WithRegistry(r *schema.Registry) Option  { return func(o *Options) { o.Registry = r } }
func WithEngine(e types.Engine) Option        { return func(o *Options) { o.Engine = e } }
func WithCatalog(c types.Catalog) Option      { return func(o *Options) { o.Catalog = c } }
func WithStrings(st types.StringTable) Option { return func(o *Options) { o.Strings = st } }
func WithTolerant(tolerant bool) Option       { return func(o *Options) { o.Tolerant = tolerant } }
func WithLimits(l types.Limits) Option        { return func(o *Options) { o.Limits = l } }

// WithLogger sets the diagnostics logger. A nil logger keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) *Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// options returns the document's read options as a list, so derived
// documents (grafted children, extracted records) read the same way.
func (o *Options) options() []Option {
	cp := *o
	return []Option{func(dst *Options) { *dst = cp }}
}
