// Package schema describes binary record layouts as data.
//
// A Program is an ordered list of Steps. Each step constructs one field at a
// fixed offset from the node start, resolves a section of child records,
// embeds an inline group, or branches on a Cond. Programs never execute
// anything themselves; the resource package interprets them against a byte
// buffer.
//
// # Dispatch
//
// A Registry maps a (signature, version) pair to one or more candidate
// programs. Several game engines share a tag but disagree on layout, so a
// candidate may carry a Cond over the environment (engine, catalog). Lookup
// must select exactly one candidate; anything else fails closed:
//
//	prog, err := reg.Lookup("CRE ", "V9.9", env)
//	// err matches types.ErrUnsupportedVersion
//
// # Validation
//
// Registry.Validate walks every program reachable from the registry once and
// rejects widths that do not fit their kind, references to labels that are
// not read earlier in the same program, and mutable sections whose child has
// no fixed size. Call it once at startup.
//
// # Section references
//
// Fields of kind KindOffset, KindCount, KindIndex and KindSize are bound to a
// target Kind and a Scope. The resource package re-derives their values from
// the live tree after every structural edit.
package schema
