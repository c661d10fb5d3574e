package schema

import (
	"github.com/joshuapare/iekit/pkg/types"
)

// CondOp selects the variant of a Cond.
type CondOp uint8

const (
	CondAlways   CondOp = iota // zero value: always true
	CondEngine                 // environment engine is one of Engines
	CondResource               // catalog contains Name
	CondByte                   // byte at Off (relative to the node) equals Value
	CondField                  // field Name read earlier equals Value
	CondStride                 // (Name - Base) / Per equals Value
)

// Cond is a predicate over the read environment.
type Cond struct {
	Op      CondOp
	Negate  bool
	Engines []types.Engine
	Name    string
	Base    string
	Per     string
	Off     int
	Value   int64
}

// Env is what a Cond can observe while a node is being read.
type Env interface {
	Engine() types.Engine
	Has(resource string) bool
	// Byte returns the byte at off relative to the node being read.
	Byte(off int) (byte, bool)
	// Value returns the integer value of the nearest field with the given
	// label, searching the node being read and then its ancestors within
	// the same record.
	Value(label string) (int64, bool)
}

// Always is the unconditional Cond.
func Always() Cond { return Cond{} }

// OnEngine holds when the environment engine is one of engines.
func OnEngine(engines ...types.Engine) Cond {
	return Cond{Op: CondEngine, Engines: engines}
}

// HasResource holds when the catalog contains name.
func HasResource(name string) Cond { return Cond{Op: CondResource, Name: name} }

// ByteEq holds when the byte at off equals v.
func ByteEq(off int, v byte) Cond { return Cond{Op: CondByte, Off: off, Value: int64(v)} }

// FieldEq holds when the field labelled name equals v.
func FieldEq(name string, v int64) Cond { return Cond{Op: CondField, Name: name, Value: v} }

// StrideEq holds when (end - start) / per equals v, all three read from
// fields. It distinguishes record sizes the header does not state.
func StrideEq(end, start, per string, v int64) Cond {
	return Cond{Op: CondStride, Name: end, Base: start, Per: per, Value: v}
}

// Not inverts c.
func Not(c Cond) Cond {
	c.Negate = !c.Negate
	return c
}

// Eval evaluates c against env. A field the condition needs but cannot find
// makes it false before negation.
func (c Cond) Eval(env Env) bool {
	return c.eval(env) != c.Negate
}

func (c Cond) eval(env Env) bool {
	switch c.Op {
	case CondAlways:
		return true
	case CondEngine:
		e := env.Engine()
		for _, want := range c.Engines {
			if e == want {
				return true
			}
		}
		return false
	case CondResource:
		return env.Has(c.Name)
	case CondByte:
		b, ok := env.Byte(c.Off)
		return ok && int64(b) == c.Value
	case CondField:
		v, ok := env.Value(c.Name)
		return ok && v == c.Value
	case CondStride:
		end, ok1 := env.Value(c.Name)
		start, ok2 := env.Value(c.Base)
		per, ok3 := env.Value(c.Per)
		if !ok1 || !ok2 || !ok3 || per <= 0 || end < start {
			return false
		}
		return (end-start)/per == c.Value
	}
	return false
}

// labels returns the field labels c reads.
func (c Cond) labels() []string {
	switch c.Op {
	case CondField:
		return []string{c.Name}
	case CondStride:
		return []string{c.Name, c.Base, c.Per}
	}
	return nil
}
