package object

import (
	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
)

// Int is the concrete façade over the runtime's integer type.
type Int struct{ Object }

// NewInt constructs an Int from a host int64.
func NewInt(rt abi.Runtime, v int64) Int { return Int{Steal(rt, rt.NewInt(v))} }

// Val extracts the host int64 value (C4's val() accessor).
func (i Int) Val() (int64, error) { return convert.ExtractInt(i.rt(), i.ref()) }

// FromRuntime implements convert.FromRuntime for Int.
func (i *Int) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	if _, ok := rt.AsInt(obj); !ok {
		return extractMismatch(rt, "int", obj)
	}
	i.Object = Borrow(rt, obj)
	return nil
}

// Float is the concrete façade over the runtime's floating type.
type Float struct{ Object }

func NewFloat(rt abi.Runtime, v float64) Float { return Float{Steal(rt, rt.NewFloat(v))} }

func (f Float) Val() (float64, error) { return convert.ExtractFloat(f.rt(), f.ref()) }

func (f *Float) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	if _, ok := rt.AsFloat(obj); !ok {
		return extractMismatch(rt, "float", obj)
	}
	f.Object = Borrow(rt, obj)
	return nil
}

// Bool is the concrete façade over the runtime's boolean type.
type Bool struct{ Object }

func NewBool(rt abi.Runtime, v bool) Bool { return Bool{Steal(rt, rt.NewBool(v))} }

func (b Bool) Val() (bool, error) { return convert.ExtractBool(b.rt(), b.ref()) }

func (b *Bool) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	if _, ok := rt.AsBool(obj); !ok {
		return extractMismatch(rt, "bool", obj)
	}
	b.Object = Borrow(rt, obj)
	return nil
}

// Str is the concrete façade over the runtime's string type.
type Str struct{ Object }

// NewStr constructs a Str, normalizing v to NFC first via
// internal/convert.
func NewStr(rt abi.Runtime, v string) Str {
	return Str{Steal(rt, rt.NewStr(convert.NormalizeStr(v)))}
}

func (s Str) Val() (string, error) { return convert.ExtractStr(s.rt(), s.ref()) }

func (s *Str) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	if _, ok := rt.AsStr(obj); !ok {
		return extractMismatch(rt, "str", obj)
	}
	s.Object = Borrow(rt, obj)
	return nil
}

func extractMismatch(rt abi.Runtime, target string, obj abi.Ref) error {
	return convert.NewExtractError(rt, target, obj)
}
