// Package convert implements the binding core's converter registry,
// translating host values to and from runtime objects.
//
// Grounded on the teacher's internal/runtime/argdecode package, which
// type-switches a decoded JSON value against an expected type and returns
// a typed *DecodeError on mismatch; ExtractError here plays the same role
// for runtime objects instead of JSON values.
package convert

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// ExtractError reports a failed extraction as "expected '<target-name>',
// got '<actual-fully-qualified-name>'".
type ExtractError struct {
	Target string
	Actual string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("expected '%s', got '%s'", e.Target, e.Actual)
}

func fqName(rt abi.Runtime, obj abi.Ref) string {
	t := rt.TypeOf(obj)
	mod := rt.ModuleOf(t)
	name := rt.TypeName(t)
	if mod == "" || mod == "builtins" {
		return name
	}
	return mod + "." + name
}

func extractErr(rt abi.Runtime, target string, obj abi.Ref) error {
	return &ExtractError{Target: target, Actual: fqName(rt, obj)}
}

// NewExtractError builds the TypeError a façade's own FromRuntime type
// check should raise on mismatch, reusing the same fully-qualified
// actual-type rendering ExtractInt/ExtractFloat/etc. use.
func NewExtractError(rt abi.Runtime, target string, obj abi.Ref) error {
	return extractErr(rt, target, obj)
}

// ToRuntime is implemented by host façades that know how to wrap
// themselves as a runtime object — any façade derived from Object
// qualifies automatically.
type ToRuntime interface {
	ToRuntime(rt abi.Runtime) abi.Ref
}

// FromRuntime is implemented by host façades that can populate themselves
// from a runtime object, or report a type mismatch.
type FromRuntime interface {
	FromRuntime(rt abi.Runtime, obj abi.Ref) error
}

// Object wraps a host value as a runtime object. Panics for a Go type
// with no registered conversion; the binding core only ever calls Object
// with types it statically knows are convertible, so an unregistered
// type here is a programming defect, not a recoverable error (mirrors
// the teacher's decodeValue default branch, which returns "unsupported
// type" rather than guessing).
func Object(rt abi.Runtime, v any) abi.Ref {
	switch x := v.(type) {
	case nil:
		return rt.NewNone()
	case bool:
		return rt.NewBool(x)
	case int:
		return rt.NewInt(int64(x))
	case int8:
		return rt.NewInt(int64(x))
	case int16:
		return rt.NewInt(int64(x))
	case int32:
		return rt.NewInt(int64(x))
	case int64:
		return rt.NewInt(x)
	case uint:
		return rt.NewInt(int64(x))
	case uint8:
		return rt.NewInt(int64(x))
	case uint16:
		return rt.NewInt(int64(x))
	case uint32:
		return rt.NewInt(int64(x))
	case uint64:
		return rt.NewInt(int64(x))
	case float32:
		return rt.NewFloat(float64(x))
	case float64:
		return rt.NewFloat(x)
	case string:
		return rt.NewStr(NormalizeStr(x))
	case ToRuntime:
		return x.ToRuntime(rt)
	default:
		panic(fmt.Sprintf("convert.Object: no registered conversion for %T", v))
	}
}

// ExtractInt implements extract<V> for any signed/unsigned integer host
// type, widening through the runtime's canonical wide int.
func ExtractInt(rt abi.Runtime, obj abi.Ref) (int64, error) {
	v, ok := rt.AsInt(obj)
	if !ok {
		return 0, extractErr(rt, "int", obj)
	}
	return v, nil
}

// ExtractFloat implements extract<V> for any floating host type.
func ExtractFloat(rt abi.Runtime, obj abi.Ref) (float64, error) {
	if v, ok := rt.AsFloat(obj); ok {
		return v, nil
	}
	if v, ok := rt.AsInt(obj); ok {
		return float64(v), nil
	}
	return 0, extractErr(rt, "float", obj)
}

// ExtractBool implements extract<V> for bool (exact coercion only).
func ExtractBool(rt abi.Runtime, obj abi.Ref) (bool, error) {
	v, ok := rt.AsBool(obj)
	if !ok {
		return false, extractErr(rt, "bool", obj)
	}
	return v, nil
}

// ExtractStr implements extract<V> for string-view-like host types.
func ExtractStr(rt abi.Runtime, obj abi.Ref) (string, error) {
	v, ok := rt.AsStr(obj)
	if !ok {
		return "", extractErr(rt, "str", obj)
	}
	return v, nil
}

// ExtractFacade implements extract<V> for any façade derived from Object:
// identity plus a type check delegated to the façade's own FromRuntime.
func ExtractFacade[V FromRuntime](rt abi.Runtime, obj abi.Ref, zero V) (V, error) {
	if err := zero.FromRuntime(rt, obj); err != nil {
		return zero, err
	}
	return zero, nil
}

// ExtractOptional implements extract<optional<V>>: None maps to (zero,
// false); anything else delegates to extract.
func ExtractOptional[V any](rt abi.Runtime, obj abi.Ref, extract func(abi.Runtime, abi.Ref) (V, error)) (V, bool, error) {
	var zero V
	if rt.IsNone(obj) {
		return zero, false, nil
	}
	v, err := extract(rt, obj)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}
// NarrowFloat32 narrows a float64 to the nearest representable float32,
// for callers whose host type is float32.
func NarrowFloat32(v float64) float32 {
	return float32(v)
}
