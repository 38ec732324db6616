// Package object implements the binding core's generic Object façade and
// its concrete/protocol specializations (Int, Float, Bool, Str, Tuple,
// List, Dict, Set, Mapping, Sequence, Iterator, Module, Type, Capsule,
// BaseException, Traceback, NDArray).
//
// Grounded on the teacher's internal/eval.Value hierarchy: a small closed
// set of tagged concrete types, each implementing the same handful of
// interface methods (String, type predicates), generalized here from a
// "value produced by evaluation" story to "handle-backed runtime object".
package object

import (
	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/call"
	"github.com/sunholo/embind/internal/convert"
	"github.com/sunholo/embind/internal/errs"
	"github.com/sunholo/embind/internal/handle"
)

// Object is the generic façade: every concrete/protocol façade embeds one
// and gets the full operator surface for free.
type Object struct {
	h handle.Handle
}

// FromHandle wraps an already-acquired Handle as an Object.
func FromHandle(h handle.Handle) Object { return Object{h: h} }

// Steal adopts a runtime-owned reference (the "steal" convention).
func Steal(rt abi.Runtime, r abi.Ref) Object { return Object{h: handle.Steal(rt, r)} }

// Borrow wraps a non-owning reference, incrementing its count.
func Borrow(rt abi.Runtime, r abi.Ref) Object { return Object{h: handle.Borrow(rt, r)} }

// None constructs the runtime's None singleton.
func None(rt abi.Runtime) Object { return Steal(rt, rt.NewNone()) }

func (o Object) rt() abi.Runtime { return o.h.Runtime() }
func (o Object) ref() abi.Ref    { return o.h.Get() }

// Valid reports whether o holds a reference.
func (o Object) Valid() bool { return o.h.Valid() }

// Ref exposes the underlying raw reference for adapter-level code (the
// converter registry, trampolines) that must cross back into abi.Runtime
// directly.
func (o Object) Ref() abi.Ref { return o.ref() }

// Close releases the held reference.
func (o *Object) Close() { o.h.Close() }

// Copy returns a new Object sharing the same referent with an incremented
// count.
func (o Object) Copy() Object { return Object{h: o.h.Copy()} }

// ToRuntime implements convert.ToRuntime: an Object façade converts to
// itself (identity) — any façade derived from Object qualifies
// automatically.
func (o Object) ToRuntime(rt abi.Runtime) abi.Ref {
	return o.ref()
}

// FromRuntime implements convert.FromRuntime: wraps obj as an Object with
// an incremented count (the generic façade accepts any runtime type).
func (o *Object) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	*o = Borrow(rt, obj)
	return nil
}

// Type returns the exact runtime type object.
func (o Object) Type() Object { return Borrow(o.rt(), o.rt().TypeOf(o.ref())) }

// TypeName returns the fully-qualified runtime type name.
func (o Object) TypeName() string { return o.rt().TypeName(o.rt().TypeOf(o.ref())) }

// IsInstance uses the runtime's exact/subtype check against t.
func (o Object) IsInstance(t Object) bool { return o.rt().IsInstance(o.ref(), t.ref()) }

// ---- Attribute protocol ----

func (o Object) HasAttr(name string) bool { return o.rt().HasAttr(o.ref(), name) }

func (o Object) GetAttr(name string) (Object, error) {
	v, err := o.rt().GetAttr(o.ref(), name)
	if err != nil {
		return Object{}, runtimeErr(o.rt(), err)
	}
	return Steal(o.rt(), v), nil
}

func (o Object) SetAttr(name string, v Object) error {
	if err := o.rt().SetAttr(o.ref(), name, v.ref()); err != nil {
		return runtimeErr(o.rt(), err)
	}
	return nil
}

func (o Object) DelAttr(name string) error {
	if err := o.rt().DelAttr(o.ref(), name); err != nil {
		return runtimeErr(o.rt(), err)
	}
	return nil
}

// ---- Item / sequence / mapping protocol ----

// GetItemKey fetches obj[key] for an arbitrary key façade.
func (o Object) GetItemKey(key Object) (Object, error) {
	v, err := o.rt().GetItem(o.ref(), key.ref())
	if err != nil {
		return Object{}, runtimeErr(o.rt(), err)
	}
	return Steal(o.rt(), v), nil
}

func (o Object) SetItemKey(key, v Object) error {
	if err := o.rt().SetItem(o.ref(), key.ref(), v.ref()); err != nil {
		return runtimeErr(o.rt(), err)
	}
	return nil
}

func (o Object) DelItemKey(key Object) error {
	if err := o.rt().DelItem(o.ref(), key.ref()); err != nil {
		return runtimeErr(o.rt(), err)
	}
	return nil
}

// GetItemIndex fetches obj[i] for an integer index, for sequence façades.
func (o Object) GetItemIndex(i int) (Object, error) {
	return o.GetItemKey(Steal(o.rt(), convert.Object(o.rt(), int64(i))))
}

// SetItemIndex stores v at obj[i].
func (o Object) SetItemIndex(i int, v Object) error {
	return o.SetItemKey(Steal(o.rt(), convert.Object(o.rt(), int64(i))), v)
}

// GetSlice fetches the half-open slice obj[lo:hi].
func (o Object) GetSlice(lo, hi int) (Object, error) {
	v, err := o.rt().GetSlice(o.ref(), lo, hi)
	if err != nil {
		return Object{}, runtimeErr(o.rt(), err)
	}
	return Steal(o.rt(), v), nil
}

// SetSlice stores v into the half-open slice obj[lo:hi].
func (o Object) SetSlice(lo, hi int, v Object) error {
	if err := o.rt().SetSlice(o.ref(), lo, hi, v.ref()); err != nil {
		return runtimeErr(o.rt(), err)
	}
	return nil
}

// ---- Calling (four shapes, dispatched by internal/call) ----

func (o Object) CallNoArgs() (Object, error) {
	v, err := call.NoArgs(o.rt(), o.ref())
	return o.wrapCall(v, err)
}

func (o Object) CallPos(args ...Object) (Object, error) {
	v, err := call.Positional(o.rt(), o.ref(), toRefs(args))
	return o.wrapCall(v, err)
}

func (o Object) CallKw(kwargs map[string]Object, args ...Object) (Object, error) {
	v, err := call.PositionalKeyword(o.rt(), o.ref(), toRefs(args), toRefMap(kwargs))
	return o.wrapCall(v, err)
}

// Kwargs marks a host argument-pack element as the keyword span for
// CallVariadic.
type Kwargs map[string]Object

// CallVariadic dispatches host variadic arguments to the correct shape via
// internal/call.Dispatch, recognizing a Kwargs-wrapped record among the
// arguments and partitioning the pack into a positional span and a
// keyword span at call time.
func (o Object) CallVariadic(args ...any) (Object, error) {
	var callArgs []call.Arg
	for _, a := range args {
		if kw, ok := a.(Kwargs); ok {
			refs := make(call.Kwargs, len(kw))
			for k, v := range kw {
				refs[k] = v.ref()
			}
			callArgs = append(callArgs, call.Kw(refs))
			continue
		}
		if ob, ok := a.(Object); ok {
			callArgs = append(callArgs, call.Pos(ob.ref()))
			continue
		}
		callArgs = append(callArgs, call.Pos(convert.Object(o.rt(), a)))
	}
	v, err := call.Dispatch(o.rt(), o.ref(), callArgs)
	return o.wrapCall(v, err)
}

func (o Object) wrapCall(v abi.Ref, err error) (Object, error) {
	if err != nil {
		return Object{}, runtimeErr(o.rt(), err)
	}
	return Steal(o.rt(), v), nil
}

func toRefs(os []Object) []abi.Ref {
	if len(os) == 0 {
		return nil
	}
	out := make([]abi.Ref, len(os))
	for i, o := range os {
		out[i] = o.ref()
	}
	return out
}

func toRefMap(m map[string]Object) map[string]abi.Ref {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]abi.Ref, len(m))
	for k, v := range m {
		out[k] = v.ref()
	}
	return out
}

// ---- Operators ----

func (o Object) Add(other Object) (Object, error)      { return o.binOp(other, abi.OpAdd) }
func (o Object) Sub(other Object) (Object, error)      { return o.binOp(other, abi.OpSub) }
func (o Object) Mul(other Object) (Object, error)      { return o.binOp(other, abi.OpMul) }
func (o Object) Div(other Object) (Object, error)      { return o.binOp(other, abi.OpDiv) }
func (o Object) Mod(other Object) (Object, error)      { return o.binOp(other, abi.OpMod) }
func (o Object) Pow(other Object) (Object, error)      { return o.binOp(other, abi.OpPow) }
func (o Object) FloorDiv(other Object) (Object, error) { return o.binOp(other, abi.OpFloorDiv) }
func (o Object) MatMul(other Object) (Object, error)   { return o.binOp(other, abi.OpMatMul) }
func (o Object) And(other Object) (Object, error)      { return o.binOp(other, abi.OpAnd) }
func (o Object) Or(other Object) (Object, error)       { return o.binOp(other, abi.OpOr) }
func (o Object) Xor(other Object) (Object, error)      { return o.binOp(other, abi.OpXor) }
func (o Object) LShift(other Object) (Object, error)   { return o.binOp(other, abi.OpLShift) }
func (o Object) RShift(other Object) (Object, error)   { return o.binOp(other, abi.OpRShift) }

// Augmented forms forward to the same operator; the runtime's BinaryOp is
// pure (no destination-aware fast path), so "augmented" here just means
// the caller reassigns the receiving binding to the result.
func (o Object) IAdd(other Object) (Object, error)      { return o.Add(other) }
func (o Object) ISub(other Object) (Object, error)      { return o.Sub(other) }
func (o Object) IMul(other Object) (Object, error)      { return o.Mul(other) }
func (o Object) IDiv(other Object) (Object, error)      { return o.Div(other) }
func (o Object) IMod(other Object) (Object, error)      { return o.Mod(other) }
func (o Object) IPow(other Object) (Object, error)      { return o.Pow(other) }
func (o Object) IFloorDiv(other Object) (Object, error) { return o.FloorDiv(other) }
func (o Object) IAnd(other Object) (Object, error)      { return o.And(other) }
func (o Object) IOr(other Object) (Object, error)       { return o.Or(other) }
func (o Object) IXor(other Object) (Object, error)      { return o.Xor(other) }
func (o Object) ILShift(other Object) (Object, error)   { return o.LShift(other) }
func (o Object) IRShift(other Object) (Object, error)   { return o.RShift(other) }

func (o Object) binOp(other Object, op abi.BinOp) (Object, error) {
	v, err := o.rt().BinaryOp(o.ref(), other.ref(), op)
	if err != nil {
		return Object{}, err // arithmetic errors are not RuntimeError-wrapped
	}
	return Steal(o.rt(), v), nil
}

func (o Object) Neg() (Object, error)    { return o.unaryOp(abi.OpNeg) }
func (o Object) Pos() (Object, error)    { return o.unaryOp(abi.OpPos) }
func (o Object) Invert() (Object, error) { return o.unaryOp(abi.OpInvert) }
func (o Object) Abs() (Object, error)    { return o.unaryOp(abi.OpAbs) }

// Not implements logical negation, always returning a Bool-backed Object.
func (o Object) Not() (Object, error) { return o.unaryOp(abi.OpNot) }

func (o Object) unaryOp(op abi.UnaryOp) (Object, error) {
	v, err := o.rt().UnaryOp(o.ref(), op)
	if err != nil {
		return Object{}, err
	}
	return Steal(o.rt(), v), nil
}

func (o Object) cmp(other Object, op abi.CompareOp) (bool, error) {
	v, err := o.rt().Compare(o.ref(), other.ref(), op)
	if err != nil {
		return false, err
	}
	b, _ := o.rt().AsBool(v)
	return b, nil
}

func (o Object) Eq(other Object) (bool, error) { return o.cmp(other, abi.CmpEq) }
func (o Object) Ne(other Object) (bool, error) { return o.cmp(other, abi.CmpNe) }
func (o Object) Lt(other Object) (bool, error) { return o.cmp(other, abi.CmpLt) }
func (o Object) Le(other Object) (bool, error) { return o.cmp(other, abi.CmpLe) }
func (o Object) Gt(other Object) (bool, error) { return o.cmp(other, abi.CmpGt) }
func (o Object) Ge(other Object) (bool, error) { return o.cmp(other, abi.CmpGe) }

// ---- Helpers ----

func (o Object) Len() (int, error) {
	n, err := o.rt().Len(o.ref())
	if err != nil {
		return 0, runtimeErr(o.rt(), err)
	}
	return n, nil
}

func (o Object) Hash() (int64, error) {
	h, err := o.rt().Hash(o.ref())
	if err != nil {
		return 0, runtimeErr(o.rt(), err)
	}
	return h, nil
}

func (o Object) Str() (string, error) {
	s, err := o.rt().Str(o.ref())
	if err != nil {
		return "", runtimeErr(o.rt(), err)
	}
	return s, nil
}

func (o Object) Repr() (string, error) {
	s, err := o.rt().Repr(o.ref())
	if err != nil {
		return "", runtimeErr(o.rt(), err)
	}
	return s, nil
}

func (o Object) IsTruthy() bool { return o.rt().IsTruthy(o.ref()) }

func (o Object) Iter() (Iterator, error) {
	v, err := o.rt().Iter(o.ref())
	if err != nil {
		return Iterator{}, runtimeErr(o.rt(), err)
	}
	return Iterator{Object: Steal(o.rt(), v)}, nil
}

// runtimeErr converts a failing non-arithmetic ABI call into the error
// the façade returns. If the runtime's error slot already holds a kind
// (IndexError, KeyError, AttributeError, ...), the slot is left as it is
// and err is returned unchanged; only when the slot is empty is a
// RuntimeError raised carrying err's text.
func runtimeErr(rt abi.Runtime, err error) error {
	if t, ok := rt.ErrFetch(); ok {
		rt.ErrRestore(t)
		if t.Kind != abi.ErrNone {
			return err
		}
	}
	return errs.RaiseRuntimeError(rt, "%s", err.Error())
}
