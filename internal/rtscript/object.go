// Package rtscript implements the embedded dynamic scripting runtime that
// the binding core (internal/abi onward) binds against. It is a small
// tree-walking interpreter: refcounted object headers, an attribute/item
// protocol, arithmetic and comparison operators, an error slot, modules,
// and an evaluator for expressions and a minimal statement subset.
//
// rtscript plays the role of "the runtime" — the embedded dynamic
// scripting engine whose C ABI the binding layer would normally call
// through cgo. Grounded on the teacher's internal/eval package: Object
// here is the counterpart of eval.Value, a single tagged struct instead
// of an interface hierarchy because the binding layer's abi.Ref needs
// one concrete representation to steal/borrow refcounts on.
package rtscript

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// Kind tags which variant of Object is populated, the rtscript counterpart
// of the teacher's per-constructor eval.Value types (IntValue, ListValue,
// TaggedValue, ...).
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindBool
	KindStr
	KindTuple
	KindList
	KindDict
	KindSet
	KindModule
	KindType
	KindCapsule
	KindException
	KindTraceback
	KindIterator
	KindFunction
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindStr:
		return "str"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindSet:
		return "set"
	case KindModule:
		return "module"
	case KindType:
		return "type"
	case KindCapsule:
		return "capsule"
	case KindException:
		return "Exception"
	case KindTraceback:
		return "traceback"
	case KindIterator:
		return "iterator"
	case KindFunction:
		return "function"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// dictEntry is one (key, value) pair of a Dict object. Dict preserves
// insertion order: ForEach always visits entries in the order they were
// first set, never key order.
type dictEntry struct {
	key   *Object
	value *Object
}

// Object is the single runtime representation every abi.Ref wraps. Only
// rtscript may construct or inspect one directly; everything above the abi
// boundary only ever holds an abi.Ref.
type Object struct {
	refcount int64
	kind     Kind
	typ      *Object // the object's type, itself a KindType Object

	i int64
	f float64
	b bool
	s string

	items []*Object // tuple / list elements

	dictKeys []string     // canonical key → position, preserves insertion order
	dictPos  map[string]int
	dict     []dictEntry

	set     map[string]*Object // canonical key → member, for Set
	setKeys []string

	attrs map[string]*Object // generic attribute bag: module namespace, instance state

	name   string // module/type/function name
	module string // defining module, for Type and Function

	fn func(args []*Object, kwargs map[string]*Object) (*Object, error)

	capsulePayload any
	capsuleDtor    func(any)

	iterSource []*Object
	iterPos    int

	excKind      abi.ErrKind
	excMessage   string
	excCause     *Object
	excContext   *Object
	excTraceback *Object

	bases []*Object // Type object: base types, for IsSubtype

	instanceOf *Object // Instance: the Type it was constructed from
	parent     *Object // Instance: optional back-reference, decremented on finalize
}

func newObject(kind Kind) *Object {
	return &Object{kind: kind, refcount: 1}
}

// IncRef / DecRef implement the refcount discipline Runtime.IncRef/DecRef
// delegate to; they are unexported because only this package's Runtime may
// call them — every exported ABI entry point documents whether it steals
// or borrows the refs it touches, and that contract is enforced at the
// Runtime boundary, not here.
func (o *Object) incRef() { o.refcount++ }
func (o *Object) decRef() {
	o.refcount--
	if o.refcount == 0 {
		o.finalize()
	}
}

// finalize runs when an instance's refcount reaches zero: decrement the
// parent back-reference (if any) and, for a capsule, invoke the payload
// destructor. By the time finalize runs, o's own count is already zero,
// so the destructor must not touch o.refcount or otherwise resurrect o.
func (o *Object) finalize() {
	if o.parent != nil {
		o.parent.decRef()
		o.parent = nil
	}
	if (o.kind == KindCapsule || o.kind == KindInstance) && o.capsuleDtor != nil {
		payload := o.capsulePayload
		dtor := o.capsuleDtor
		o.capsuleDtor = nil
		o.capsulePayload = nil
		dtor(payload)
	}
}

func (o *Object) String() string {
	switch o.kind {
	case KindNone:
		return "None"
	case KindInt:
		return fmt.Sprintf("%d", o.i)
	case KindFloat:
		return fmt.Sprintf("%g", o.f)
	case KindBool:
		if o.b {
			return "True"
		}
		return "False"
	case KindStr:
		return o.s
	case KindTuple:
		return joinItems("(", o.items, ")")
	case KindList:
		return joinItems("[", o.items, "]")
	case KindSet:
		return joinSet(o)
	case KindDict:
		return joinDict(o)
	case KindModule:
		return fmt.Sprintf("<module %q>", o.name)
	case KindType:
		return fmt.Sprintf("<class %q>", o.FullyQualifiedName())
	case KindCapsule:
		return fmt.Sprintf("<capsule %q>", o.name)
	case KindException:
		return o.excMessage
	case KindTraceback:
		return "<traceback>"
	case KindIterator:
		return "<iterator>"
	case KindFunction:
		return fmt.Sprintf("<function %s>", o.name)
	case KindInstance:
		return fmt.Sprintf("<%s instance>", o.instanceOf.FullyQualifiedName())
	default:
		return "<?>"
	}
}

func joinItems(open string, items []*Object, close string) string {
	s := open
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += it.String()
	}
	return s + close
}

func joinSet(o *Object) string {
	s := "{"
	for i, k := range o.setKeys {
		if i > 0 {
			s += ", "
		}
		s += o.set[k].String()
	}
	if len(o.setKeys) == 0 {
		return "set()"
	}
	return s + "}"
}

func joinDict(o *Object) string {
	s := "{"
	for i, e := range o.dict {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", e.key.String(), e.value.String())
	}
	return s + "}"
}

// FullyQualifiedName prepends the defining module unless it is "builtins",
// matching how the Type façade renders a class's __module__.__qualname__.
func (o *Object) FullyQualifiedName() string {
	if o.kind != KindType {
		return o.kind.String()
	}
	if o.module == "" || o.module == "builtins" {
		return o.name
	}
	return o.module + "." + o.name
}
