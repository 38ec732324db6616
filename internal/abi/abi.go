// Package abi defines the adapter surface that the binding core (handle,
// object, trampoline, heaptype, interp, ...) binds against instead of
// touching any embedded runtime's internals directly.
//
// This package is a thin adapter contract so the embedded runtime can be
// swapped out without touching anything above it. The concrete
// implementation lives in internal/rtscript; nothing outside rtscript may
// depend on rtscript's own types.
package abi

// Ref is an opaque reference to a runtime object. Its zero value is the
// well-defined "no object" reference; every Runtime method that can fail
// returns a zero Ref alongside a non-nil error.
//
// Ref intentionally carries no methods of its own — all operations on the
// referent go through Runtime, mirroring how a raw PyObject* carries no
// behavior without the C API around it.
type Ref struct {
	obj any
}

// NewRef wraps a runtime-internal object pointer as a Ref. Only a Runtime
// implementation should call this; the binding core only ever receives
// Refs back from Runtime methods.
func NewRef(obj any) Ref { return Ref{obj: obj} }

// Unwrap returns the underlying runtime-internal object. Only a Runtime
// implementation should call this.
func (r Ref) Unwrap() any { return r.obj }

// IsZero reports whether r holds no object.
func (r Ref) IsZero() bool { return r.obj == nil }

// ErrKind enumerates the runtime-agnostic error kinds recognized across
// the binding core.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrType
	ErrValue
	ErrAssertion
	ErrSystem
	ErrRuntime
	ErrIndex
	ErrKey
	ErrAttribute
	ErrModuleNotFound
)

// String renders the error kind the way it appears in rendered exceptions.
func (k ErrKind) String() string {
	switch k {
	case ErrType:
		return "TypeError"
	case ErrValue:
		return "ValueError"
	case ErrAssertion:
		return "AssertionError"
	case ErrSystem:
		return "SystemError"
	case ErrRuntime:
		return "RuntimeError"
	case ErrIndex:
		return "IndexError"
	case ErrKey:
		return "KeyError"
	case ErrAttribute:
		return "AttributeError"
	case ErrModuleNotFound:
		return "ModuleNotFoundError"
	default:
		return "NoError"
	}
}

// ErrTriplet is the (type, value, traceback) triplet an error scope
// captures and restores.
type ErrTriplet struct {
	Kind      ErrKind
	Message   string
	Traceback Ref
	Cause     *ErrTriplet // optional chained cause, mirrors __cause__
	Context   *ErrTriplet // optional implicit context, mirrors __context__
}

// CompareOp enumerates the comparison operators the generic Object façade
// forwards.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// BinOp enumerates the binary arithmetic/bitwise operators forwarded
// verbatim by the generic Object façade.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpFloorDiv
	OpMatMul
	OpAnd
	OpOr
	OpXor
	OpLShift
	OpRShift
)

// UnaryOp enumerates the unary operators forwarded verbatim by the generic
// Object façade.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpInvert
	OpAbs
	OpNot
)

// TypeSpec describes a heap type to be created via Runtime.NewType.
type TypeSpec struct {
	Name       string
	ModuleName string
	Bases      []Ref
}

// Runtime is the adapter contract the binding core is written against.
// internal/rtscript.New returns the sole implementation in this repo;
// nothing above this package may assume anything about that
// implementation's internals.
type Runtime interface {
	// Constructors. Each returns a reference with its count already at 1
	// (a new, owned reference) unless documented otherwise.
	NewInt(v int64) Ref
	NewFloat(v float64) Ref
	NewBool(v bool) Ref
	NewStr(v string) Ref
	NewNone() Ref
	NewTuple(items []Ref) Ref
	NewList(items []Ref) Ref
	NewDict() Ref
	NewSet() Ref
	NewModule(name string) Ref
	NewType(spec TypeSpec) Ref
	NewCapsule(payload any, destructor func(any)) Ref
	NewException(kind ErrKind, msg string) Ref

	// NewHostCallable wraps a Go function as a runtime-callable object —
	// the backing primitive trampolines are built from. name is used
	// for str()/repr() rendering only.
	NewHostCallable(name string, fn func(args []Ref, kwargs map[string]Ref) (Ref, error)) Ref

	// NewInstance allocates a heap-type instance of t (itself a Ref
	// returned by NewType), represented here as an object carrying an
	// opaque host payload plus an instanceOf back-pointer rather than a
	// literal byte offset, since Go has no pointer arithmetic to exploit.
	// destructor runs once, when the instance's refcount reaches zero
	// (mirrors NewCapsule). If parent is non-zero its refcount is
	// incremented now and decremented on finalization.
	NewInstance(t Ref, payload any, destructor func(any), parent Ref) Ref

	// InstancePayload extracts the host payload embedded in an instance
	// obj was constructed with via NewInstance. ok is false if obj is not
	// a heap-type instance.
	InstancePayload(obj Ref) (payload any, ok bool)

	// SetCallable gives an existing object (typically a Type, so that
	// invoking the class constructs an instance) the call behavior fn.
	// CallableFunc is the inverse: it recovers the abi.Ref-level function
	// a NewHostCallable/SetCallable object wraps, so the module builder
	// can install one trampoline's call behavior on a second object
	// (the class's Type) without re-wrapping it as a new closure.
	SetCallable(obj Ref, fn func(args []Ref, kwargs map[string]Ref) (Ref, error))
	CallableFunc(callable Ref) func(args []Ref, kwargs map[string]Ref) (Ref, error)

	// Refcounting.
	IncRef(r Ref)
	DecRef(r Ref)
	RefCount(r Ref) int64

	// Attribute protocol.
	GetAttr(obj Ref, name string) (Ref, error)
	SetAttr(obj Ref, name string, val Ref) error
	HasAttr(obj Ref, name string) bool
	DelAttr(obj Ref, name string) error

	// Item / sequence / mapping protocol.
	GetItem(obj Ref, key Ref) (Ref, error)
	SetItem(obj Ref, key, val Ref) error
	DelItem(obj Ref, key Ref) error
	GetSlice(obj Ref, lo, hi int) (Ref, error)
	SetSlice(obj Ref, lo, hi int, val Ref) error

	// Set protocol: add, discard, pop, has, clear — a distinct
	// non-sequence container from list/tuple.
	SetAdd(set Ref, v Ref) error
	SetDiscard(set Ref, v Ref) error
	SetPop(set Ref) (Ref, error)
	SetHas(set Ref, v Ref) bool
	SetClear(set Ref) error

	// Calling.
	Call(callable Ref, args []Ref, kwargs map[string]Ref) (Ref, error)

	// Operators.
	Compare(a, b Ref, op CompareOp) (Ref, error)
	BinaryOp(a, b Ref, op BinOp) (Ref, error)
	UnaryOp(a Ref, op UnaryOp) (Ref, error)

	// Protocol helpers.
	Len(obj Ref) (int, error)
	Hash(obj Ref) (int64, error)
	Str(obj Ref) (string, error)
	Repr(obj Ref) (string, error)
	IsTruthy(obj Ref) bool
	Iter(obj Ref) (Ref, error)
	IterNext(it Ref) (Ref, bool, error)

	// Type introspection.
	TypeOf(obj Ref) Ref
	TypeName(t Ref) string
	ModuleOf(t Ref) string
	IsInstance(obj Ref, t Ref) bool
	IsSubtype(a, b Ref) bool

	// Error slot.
	ErrSet(kind ErrKind, msg string)
	ErrSetf(kind ErrKind, format string, args ...any)
	ErrFetch() (ErrTriplet, bool)
	ErrRestore(t ErrTriplet)
	ErrNormalize(t ErrTriplet) ErrTriplet
	ErrOccurred() bool
	ErrClear()

	// Extraction helpers for concrete primitive façades.
	AsInt(obj Ref) (int64, bool)
	AsFloat(obj Ref) (float64, bool)
	AsBool(obj Ref) (bool, bool)
	AsStr(obj Ref) (string, bool)
	IsNone(obj Ref) bool

	// Interpreter lifecycle.
	Eval(globals Ref, expr string) (Ref, error)
	Exec(globals Ref, stmts string) error
	Import(name string) (Ref, error)
	RegisterModule(name string, m Ref)
	Globals() Ref
}
