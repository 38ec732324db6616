package rtscript

import (
	"fmt"
	"sort"

	"github.com/sunholo/embind/internal/abi"
)

// Runtime is the sole implementation of abi.Runtime in this repository. A
// Runtime is not safe for concurrent use without the caller holding the
// GIL (internal/interp): the interpreter controller gates all access
// through a single coarse lock, so rtscript itself does not lock.
type Runtime struct {
	errHeld bool
	err     abi.ErrTriplet

	globals *Object
	modules map[string]*Object

	builtinTypes map[Kind]*Object
	excTypes     map[abi.ErrKind]*Object
	baseExcType  *Object
}

// New creates a fresh Runtime with an initialized global namespace: the
// main module's global namespace dictionary is created immediately, so
// Globals() never needs a nil check.
func New() *Runtime {
	rt := &Runtime{
		builtinTypes: make(map[Kind]*Object),
		excTypes:     make(map[abi.ErrKind]*Object),
		modules:      make(map[string]*Object),
	}
	rt.baseExcType = rt.makeBuiltinType("BaseException", "builtins", nil)
	for _, k := range []abi.ErrKind{
		abi.ErrType, abi.ErrValue, abi.ErrAssertion, abi.ErrSystem,
		abi.ErrRuntime, abi.ErrIndex, abi.ErrKey, abi.ErrAttribute,
		abi.ErrModuleNotFound,
	} {
		rt.excTypes[k] = rt.makeBuiltinType(k.String(), "builtins", []*Object{rt.baseExcType})
	}
	g := newObject(KindModule)
	g.name = "__main__"
	g.attrs = map[string]*Object{"__name__": rt.strObj("__main__")}
	rt.globals = g
	return rt
}

func (rt *Runtime) makeBuiltinType(name, module string, bases []*Object) *Object {
	t := newObject(KindType)
	t.name = name
	t.module = module
	t.bases = bases
	return t
}

func (rt *Runtime) builtinType(k Kind) *Object {
	if t, ok := rt.builtinTypes[k]; ok {
		return t
	}
	t := rt.makeBuiltinType(k.String(), "builtins", nil)
	rt.builtinTypes[k] = t
	return t
}

func (rt *Runtime) strObj(s string) *Object {
	o := newObject(KindStr)
	o.s = s
	return o
}

func toObj(r abi.Ref) *Object {
	if r.IsZero() {
		return nil
	}
	o, _ := r.Unwrap().(*Object)
	return o
}

func ref(o *Object) abi.Ref {
	if o == nil {
		return abi.Ref{}
	}
	return abi.NewRef(o)
}

// ---- Constructors ----

func (rt *Runtime) NewInt(v int64) abi.Ref {
	o := newObject(KindInt)
	o.i = v
	return ref(o)
}

func (rt *Runtime) NewFloat(v float64) abi.Ref {
	o := newObject(KindFloat)
	o.f = v
	return ref(o)
}

func (rt *Runtime) NewBool(v bool) abi.Ref {
	o := newObject(KindBool)
	o.b = v
	return ref(o)
}

func (rt *Runtime) NewStr(v string) abi.Ref {
	return ref(rt.strObj(v))
}

func (rt *Runtime) NewNone() abi.Ref {
	return ref(newObject(KindNone))
}

func (rt *Runtime) NewTuple(items []abi.Ref) abi.Ref {
	o := newObject(KindTuple)
	o.items = refsToObjs(items)
	return ref(o)
}

func (rt *Runtime) NewList(items []abi.Ref) abi.Ref {
	o := newObject(KindList)
	o.items = refsToObjs(items)
	return ref(o)
}

func (rt *Runtime) NewDict() abi.Ref {
	o := newObject(KindDict)
	o.dictPos = make(map[string]int)
	return ref(o)
}

func (rt *Runtime) NewSet() abi.Ref {
	o := newObject(KindSet)
	o.set = make(map[string]*Object)
	return ref(o)
}

func (rt *Runtime) NewModule(name string) abi.Ref {
	o := newObject(KindModule)
	o.name = name
	o.attrs = map[string]*Object{"__name__": rt.strObj(name)}
	return ref(o)
}

func (rt *Runtime) NewType(spec abi.TypeSpec) abi.Ref {
	bases := refsToObjs(spec.Bases)
	if len(bases) == 0 {
		bases = nil
	}
	return ref(rt.makeBuiltinType(spec.Name, spec.ModuleName, bases))
}

func (rt *Runtime) NewCapsule(payload any, destructor func(any)) abi.Ref {
	o := newObject(KindCapsule)
	o.capsulePayload = payload
	o.capsuleDtor = destructor
	return ref(o)
}

func (rt *Runtime) NewException(kind abi.ErrKind, msg string) abi.Ref {
	o := newObject(KindException)
	o.excKind = kind
	o.excMessage = msg
	return ref(o)
}

// NewHostCallable wraps a Go function as a KindFunction object, adapting
// between the abi.Ref pack Call works with and the *Object pack o.fn
// expects. This is the primitive C7's trampolines build on: a bound Go
// method becomes callable from the scripting side the same way a
// cdef'd C function becomes a PyCFunction.
func (rt *Runtime) NewHostCallable(name string, fn func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error)) abi.Ref {
	o := newObject(KindFunction)
	o.name = name
	r := ref(o)
	rt.SetCallable(r, fn)
	return r
}

// SetCallable installs fn as obj's call behavior, adapting between the
// abi.Ref pack this boundary works with and the *Object pack o.fn
// expects. Used directly by NewHostCallable, and by the module builder
// to make a Type object itself callable (constructing an instance).
func (rt *Runtime) SetCallable(obj abi.Ref, fn func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error)) {
	o := toObj(obj)
	o.fn = func(args []*Object, kwargs map[string]*Object) (*Object, error) {
		kw := make(map[string]abi.Ref, len(kwargs))
		for k, v := range kwargs {
			kw[k] = ref(v)
		}
		res, err := fn(objsToRefs(args), kw)
		if err != nil {
			return nil, err
		}
		return toObj(res), nil
	}
}

// CallableFunc recovers the abi.Ref-level function callable wraps, the
// inverse of SetCallable/NewHostCallable's adaptation.
func (rt *Runtime) CallableFunc(callable abi.Ref) func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
	o := toObj(callable)
	if o == nil || o.fn == nil {
		return nil
	}
	return func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
		kw := make(map[string]*Object, len(kwargs))
		for k, v := range kwargs {
			kw[k] = toObj(v)
		}
		res, err := o.fn(refsToObjs(args), kw)
		if err != nil {
			return abi.Ref{}, err
		}
		if res == nil {
			res = newObject(KindNone)
		}
		return ref(res), nil
	}
}

func refsToObjs(refs []abi.Ref) []*Object {
	out := make([]*Object, len(refs))
	for i, r := range refs {
		out[i] = toObj(r)
	}
	return out
}

// NewInstance allocates a KindInstance object backed by payload, typed as
// t. If parent is non-zero its refcount is incremented now; finalize
// decrements it (and runs destructor) once the instance's own count
// reaches zero.
func (rt *Runtime) NewInstance(t abi.Ref, payload any, destructor func(any), parent abi.Ref) abi.Ref {
	o := newObject(KindInstance)
	o.instanceOf = toObj(t)
	o.capsulePayload = payload
	o.capsuleDtor = destructor
	if p := toObj(parent); p != nil {
		p.incRef()
		o.parent = p
	}
	return ref(o)
}

// InstancePayload extracts the host payload an instance was constructed
// with via NewInstance.
func (rt *Runtime) InstancePayload(obj abi.Ref) (any, bool) {
	o := toObj(obj)
	if o == nil || o.kind != KindInstance {
		return nil, false
	}
	return o.capsulePayload, true
}

func objsToRefs(objs []*Object) []abi.Ref {
	out := make([]abi.Ref, len(objs))
	for i, o := range objs {
		out[i] = ref(o)
	}
	return out
}

// ---- Refcounting ----

func (rt *Runtime) IncRef(r abi.Ref) {
	if o := toObj(r); o != nil {
		o.incRef()
	}
}

func (rt *Runtime) DecRef(r abi.Ref) {
	if o := toObj(r); o != nil {
		o.decRef()
	}
}

func (rt *Runtime) RefCount(r abi.Ref) int64 {
	if o := toObj(r); o != nil {
		return o.refcount
	}
	return 0
}

// ---- Attribute protocol ----

func (rt *Runtime) GetAttr(obj abi.Ref, name string) (abi.Ref, error) {
	o := toObj(obj)
	if o.attrs != nil {
		if v, ok := o.attrs[name]; ok {
			return ref(v), nil
		}
	}
	return abi.Ref{}, rt.fail("AttributeError: '%s' object has no attribute '%s'", o.kind, name)
}

func (rt *Runtime) SetAttr(obj abi.Ref, name string, val abi.Ref) error {
	o := toObj(obj)
	if o.attrs == nil {
		o.attrs = make(map[string]*Object)
	}
	o.attrs[name] = toObj(val)
	return nil
}

func (rt *Runtime) HasAttr(obj abi.Ref, name string) bool {
	o := toObj(obj)
	if o.attrs == nil {
		return false
	}
	_, ok := o.attrs[name]
	return ok
}

func (rt *Runtime) DelAttr(obj abi.Ref, name string) error {
	o := toObj(obj)
	if o.attrs == nil {
		return rt.fail("AttributeError: '%s' object has no attribute '%s'", o.kind, name)
	}
	if _, ok := o.attrs[name]; !ok {
		return rt.fail("AttributeError: '%s' object has no attribute '%s'", o.kind, name)
	}
	delete(o.attrs, name)
	return nil
}

// ---- Item / sequence / mapping protocol ----

func (rt *Runtime) GetItem(obj, key abi.Ref) (abi.Ref, error) {
	o := toObj(obj)
	k := toObj(key)
	switch o.kind {
	case KindList, KindTuple, KindStr:
		idx, ok := rt.AsInt(key)
		if !ok {
			return abi.Ref{}, rt.fail("TypeError: indices must be integers")
		}
		n := rt.seqLen(o)
		i := normalizeIndex(idx, n)
		if i < 0 || i >= n {
			return abi.Ref{}, rt.fail("IndexError: %s index out of range", o.kind)
		}
		if o.kind == KindStr {
			return ref(rt.strObj(string([]rune(o.s)[i]))), nil
		}
		return ref(o.items[i]), nil
	case KindDict:
		hk, err := hashKey(k)
		if err != nil {
			return abi.Ref{}, rt.fail("%s", err.Error())
		}
		if pos, ok := o.dictPos[hk]; ok {
			return ref(o.dict[pos].value), nil
		}
		return abi.Ref{}, rt.fail("KeyError: %s", k.String())
	default:
		return abi.Ref{}, rt.fail("TypeError: '%s' object is not subscriptable", o.kind)
	}
}

func (rt *Runtime) SetItem(obj, key, val abi.Ref) error {
	o := toObj(obj)
	k := toObj(key)
	v := toObj(val)
	switch o.kind {
	case KindList:
		idx, ok := rt.AsInt(key)
		if !ok {
			return rt.fail("TypeError: indices must be integers")
		}
		n := len(o.items)
		i := normalizeIndex(idx, n)
		if i < 0 || i >= n {
			return rt.fail("IndexError: list assignment index out of range")
		}
		o.items[i] = v
		return nil
	case KindDict:
		hk, err := hashKey(k)
		if err != nil {
			return rt.fail("%s", err.Error())
		}
		if pos, ok := o.dictPos[hk]; ok {
			o.dict[pos].value = v
			return nil
		}
		o.dictPos[hk] = len(o.dict)
		o.dict = append(o.dict, dictEntry{key: k, value: v})
		return nil
	default:
		return rt.fail("TypeError: '%s' object does not support item assignment", o.kind)
	}
}

func (rt *Runtime) DelItem(obj, key abi.Ref) error {
	o := toObj(obj)
	k := toObj(key)
	switch o.kind {
	case KindList:
		idx, ok := rt.AsInt(key)
		if !ok {
			return rt.fail("TypeError: indices must be integers")
		}
		n := len(o.items)
		i := normalizeIndex(idx, n)
		if i < 0 || i >= n {
			return rt.fail("IndexError: list assignment index out of range")
		}
		o.items = append(o.items[:i], o.items[i+1:]...)
		return nil
	case KindDict:
		hk, err := hashKey(k)
		if err != nil {
			return rt.fail("%s", err.Error())
		}
		pos, ok := o.dictPos[hk]
		if !ok {
			return rt.fail("KeyError: %s", k.String())
		}
		o.dict = append(o.dict[:pos], o.dict[pos+1:]...)
		delete(o.dictPos, hk)
		for i := pos; i < len(o.dict); i++ {
			nk, _ := hashKey(o.dict[i].key)
			o.dictPos[nk] = i
		}
		return nil
	default:
		return rt.fail("TypeError: '%s' object does not support item deletion", o.kind)
	}
}

func (rt *Runtime) GetSlice(obj abi.Ref, lo, hi int) (abi.Ref, error) {
	o := toObj(obj)
	n := rt.seqLen(o)
	lo = clampSlice(lo, n)
	hi = clampSlice(hi, n)
	if hi < lo {
		hi = lo
	}
	switch o.kind {
	case KindStr:
		r := []rune(o.s)
		return ref(rt.strObj(string(r[lo:hi]))), nil
	case KindList:
		out := newObject(KindList)
		out.items = append([]*Object{}, o.items[lo:hi]...)
		return ref(out), nil
	case KindTuple:
		out := newObject(KindTuple)
		out.items = append([]*Object{}, o.items[lo:hi]...)
		return ref(out), nil
	default:
		return abi.Ref{}, rt.fail("TypeError: '%s' object is not sliceable", o.kind)
	}
}

func (rt *Runtime) SetSlice(obj abi.Ref, lo, hi int, val abi.Ref) error {
	o := toObj(obj)
	v := toObj(val)
	if o.kind != KindList || v.kind != KindList {
		return rt.fail("TypeError: slice assignment requires lists")
	}
	n := len(o.items)
	lo = clampSlice(lo, n)
	hi = clampSlice(hi, n)
	if hi < lo {
		hi = lo
	}
	tail := append([]*Object{}, o.items[hi:]...)
	o.items = append(append(o.items[:lo], v.items...), tail...)
	return nil
}

func (rt *Runtime) seqLen(o *Object) int {
	switch o.kind {
	case KindStr:
		return len([]rune(o.s))
	case KindList, KindTuple:
		return len(o.items)
	default:
		return 0
	}
}

func normalizeIndex(idx int64, n int) int {
	i := int(idx)
	if i < 0 {
		i += n
	}
	return i
}

func clampSlice(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}
	}
	if i > n {
		i = n
	}
	return i
}

// ---- Calling ----

func (rt *Runtime) Call(callable abi.Ref, args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
	o := toObj(callable)
	if o == nil || o.fn == nil {
		return abi.Ref{}, rt.fail("TypeError: '%s' object is not callable", o.kind)
	}
	kw := make(map[string]*Object, len(kwargs))
	for k, v := range kwargs {
		kw[k] = toObj(v)
	}
	res, err := o.fn(refsToObjs(args), kw)
	if err != nil {
		return abi.Ref{}, err
	}
	if res == nil {
		res = newObject(KindNone)
	}
	return ref(res), nil
}

// ---- Type introspection ----

func (rt *Runtime) TypeOf(obj abi.Ref) abi.Ref {
	o := toObj(obj)
	if o.kind == KindInstance {
		return ref(o.instanceOf)
	}
	if o.kind == KindException {
		return ref(rt.excTypes[o.excKind])
	}
	if o.typ != nil {
		return ref(o.typ)
	}
	return ref(rt.builtinType(o.kind))
}

func (rt *Runtime) TypeName(t abi.Ref) string {
	to := toObj(t)
	return to.FullyQualifiedName()
}

func (rt *Runtime) ModuleOf(t abi.Ref) string {
	to := toObj(t)
	return to.module
}

func (rt *Runtime) IsInstance(obj, t abi.Ref) bool {
	o := toObj(obj)
	target := toObj(t)
	actual := toObj(rt.TypeOf(obj))
	return rt.isSubtypeObj(actual, target) || (o.kind == KindInstance && rt.isSubtypeObj(o.instanceOf, target))
}

func (rt *Runtime) IsSubtype(a, b abi.Ref) bool {
	return rt.isSubtypeObj(toObj(a), toObj(b))
}

func (rt *Runtime) isSubtypeObj(a, b *Object) bool {
	if a == b {
		return true
	}
	for _, base := range a.bases {
		if rt.isSubtypeObj(base, b) {
			return true
		}
	}
	return false
}

// ---- Extraction helpers ----

func (rt *Runtime) AsInt(obj abi.Ref) (int64, bool) {
	o := toObj(obj)
	if o == nil {
		return 0, false
	}
	switch o.kind {
	case KindInt:
		return o.i, true
	case KindBool:
		if o.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func (rt *Runtime) AsFloat(obj abi.Ref) (float64, bool) {
	o := toObj(obj)
	if o == nil {
		return 0, false
	}
	switch o.kind {
	case KindFloat:
		return o.f, true
	case KindInt:
		return float64(o.i), true
	default:
		return 0, false
	}
}

func (rt *Runtime) AsBool(obj abi.Ref) (bool, bool) {
	o := toObj(obj)
	if o == nil || o.kind != KindBool {
		return false, false
	}
	return o.b, true
}

func (rt *Runtime) AsStr(obj abi.Ref) (string, bool) {
	o := toObj(obj)
	if o == nil || o.kind != KindStr {
		return "", false
	}
	return o.s, true
}

func (rt *Runtime) IsNone(obj abi.Ref) bool {
	o := toObj(obj)
	return o == nil || o.kind == KindNone
}

// ---- Protocol helpers ----

func (rt *Runtime) Len(obj abi.Ref) (int, error) {
	o := toObj(obj)
	switch o.kind {
	case KindStr, KindList, KindTuple:
		return rt.seqLen(o), nil
	case KindDict:
		return len(o.dict), nil
	case KindSet:
		return len(o.setKeys), nil
	default:
		return 0, rt.fail("TypeError: object of type '%s' has no len()", o.kind)
	}
}

func (rt *Runtime) Hash(obj abi.Ref) (int64, error) {
	k, err := hashKey(toObj(obj))
	if err != nil {
		return 0, err
	}
	var h int64
	for _, c := range k {
		h = h*31 + int64(c)
	}
	return h, nil
}

func (rt *Runtime) Str(obj abi.Ref) (string, error) {
	return toObj(obj).String(), nil
}

func (rt *Runtime) Repr(obj abi.Ref) (string, error) {
	o := toObj(obj)
	if o.kind == KindStr {
		return fmt.Sprintf("%q", o.s), nil
	}
	return o.String(), nil
}

func (rt *Runtime) IsTruthy(obj abi.Ref) bool {
	o := toObj(obj)
	switch o.kind {
	case KindNone:
		return false
	case KindBool:
		return o.b
	case KindInt:
		return o.i != 0
	case KindFloat:
		return o.f != 0
	case KindStr:
		return o.s != ""
	case KindList, KindTuple:
		return len(o.items) > 0
	case KindDict:
		return len(o.dict) > 0
	case KindSet:
		return len(o.setKeys) > 0
	default:
		return true
	}
}

func (rt *Runtime) Iter(obj abi.Ref) (abi.Ref, error) {
	o := toObj(obj)
	var items []*Object
	switch o.kind {
	case KindList, KindTuple:
		items = append(items, o.items...)
	case KindStr:
		for _, r := range o.s {
			items = append(items, rt.strObj(string(r)))
		}
	case KindSet:
		for _, k := range o.setKeys {
			items = append(items, o.set[k])
		}
	case KindDict:
		for _, e := range o.dict {
			items = append(items, e.key)
		}
	case KindIterator:
		it := newObject(KindIterator)
		it.iterSource = o.iterSource[o.iterPos:]
		return ref(it), nil
	default:
		return abi.Ref{}, rt.fail("TypeError: '%s' object is not iterable", o.kind)
	}
	it := newObject(KindIterator)
	it.iterSource = items
	return ref(it), nil
}

func (rt *Runtime) IterNext(itRef abi.Ref) (abi.Ref, bool, error) {
	it := toObj(itRef)
	if it.kind != KindIterator {
		return abi.Ref{}, false, rt.fail("TypeError: '%s' object is not an iterator", it.kind)
	}
	if it.iterPos >= len(it.iterSource) {
		return abi.Ref{}, false, nil
	}
	v := it.iterSource[it.iterPos]
	it.iterPos++
	return ref(v), true, nil
}

// ---- Error slot ----

func (rt *Runtime) ErrSet(kind abi.ErrKind, msg string) {
	rt.err = abi.ErrTriplet{Kind: kind, Message: msg}
	rt.errHeld = true
}

func (rt *Runtime) ErrSetf(kind abi.ErrKind, format string, args ...any) {
	rt.ErrSet(kind, fmt.Sprintf(format, args...))
}

func (rt *Runtime) ErrFetch() (abi.ErrTriplet, bool) {
	if !rt.errHeld {
		return abi.ErrTriplet{}, false
	}
	t := rt.err
	rt.err = abi.ErrTriplet{}
	rt.errHeld = false
	return t, true
}

func (rt *Runtime) ErrRestore(t abi.ErrTriplet) {
	rt.err = t
	rt.errHeld = true
}

// ErrNormalize canonicalizes a triplet in place: a triplet of any kind
// with no Context but a live errHeld is chained onto the currently-held error
// (Python's implicit exception-chaining behavior), then returned.
func (rt *Runtime) ErrNormalize(t abi.ErrTriplet) abi.ErrTriplet {
	if t.Context == nil && rt.errHeld {
		ctx := rt.err
		t.Context = &ctx
	}
	return t
}

func (rt *Runtime) ErrOccurred() bool { return rt.errHeld }

func (rt *Runtime) ErrClear() {
	rt.err = abi.ErrTriplet{}
	rt.errHeld = false
}

// ---- Globals / eval / exec / import live in eval.go ----

func (rt *Runtime) Globals() abi.Ref { return ref(rt.globals) }

// sortedKeys returns m's keys in sorted order. Nothing in this tree
// calls it at present.
func sortedKeys(m map[string]*Object) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
