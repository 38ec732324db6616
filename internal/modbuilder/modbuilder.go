// Package modbuilder implements the binding core's module and class
// builder, assembling trampolines and heap types into a native-backed
// module script code can import.
//
// Grounded on the teacher's cmd/ailang registration style — main.go and
// internal/repl/repl.go both assemble a fixed set of named entries into a
// runtime-visible namespace at startup — generalized here into a builder
// API instead of a hand-written list, since embind's whole point is that
// the entries are supplied by the binding's own host code rather than
// fixed ahead of time.
package modbuilder

import (
	"reflect"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/heaptype"
	"github.com/sunholo/embind/internal/object"
	"github.com/sunholo/embind/internal/params"
	"github.com/sunholo/embind/internal/trampoline"
)

// Extractor converts a runtime argument into a host value for binding;
// an ordered slice of these accompanies every Schema passed to Def/DefInit.
type Extractor = func(abi.Runtime, abi.Ref) (any, error)

// Builder assembles a single native-backed module with static lifetime:
// internal/object.Module_ already registers the module with the runtime
// the moment it is created, so the module's Go value lives for as long
// as anything (the runtime's module table) holds it.
type Builder struct {
	rt   abi.Runtime
	reg  *heaptype.Registry
	name string
	mod  object.Module
}

// Module creates a new native-backed module named name.
func Module(rt abi.Runtime, reg *heaptype.Registry, name string) *Builder {
	return &Builder{rt: rt, reg: reg, name: name, mod: object.Module_(rt, name)}
}

// Module returns the façade for the module under construction.
func (b *Builder) Module() object.Module { return b.mod }

// Add installs obj under name in the module's namespace.
func (b *Builder) Add(name string, obj object.Object) error {
	return b.mod.Add(name, obj)
}

// Def builds a function trampoline from fn and schema and installs it
// under name.
func (b *Builder) Def(name string, schema params.Schema, extractors []Extractor, fn any) error {
	r := trampoline.Function(b.rt, schema, extractors, fn)
	return b.Add(name, object.Borrow(b.rt, r))
}

// ClassBuilder populates one heap type's methods, initializer, and
// properties: it creates a heap type, installs a no-init default, then
// offers DefInit, Def, and Prop.
type ClassBuilder[T any] struct {
	rt  abi.Runtime
	reg *heaptype.Registry
	h   *heaptype.HeapType
	mod *Builder
}

// Class registers a new heap type named name under mod, installs the
// no-init default constructor, and adds the class's Type object to the
// module's namespace.
func Class[T any](mod *Builder, name string, bases []abi.Ref, destructor func(*T), parentOf func(*T) (abi.Ref, bool)) (*ClassBuilder[T], error) {
	h := heaptype.Bind[T](mod.reg, name, mod.name, bases, destructor, parentOf)
	mod.rt.SetCallable(h.TypeRef(), mod.rt.CallableFunc(trampoline.NoInit(mod.rt, name)))

	var typ object.Type
	if err := typ.FromRuntime(mod.rt, h.TypeRef()); err != nil {
		return nil, err
	}
	if err := mod.Add(name, typ.Object); err != nil {
		return nil, err
	}
	return &ClassBuilder[T]{rt: mod.rt, reg: mod.reg, h: h, mod: mod}, nil
}

// DefInit replaces the class's default no-init constructor with ctor,
// which becomes the only way to build instances once it has been
// explicitly installed.
func (c *ClassBuilder[T]) DefInit(schema params.Schema, extractors []Extractor, ctor any) {
	initFn := trampoline.Init[T](c.rt, c.reg, c.h, schema, extractors, ctor)
	c.rt.SetCallable(c.h.TypeRef(), c.rt.CallableFunc(initFn))
}

// Def installs a method trampoline under name on this class.
func (c *ClassBuilder[T]) Def(name string, schema params.Schema, extractors []Extractor, method any) error {
	selfExtract := c.selfExtractor()
	r := trampoline.Method(c.rt, schema, selfExtract, extractors, method)
	return c.addAttr(name, r)
}

// Prop installs a getter/setter pair as a property named name. set may
// be nil, in which case the property is read-only. rtscript has no
// descriptor protocol to hook attribute get/set through, so the pair is
// installed as plain callables under "__get_<name>"/"__set_<name>" on
// the type; a host binding calls them explicitly rather than through
// `obj.name` assignment syntax.
func (c *ClassBuilder[T]) Prop(name string, get func(self *T) (any, error), set func(self *T, v any) error, setExtract Extractor) error {
	selfExtract := c.selfExtractor()
	getFn := trampoline.Getter(c.rt, name, selfExtract, func(sv reflect.Value) (any, error) {
		return get(sv.Interface().(*T))
	})
	if err := c.addAttr("__get_"+name, getFn); err != nil {
		return err
	}
	if set == nil {
		return nil
	}
	setFn := trampoline.Setter(c.rt, name, selfExtract, setExtract, func(sv reflect.Value, v any) error {
		return set(sv.Interface().(*T), v)
	})
	return c.addAttr("__set_"+name, setFn)
}

func (c *ClassBuilder[T]) addAttr(name string, r abi.Ref) error {
	return c.rt.SetAttr(c.h.TypeRef(), name, r)
}

func (c *ClassBuilder[T]) selfExtractor() trampoline.SelfExtractor {
	return func(rt abi.Runtime, r abi.Ref) (reflect.Value, error) {
		t, err := heaptype.Extract[T](c.reg, r)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	}
}
