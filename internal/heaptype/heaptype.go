// Package heaptype implements the binding core's heap-type registry,
// which lets a host Go type be exposed to scripts as a runtime-native
// class.
//
// A heap-type instance conceptually rides "[runtime object header | host
// T]" located by byte offset. internal/rtscript has no pointer arithmetic
// to exploit that representation with, so the registry instead leans on
// rtscript's own KindInstance object (an opaque host payload plus an
// instanceOf back-pointer, added to abi.Runtime alongside this package)
// — the same "host value riding inside a runtime object" idea, expressed
// the way Go actually represents it.
//
// Grounded on the teacher's internal/runtime.ModuleInstance registry: one
// entry per registered identity, looked up by a stable key, constructed
// exactly once (bind is idempotent the same way ModuleInstance guards
// double-initialization).
package heaptype

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/sunholo/embind/internal/abi"
)

// HeapType is the registry entry for one host type T exposed to scripts:
// its runtime Type object and the destructor invoked when an instance's
// refcount reaches zero.
type HeapType struct {
	Name       string
	ModuleName string
	typeRef    abi.Ref
	destructor func(any)
	parentOf   func(payload any) (abi.Ref, bool) // optional parent accessor
}

// TypeRef returns the runtime Type object this heap type is bound to.
func (h HeapType) TypeRef() abi.Ref { return h.typeRef }

// Registry binds Go types (identified by reflect.Type, the stand-in for a
// host type's identity token) to HeapType entries.
type Registry struct {
	rt abi.Runtime

	mu        sync.Mutex
	entries   map[reflect.Type]*HeapType
	instances map[unsafe.Pointer]abi.Ref // host T& → its owning instance, reverse mapping
}

// New creates an empty registry bound to rt.
func New(rt abi.Runtime) *Registry {
	return &Registry{rt: rt, entries: make(map[reflect.Type]*HeapType), instances: make(map[unsafe.Pointer]abi.Ref)}
}

// Bind registers T (identified by a zero value of it) as a heap type,
// idempotently: a second Bind for the same Go type returns the existing
// entry rather than creating a new runtime Type object.
//
// destructor runs the host destructor on the embedded value; it may be
// nil for a type with nothing to clean up. parentOf, if non-nil, extracts
// an optional parent back-reference — when it returns (ref, true), each
// instance increments ref on construction and decrements it on
// destruction.
func Bind[T any](reg *Registry, name, moduleName string, bases []abi.Ref, destructor func(*T), parentOf func(*T) (abi.Ref, bool)) *HeapType {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	key := reflect.TypeOf((*T)(nil)).Elem()
	if existing, ok := reg.entries[key]; ok {
		return existing
	}

	h := &HeapType{
		Name:       name,
		ModuleName: moduleName,
		typeRef:    reg.rt.NewType(abi.TypeSpec{Name: name, ModuleName: moduleName, Bases: bases}),
	}
	if destructor != nil {
		h.destructor = func(payload any) { destructor(payload.(*T)) }
	}
	if parentOf != nil {
		h.parentOf = func(payload any) (abi.Ref, bool) { return parentOf(payload.(*T)) }
	}
	reg.entries[key] = h
	return h
}

// Find looks up the heap type bound for T, failing if Bind was never
// called for it.
func Find[T any](reg *Registry) (*HeapType, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	key := reflect.TypeOf((*T)(nil)).Elem()
	h, ok := reg.entries[key]
	if !ok {
		return nil, fmt.Errorf("heaptype: no type bound for %s", key)
	}
	return h, nil
}

// NewInstance allocates a runtime instance of h wrapping payload and
// records it in the registry's reverse map so Self can later recover the
// owning instance from the bare payload pointer. If h has a parent
// accessor, the parent's refcount is incremented now.
//
// The reverse-map entry is removed when the instance's own destructor
// runs (refcount reaching zero), not left to accumulate for the
// registry's lifetime — otherwise a later allocation that happens to
// reuse the same address would collide with a stale entry still pointing
// at the finalized instance's Ref.
func NewInstance[T any](reg *Registry, h *HeapType, payload *T) abi.Ref {
	var parent abi.Ref
	if h.parentOf != nil {
		if p, ok := h.parentOf(payload); ok {
			parent = p
		}
	}
	key := unsafe.Pointer(payload)
	dtor := func(p any) {
		reg.mu.Lock()
		delete(reg.instances, key)
		reg.mu.Unlock()
		if h.destructor != nil {
			h.destructor(p)
		}
	}
	inst := reg.rt.NewInstance(h.typeRef, payload, dtor, parent)

	reg.mu.Lock()
	reg.instances[key] = inst
	reg.mu.Unlock()

	return inst
}

// Self computes the owning instance for a host T&: it returns a borrowed
// handle to the instance payload was registered under via NewInstance,
// incrementing its refcount. ok is false if payload was never registered
// (e.g. it is not heap-allocated through this registry) or its instance
// has already been finalized.
func Self[T any](reg *Registry, payload *T) (ref abi.Ref, ok bool) {
	reg.mu.Lock()
	inst, found := reg.instances[unsafe.Pointer(payload)]
	reg.mu.Unlock()
	if !found {
		return abi.Ref{}, false
	}
	reg.rt.IncRef(inst)
	return inst, true
}

// Extract recovers the embedded host T from an instance obj by unwrapping
// its opaque payload and type-asserting it.
func Extract[T any](reg *Registry, obj abi.Ref) (*T, error) {
	payload, ok := reg.rt.InstancePayload(obj)
	if !ok {
		return nil, fmt.Errorf("heaptype: '%s' object is not a heap-type instance", reg.rt.TypeName(reg.rt.TypeOf(obj)))
	}
	t, ok := payload.(*T)
	if !ok {
		return nil, fmt.Errorf("heaptype: instance payload is not of the expected host type")
	}
	return t, nil
}
