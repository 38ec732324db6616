// Package handle implements an owning/borrowing reference to a runtime
// object with explicit refcount discipline.
//
// Grounded on the teacher's internal/runtime.ModuleInstance, which guards
// one-time initialization with sync.Once and treats "has this been set up
// yet" as an explicit state rather than a nil check; Handle applies the
// same discipline to refcounts: valid()/release()/reset() are the only
// ways to observe or change state, there is no implicit raw-pointer path.
package handle

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// Handle owns at most one reference to a runtime object. States: empty
// (rt == nil) or holding (rt != nil, ref != zero).
type Handle struct {
	rt  abi.Runtime
	ref abi.Ref
	ok  bool
}

// Steal adopts an already-incremented reference produced by the runtime,
// one of the two acquisition conventions an ABI entrypoint can return.
// Panics if ref is zero: every ABI entrypoint documents which convention
// it returns, so a zero ref here is a defect in the caller, not a
// recoverable error.
func Steal(rt abi.Runtime, r abi.Ref) Handle {
	if r.IsZero() {
		panic("handle.Steal: nil reference")
	}
	return Handle{rt: rt, ref: r, ok: true}
}

// Borrow takes a non-owning pointer and increments its count, the other
// acquisition convention an ABI entrypoint can return.
func Borrow(rt abi.Runtime, r abi.Ref) Handle {
	if r.IsZero() {
		panic("handle.Borrow: nil reference")
	}
	rt.IncRef(r)
	return Handle{rt: rt, ref: r, ok: true}
}

// Valid reports whether h holds a reference.
func (h Handle) Valid() bool { return h.ok }

// Get returns the raw reference. Precondition: h.Valid(). Calling Get on
// an empty Handle is a defect, and panics accordingly.
func (h Handle) Get() abi.Ref {
	if !h.ok {
		panic("handle.Get: empty handle")
	}
	return h.ref
}

// Runtime returns the abi.Runtime this handle's reference belongs to.
// Precondition: h.Valid().
func (h Handle) Runtime() abi.Runtime {
	if !h.ok {
		panic("handle.Runtime: empty handle")
	}
	return h.rt
}

// Release yields the raw pointer without decrementing and transitions h to
// empty. The caller now owns the reference h.Release() returns.
func (h *Handle) Release() abi.Ref {
	if !h.ok {
		panic("handle.Release: empty handle")
	}
	r := h.ref
	h.ref = abi.Ref{}
	h.ok = false
	h.rt = nil
	return r
}

// Reset releases any currently-held reference, then adopts p (must be
// non-zero) without incrementing — i.e. p is stolen.
func (h *Handle) Reset(rt abi.Runtime, p abi.Ref) {
	if p.IsZero() {
		panic("handle.Reset: nil reference")
	}
	if h.ok {
		h.rt.DecRef(h.ref)
	}
	h.rt = rt
	h.ref = p
	h.ok = true
}

// IncRef / DecRef expose explicit count adjustments for callers that need
// to manage a reference's lifetime without going through a second Handle.
func (h Handle) IncRef() {
	if h.ok {
		h.rt.IncRef(h.ref)
	}
}

func (h Handle) DecRef() {
	if h.ok {
		h.rt.DecRef(h.ref)
	}
}

// Copy returns a new Handle sharing the same referent with its count
// incremented, conserving the total outstanding refcount.
func (h Handle) Copy() Handle {
	if !h.ok {
		return Handle{}
	}
	h.rt.IncRef(h.ref)
	return Handle{rt: h.rt, ref: h.ref, ok: true}
}

// Move transfers ownership to the returned Handle and empties h, with no
// refcount change.
func (h *Handle) Move() Handle {
	if !h.ok {
		return Handle{}
	}
	moved := Handle{rt: h.rt, ref: h.ref, ok: true}
	h.ref = abi.Ref{}
	h.ok = false
	h.rt = nil
	return moved
}

// Close decrements the held reference if any, transitioning h to empty.
// Safe to call on an already-empty Handle. Grounded on the teacher's
// pattern of io.Closer-like cleanup paired with defer (e.g.
// internal/repl.REPL's resource teardown).
func (h *Handle) Close() error {
	if h.ok {
		h.rt.DecRef(h.ref)
		h.ref = abi.Ref{}
		h.ok = false
		h.rt = nil
	}
	return nil
}

// RefCount reports the referent's current count, used by tests asserting
// that refcount operations conserve the total outstanding count.
func (h Handle) RefCount() int64 {
	if !h.ok {
		return 0
	}
	return h.rt.RefCount(h.ref)
}

func (h Handle) String() string {
	if !h.ok {
		return "<handle: empty>"
	}
	s, err := h.rt.Str(h.ref)
	if err != nil {
		return fmt.Sprintf("<handle: %v>", err)
	}
	return s
}
