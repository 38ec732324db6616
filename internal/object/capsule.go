package object

import (
	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
)

// Capsule wraps an owning host pointer behind a runtime-managed lifetime:
// the runtime invokes destructor when the capsule's refcount reaches
// zero. destructor must not assume the capsule object still exists by
// the time it runs — it receives only payload, never the Capsule façade
// itself, guarding against re-stealing a handle to an object that is
// mid-finalization.
type Capsule struct{ Object }

// NewCapsule wraps payload with destructor, called exactly once when the
// last reference is released.
func NewCapsule(rt abi.Runtime, payload any, destructor func(any)) Capsule {
	return Capsule{Steal(rt, rt.NewCapsule(payload, destructor))}
}

func (c *Capsule) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "capsule" {
		return convert.NewExtractError(rt, "capsule", obj)
	}
	c.Object = Borrow(rt, obj)
	return nil
}
