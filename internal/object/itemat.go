package object

import "github.com/sunholo/embind/internal/abi"

// ItemAt is a lightweight proxy for item access: implicitly convertible
// to Object and assignable from any convertible host value, so that
// container[k] = v reads like native indexing. Go has no implicit
// conversion, so Get/ToObject stand in for the read side and Set for the
// write side.
type ItemAt struct {
	container Object
	key       Object
}

// At builds an ItemAt proxy for container[key].
func At(container, key Object) ItemAt {
	return ItemAt{container: container, key: key}
}

// AtIndex builds an ItemAt proxy for container[i] (sequence façades).
func AtIndex(container Object, i int) ItemAt {
	return ItemAt{container: container, key: Steal(container.rt(), keyFromIndex(container.rt(), i))}
}

func keyFromIndex(rt abi.Runtime, i int) abi.Ref { return rt.NewInt(int64(i)) }

// Get reads the current value at the proxied location (the "implicitly
// convertible to Object" read side).
func (p ItemAt) Get() (Object, error) { return p.container.GetItemKey(p.key) }

// ToObject is an explicit alias for Get, used where the read needs to be
// spelled out rather than inferred from context.
func (p ItemAt) ToObject() (Object, error) { return p.Get() }

// Set stores v at the proxied location (the "assignable from any
// convertible host value" write side).
func (p ItemAt) Set(v Object) error { return p.container.SetItemKey(p.key, v) }
