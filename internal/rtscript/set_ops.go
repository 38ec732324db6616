package rtscript

import "github.com/sunholo/embind/internal/abi"

// SetAdd, SetDiscard, SetPop, SetHas, SetClear implement the set protocol
// for Set, a distinct non-sequence container. Grounded
// on the same canonical-hashKey membership test the Dict implementation
// in runtime.go/ops.go already uses, applied to Object.set/setKeys instead
// of Object.dict/dictPos.
func (rt *Runtime) SetAdd(set, v abi.Ref) error {
	o := toObj(set)
	if o.kind != KindSet {
		return rt.fail("TypeError: '%s' object has no add()", o.kind)
	}
	vo := toObj(v)
	k, err := hashKey(vo)
	if err != nil {
		return rt.fail("%s", err.Error())
	}
	if _, ok := o.set[k]; ok {
		return nil
	}
	o.set[k] = vo
	o.setKeys = append(o.setKeys, k)
	return nil
}

func (rt *Runtime) SetDiscard(set, v abi.Ref) error {
	o := toObj(set)
	if o.kind != KindSet {
		return rt.fail("TypeError: '%s' object has no discard()", o.kind)
	}
	vo := toObj(v)
	k, err := hashKey(vo)
	if err != nil {
		return rt.fail("%s", err.Error())
	}
	if _, ok := o.set[k]; !ok {
		return nil
	}
	delete(o.set, k)
	for i, kk := range o.setKeys {
		if kk == k {
			o.setKeys = append(o.setKeys[:i], o.setKeys[i+1:]...)
			break
		}
	}
	return nil
}

func (rt *Runtime) SetPop(set abi.Ref) (abi.Ref, error) {
	o := toObj(set)
	if o.kind != KindSet {
		return abi.Ref{}, rt.fail("TypeError: '%s' object has no pop()", o.kind)
	}
	if len(o.setKeys) == 0 {
		return abi.Ref{}, rt.fail("KeyError: pop from an empty set")
	}
	k := o.setKeys[0]
	member := o.set[k]
	delete(o.set, k)
	o.setKeys = o.setKeys[1:]
	return ref(member), nil
}

func (rt *Runtime) SetHas(set, v abi.Ref) bool {
	o := toObj(set)
	if o.kind != KindSet {
		return false
	}
	vo := toObj(v)
	k, err := hashKey(vo)
	if err != nil {
		return false
	}
	_, ok := o.set[k]
	return ok
}

func (rt *Runtime) SetClear(set abi.Ref) error {
	o := toObj(set)
	if o.kind != KindSet {
		return rt.fail("TypeError: '%s' object has no clear()", o.kind)
	}
	o.set = make(map[string]*Object)
	o.setKeys = nil
	return nil
}
