package object

import "github.com/sunholo/embind/internal/abi"

// Iterator exposes next() → optional value. End-of-iteration returns
// (zero, false, nil); runtime-raised errors propagate as host errors.
type Iterator struct{ Object }

const protocolIterator = "Iterator"

func (Iterator) TypeName() string { return protocolIterator }

// Next advances the iterator, returning (value, true, nil) while items
// remain, (zero, false, nil) at exhaustion, or (zero, false, err) if the
// runtime raised during iteration.
func (it Iterator) Next() (Object, bool, error) {
	v, ok, err := it.rt().IterNext(it.ref())
	if err != nil {
		return Object{}, false, runtimeErr(it.rt(), err)
	}
	if !ok {
		return Object{}, false, nil
	}
	return Steal(it.rt(), v), true, nil
}

func (it *Iterator) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	// Any object is accepted; no check is made here (protocol façades
	// have no concrete runtime type to compare against). A non-iterator
	// is rejected only later, when IterNext raises a TypeError on it.
	it.Object = Borrow(rt, obj)
	return nil
}
