package object

import (
	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
)

// Sequence is the protocol façade layered on top of the generic
// item/operator surface: count, contains, index, and repetition. Str,
// Tuple, and List all satisfy it by embedding Object.
type Sequence struct{ Object }

const protocolSequence = "Sequence"

func (Sequence) TypeName() string { return protocolSequence }

func (s Sequence) Count(v Object) (int, error) {
	n, err := s.Len()
	if err != nil {
		return 0, err
	}
	count := 0
	for i := 0; i < n; i++ {
		item, err := s.GetItemIndex(i)
		if err != nil {
			return 0, err
		}
		eq, err := item.Eq(v)
		if err != nil {
			return 0, err
		}
		if eq {
			count++
		}
	}
	return count, nil
}

func (s Sequence) Contains(v Object) (bool, error) {
	c, err := s.Count(v)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (s Sequence) Index(v Object) (int, error) {
	n, err := s.Len()
	if err != nil {
		return -1, err
	}
	for i := 0; i < n; i++ {
		item, err := s.GetItemIndex(i)
		if err != nil {
			return -1, err
		}
		eq, err := item.Eq(v)
		if err != nil {
			return -1, err
		}
		if eq {
			return i, nil
		}
	}
	return -1, errValueError(s.rt(), "value not found")
}

func (s Sequence) Repeat(n int) (Object, error) {
	return s.Mul(Steal(s.rt(), convert.Object(s.rt(), int64(n))))
}

func errValueError(rt abi.Runtime, msg string) error {
	rt.ErrSetf(abi.ErrValue, "%s", msg)
	return &notFoundError{msg: msg}
}

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }

// Tuple is the immutable sequence façade.
type Tuple struct{ Sequence }

func NewTuple(rt abi.Runtime, items ...Object) Tuple {
	return Tuple{Sequence{Steal(rt, rt.NewTuple(toRefs(items)))}}
}

func (t *Tuple) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "tuple" {
		return convert.NewExtractError(rt, "tuple", obj)
	}
	t.Sequence = Sequence{Borrow(rt, obj)}
	return nil
}

// List is the mutable sequence façade.
type List struct{ Sequence }

func NewList(rt abi.Runtime, items ...Object) List {
	return List{Sequence{Steal(rt, rt.NewList(toRefs(items)))}}
}

func (l *List) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "list" {
		return convert.NewExtractError(rt, "list", obj)
	}
	l.Sequence = Sequence{Borrow(rt, obj)}
	return nil
}

// Append adds v to the end of the list via a slice assignment at [n:n) —
// the same operation Python-style mutable sequences use to grow in place.
func (l List) Append(v Object) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	return l.SetSlice(n, n, NewList(l.rt(), v).Object)
}

// Insert places v at index i, shifting later elements right.
func (l List) Insert(i int, v Object) error {
	return l.SetSlice(i, i, NewList(l.rt(), v).Object)
}

// Sort reorders the list ascending using the generic comparison operator.
func (l List) Sort() error {
	items, err := l.snapshot()
	if err != nil {
		return err
	}
	for i := 1; i < len(items); i++ {
		key := items[i]
		j := i - 1
		for j >= 0 {
			gt, err := items[j].Gt(key)
			if err != nil {
				return err
			}
			if !gt {
				break
			}
			items[j+1] = items[j]
			j--
		}
		items[j+1] = key
	}
	return l.replaceAll(items)
}

// Reverse reorders the list back-to-front.
func (l List) Reverse() error {
	items, err := l.snapshot()
	if err != nil {
		return err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return l.replaceAll(items)
}

func (l List) snapshot() ([]Object, error) {
	n, err := l.Len()
	if err != nil {
		return nil, err
	}
	items := make([]Object, n)
	for i := 0; i < n; i++ {
		items[i], err = l.GetItemIndex(i)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (l List) replaceAll(items []Object) error {
	n, err := l.Len()
	if err != nil {
		return err
	}
	return l.SetSlice(0, n, NewList(l.rt(), items...).Object)
}

// Mapping is the protocol façade Dict satisfies: has_key, keys, values,
// items on top of the generic item/operator surface.
type Mapping struct{ Object }

const protocolMapping = "Mapping"

func (Mapping) TypeName() string { return protocolMapping }

func (m Mapping) HasKey(key Object) bool {
	_, err := m.GetItemKey(key)
	return err == nil
}

// Dict is the concrete, insertion-ordered mapping façade.
type Dict struct{ Mapping }

func NewDict(rt abi.Runtime) Dict { return Dict{Mapping{Steal(rt, rt.NewDict())}} }

func (d *Dict) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "dict" {
		return convert.NewExtractError(rt, "dict", obj)
	}
	d.Mapping = Mapping{Borrow(rt, obj)}
	return nil
}

// Clear removes every key, rebuilding the dict in place via a fresh
// runtime dict swapped into the same handle's referent is not available
// through the abi surface, so Clear deletes keys one at a time.
func (d Dict) Clear() error {
	pairs, err := d.Items()
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		if err := d.DelItemKey(kv[0]); err != nil {
			return err
		}
	}
	return nil
}

// Update merges another Mapping (or an iterable of key-value pair Tuples)
// into d, later keys overwriting earlier ones.
func (d Dict) Update(src Object) error {
	if src.TypeName() == "dict" {
		var other Dict
		if err := other.FromRuntime(src.rt(), src.ref()); err != nil {
			return err
		}
		pairs, err := other.Items()
		if err != nil {
			return err
		}
		for _, kv := range pairs {
			if err := d.SetItemKey(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	}
	it, err := src.Iter()
	if err != nil {
		return err
	}
	for {
		pair, ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		k, err := pair.GetItemIndex(0)
		if err != nil {
			return err
		}
		v, err := pair.GetItemIndex(1)
		if err != nil {
			return err
		}
		if err := d.SetItemKey(k, v); err != nil {
			return err
		}
	}
}

// Items returns every (key, value) pair in insertion order — the
// mapping-protocol accessor. ForEach below is the visiting form.
func (d Dict) Items() ([][2]Object, error) {
	keys, err := d.Keys()
	if err != nil {
		return nil, err
	}
	out := make([][2]Object, len(keys))
	for i, k := range keys {
		v, err := d.GetItemKey(k)
		if err != nil {
			return nil, err
		}
		out[i] = [2]Object{k, v}
	}
	return out, nil
}

func (d Dict) Keys() ([]Object, error) {
	it, err := d.Iter()
	if err != nil {
		return nil, err
	}
	var out []Object
	for {
		k, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, k)
	}
}

func (d Dict) Values() ([]Object, error) {
	pairs, err := d.Items()
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(pairs))
	for i, kv := range pairs {
		out[i] = kv[1]
	}
	return out, nil
}

// ForEach visits each (key, value) pair in insertion order, exposing
// borrowed references to both.
func (d Dict) ForEach(fn func(key, value Object) error) error {
	pairs, err := d.Items()
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		if err := fn(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Set is a distinct non-sequence container.
type Set struct{ Object }

func NewSet(rt abi.Runtime) Set { return Set{Steal(rt, rt.NewSet())} }

func (s *Set) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "set" {
		return convert.NewExtractError(rt, "set", obj)
	}
	s.Object = Borrow(rt, obj)
	return nil
}

// Has reports whether v is a member.
func (s Set) Has(v Object) bool { return s.rt().SetHas(s.ref(), v.ref()) }

// Add inserts v, a no-op if already present.
func (s Set) Add(v Object) error { return s.rt().SetAdd(s.ref(), v.ref()) }

// Discard removes v if present, a no-op otherwise.
func (s Set) Discard(v Object) error { return s.rt().SetDiscard(s.ref(), v.ref()) }

// Pop removes and returns an arbitrary member, raising KeyError if empty.
func (s Set) Pop() (Object, error) {
	v, err := s.rt().SetPop(s.ref())
	if err != nil {
		return Object{}, err
	}
	return Steal(s.rt(), v), nil
}

// Clear removes every member.
func (s Set) Clear() error { return s.rt().SetClear(s.ref()) }
