package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/object"
	"github.com/sunholo/embind/internal/rtscript"
)

func listItems(t *testing.T, l object.List) []object.Object {
	t.Helper()
	n, err := l.Len()
	require.NoError(t, err)
	out := make([]object.Object, n)
	for i := 0; i < n; i++ {
		out[i], err = l.GetItemIndex(i)
		require.NoError(t, err)
	}
	return out
}

func TestInt_ValRoundTrip(t *testing.T) {
	rt := rtscript.New()
	i := object.NewInt(rt, 7)
	v, err := i.Val()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestObject_ArithmeticForwardsVerbatim(t *testing.T) {
	rt := rtscript.New()
	a := object.NewInt(rt, 1).Object
	b := object.NewInt(rt, 2).Object

	sum, err := a.Add(b)
	require.NoError(t, err)
	var i object.Int
	require.NoError(t, i.FromRuntime(rt, sum.Ref()))
	v, _ := i.Val()
	assert.Equal(t, int64(3), v)
}

func TestObject_TypeErrorMessage(t *testing.T) {
	rt := rtscript.New()
	s := object.NewStr(rt, "abc").Object
	one := object.NewInt(rt, 1).Object

	_, err := s.Sub(one)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operand type(s) for -: 'str' and 'int'")
}

func TestList_AppendInsertSortReverse(t *testing.T) {
	rt := rtscript.New()
	l := object.NewList(rt, object.NewInt(rt, 3).Object, object.NewInt(rt, 1).Object)

	require.NoError(t, l.Append(object.NewInt(rt, 2).Object))
	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, l.Sort())
	assert.Equal(t, []int64{1, 2, 3}, asInts(t, rt, listItems(t, l)))

	require.NoError(t, l.Reverse())
	assert.Equal(t, []int64{3, 2, 1}, asInts(t, rt, listItems(t, l)))
}

func asInts(t *testing.T, rt *rtscript.Runtime, items []object.Object) []int64 {
	t.Helper()
	out := make([]int64, len(items))
	for i, it := range items {
		var iv object.Int
		require.NoError(t, iv.FromRuntime(rt, it.Ref()))
		v, err := iv.Val()
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

// TestDict_ForEachInsertionOrder asserts that ForEach visits entries in
// insertion order, not key order.
func TestDict_ForEachInsertionOrder(t *testing.T) {
	rt := rtscript.New()
	d := object.NewDict(rt)
	require.NoError(t, d.SetItemKey(object.NewStr(rt, "a").Object, object.NewInt(rt, 1).Object))
	require.NoError(t, d.SetItemKey(object.NewStr(rt, "b").Object, object.NewInt(rt, 2).Object))

	var keys []string
	var vals []int64
	require.NoError(t, d.ForEach(func(k, v object.Object) error {
		var ks object.Str
		require.NoError(t, ks.FromRuntime(rt, k.Ref()))
		kv, _ := ks.Val()
		keys = append(keys, kv)

		var iv object.Int
		require.NoError(t, iv.FromRuntime(rt, v.Ref()))
		vv, _ := iv.Val()
		vals = append(vals, vv)
		return nil
	}))
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Equal(t, []int64{1, 2}, vals)

	other := object.NewDict(rt)
	require.NoError(t, other.SetItemKey(object.NewStr(rt, "b").Object, object.NewInt(rt, 3).Object))
	require.NoError(t, other.SetItemKey(object.NewStr(rt, "c").Object, object.NewInt(rt, 4).Object))
	require.NoError(t, d.Update(other.Object))

	items, err := d.Items()
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestSet_AddDiscardHasPop(t *testing.T) {
	rt := rtscript.New()
	s := object.NewSet(rt)
	one := object.NewInt(rt, 1).Object
	require.NoError(t, s.Add(one))
	assert.True(t, s.Has(one))

	require.NoError(t, s.Discard(one))
	assert.False(t, s.Has(one))

	require.NoError(t, s.Add(object.NewInt(rt, 5).Object))
	popped, err := s.Pop()
	require.NoError(t, err)
	var iv object.Int
	require.NoError(t, iv.FromRuntime(rt, popped.Ref()))
	v, _ := iv.Val()
	assert.Equal(t, int64(5), v)
}

func TestItemAt_GetSet(t *testing.T) {
	rt := rtscript.New()
	l := object.NewList(rt, object.NewInt(rt, 1).Object)
	p := object.AtIndex(l.Object, 0)

	v, err := p.Get()
	require.NoError(t, err)
	var iv object.Int
	require.NoError(t, iv.FromRuntime(rt, v.Ref()))
	got, _ := iv.Val()
	assert.Equal(t, int64(1), got)

	require.NoError(t, p.Set(object.NewInt(rt, 9).Object))
	v2, err := p.Get()
	require.NoError(t, err)
	require.NoError(t, iv.FromRuntime(rt, v2.Ref()))
	got2, _ := iv.Val()
	assert.Equal(t, int64(9), got2)
}

func TestBaseException_Render(t *testing.T) {
	rt := rtscript.New()
	e := object.NewException(rt, abi.ErrValue, "bad value")

	rendered, err := e.Render(object.Traceback{})
	require.NoError(t, err)
	assert.Equal(t, "ValueError: bad value", rendered)
}
