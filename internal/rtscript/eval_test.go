package rtscript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEval_NumberConversion asserts that arithmetic forwards verbatim and
// that type errors surface with the expected message shape.
func TestEval_NumberConversion(t *testing.T) {
	rt := New()
	g := rt.Globals()

	v, err := rt.Eval(g, "1 + 2")
	require.NoError(t, err)
	i, ok := rt.AsInt(v)
	require.True(t, ok)
	assert.Equal(t, int64(3), i)

	_, err = rt.Eval(g, "'abc' - 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operand type(s) for -: 'str' and 'int'")
}

func TestEval_Comparisons(t *testing.T) {
	rt := New()
	g := rt.Globals()

	v, err := rt.Eval(g, "3 <= 4")
	require.NoError(t, err)
	b, _ := rt.AsBool(v)
	assert.True(t, b)
}

func TestEval_SeqRepeatBothOperandOrders(t *testing.T) {
	rt := New()
	g := rt.Globals()

	v, err := rt.Eval(g, "'ab' * 3")
	require.NoError(t, err)
	s, ok := rt.AsStr(v)
	require.True(t, ok)
	assert.Equal(t, "ababab", s)

	v, err = rt.Eval(g, "3 * 'ab'")
	require.NoError(t, err)
	s, ok = rt.AsStr(v)
	require.True(t, ok)
	assert.Equal(t, "ababab", s)

	v, err = rt.Eval(g, "2 * [1, 2]")
	require.NoError(t, err)
	lst := toObj(v)
	require.Len(t, lst.items, 4)
	assert.Equal(t, []int64{1, 2, 1, 2}, []int64{lst.items[0].i, lst.items[1].i, lst.items[2].i, lst.items[3].i})
}

func TestExec_ImportFailureReturnsError(t *testing.T) {
	rt := New()
	g := rt.Globals()
	err := rt.Exec(g, "import does_not_exist")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "ModuleNotFoundError"))
}

func TestExec_AssignAndIf(t *testing.T) {
	rt := New()
	g := rt.Globals()
	err := rt.Exec(g, "x = 1\nif x == 1:\n  y = 10\nelse:\n  y = 20\n")
	require.NoError(t, err)
	yv, err := getName(toObj(g), "y")
	require.NoError(t, err)
	assert.Equal(t, int64(10), yv.i)
}

func TestExec_ForLoopSumsList(t *testing.T) {
	rt := New()
	g := rt.Globals()
	err := rt.Exec(g, "total = 0\nfor n in [1, 2, 3]:\n  total = total + n\n")
	require.NoError(t, err)
	totalV, err := getName(toObj(g), "total")
	require.NoError(t, err)
	assert.Equal(t, int64(6), totalV.i)
}

func TestDictPreservesInsertionOrder(t *testing.T) {
	rt := New()
	d := toObj(rt.NewDict())
	require.NoError(t, rt.SetItem(ref(d), rt.NewStr("a"), rt.NewInt(1)))
	require.NoError(t, rt.SetItem(ref(d), rt.NewStr("b"), rt.NewInt(2)))
	require.Len(t, d.dict, 2)
	assert.Equal(t, "a", d.dict[0].key.s)
	assert.Equal(t, "b", d.dict[1].key.s)
}

func TestRefcountIncDec(t *testing.T) {
	rt := New()
	r := rt.NewInt(42)
	rt.IncRef(r)
	assert.EqualValues(t, 2, rt.RefCount(r))
	rt.DecRef(r)
	assert.EqualValues(t, 1, rt.RefCount(r))
}
