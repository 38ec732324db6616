package call_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/call"
	"github.com/sunholo/embind/internal/rtscript"
)

func TestDispatch_PartitionsPositionalAndKeyword(t *testing.T) {
	rt := rtscript.New()

	var gotArgs []abi.Ref
	var gotKwargs map[string]abi.Ref
	fn := rt.NewHostCallable("probe", func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
		gotArgs = args
		gotKwargs = kwargs
		return rt.NewNone(), nil
	})

	a := rt.NewInt(1)
	b := rt.NewInt(2)
	kw := call.Kwargs{"x": rt.NewInt(3)}

	_, err := call.Dispatch(rt, fn, []call.Arg{call.Pos(a), call.Pos(b), call.Kw(kw)})
	require.NoError(t, err)
	assert.Len(t, gotArgs, 2)
	assert.Len(t, gotKwargs, 1)
}

func TestDispatch_NoArgsShape(t *testing.T) {
	rt := rtscript.New()
	var called bool
	fn := rt.NewHostCallable("probe", func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
		called = true
		assert.Empty(t, args)
		assert.Empty(t, kwargs)
		return rt.NewNone(), nil
	})

	_, err := call.Dispatch(rt, fn, nil)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPositionalKeyword_ReachesCallable(t *testing.T) {
	rt := rtscript.New()
	fn := rt.NewHostCallable("add", func(args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
		a, _ := rt.AsInt(args[0])
		b, _ := rt.AsInt(kwargs["y"])
		return rt.NewInt(a + b), nil
	})

	res, err := call.PositionalKeyword(rt, fn, []abi.Ref{rt.NewInt(4)}, map[string]abi.Ref{"y": rt.NewInt(5)})
	require.NoError(t, err)
	v, ok := rt.AsInt(res)
	require.True(t, ok)
	assert.Equal(t, int64(9), v)
}
