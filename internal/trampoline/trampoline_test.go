package trampoline_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
	"github.com/sunholo/embind/internal/heaptype"
	"github.com/sunholo/embind/internal/params"
	"github.com/sunholo/embind/internal/rtscript"
	"github.com/sunholo/embind/internal/trampoline"
)

func intExtractor(rt abi.Runtime, r abi.Ref) (any, error) { return convert.ExtractInt(rt, r) }

func TestFunction_BindsAndInvokes(t *testing.T) {
	rt := rtscript.New()
	schema, err := params.NewSchema("add", "function", params.Param{Name: "a"}, params.Param{Name: "b"})
	require.NoError(t, err)

	add := func(a, b int64) int64 { return a + b }
	fn := trampoline.Function(rt, schema, []func(abi.Runtime, abi.Ref) (any, error){intExtractor, intExtractor}, add)

	res, err := rt.Call(fn, []abi.Ref{rt.NewInt(2), rt.NewInt(3)}, nil)
	require.NoError(t, err)
	v, ok := rt.AsInt(res)
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func TestFunction_BindFailureRaisesTypeError(t *testing.T) {
	rt := rtscript.New()
	schema, err := params.NewSchema("add", "function", params.Param{Name: "a"}, params.Param{Name: "b"})
	require.NoError(t, err)

	add := func(a, b int64) int64 { return a + b }
	fn := trampoline.Function(rt, schema, []func(abi.Runtime, abi.Ref) (any, error){intExtractor, intExtractor}, add)

	_, err = rt.Call(fn, []abi.Ref{rt.NewInt(2)}, nil)
	require.Error(t, err)
	require.True(t, rt.ErrOccurred())
	triplet, _ := rt.ErrFetch()
	assert.Equal(t, abi.ErrType, triplet.Kind)
	assert.Contains(t, triplet.Message, "missing argument 'b'")
}

type counter struct {
	n int64
}

func TestMethod_ExtractsSelfAndInvokes(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[counter](reg, "Counter", "demo", nil, nil, nil)

	c := &counter{n: 10}
	inst := heaptype.NewInstance(reg, h, c)

	selfExtract := func(rt abi.Runtime, r abi.Ref) (reflect.Value, error) {
		cv, err := heaptype.Extract[counter](reg, r)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(cv), nil
	}

	schema, err := params.NewSchema("bump", "method", params.Param{Name: "by"})
	require.NoError(t, err)

	bump := func(self *counter, by int64) int64 {
		self.n += by
		return self.n
	}
	m := trampoline.Method(rt, schema, selfExtract, []func(abi.Runtime, abi.Ref) (any, error){intExtractor}, bump)

	res, err := rt.Call(m, []abi.Ref{inst, rt.NewInt(5)}, nil)
	require.NoError(t, err)
	v, ok := rt.AsInt(res)
	require.True(t, ok)
	assert.Equal(t, int64(15), v)
	assert.Equal(t, int64(15), c.n)
}

func TestInit_ConstructsAndReturnsInstance(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[counter](reg, "Counter", "demo", nil, nil, nil)

	schema, err := params.NewSchema("Counter", "__init__", params.Param{Name: "start"})
	require.NoError(t, err)

	ctor := func(start int64) *counter { return &counter{n: start} }
	init := trampoline.Init[counter](rt, reg, h, schema, []func(abi.Runtime, abi.Ref) (any, error){intExtractor}, ctor)

	inst, err := rt.Call(init, []abi.Ref{rt.NewInt(7)}, nil)
	require.NoError(t, err)

	c, err := heaptype.Extract[counter](reg, inst)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.n)
}

func TestNoInit_AlwaysRaises(t *testing.T) {
	rt := rtscript.New()
	noInit := trampoline.NoInit(rt, "Counter")

	_, err := rt.Call(noInit, nil, nil)
	require.Error(t, err)
	triplet, _ := rt.ErrFetch()
	assert.Equal(t, abi.ErrType, triplet.Kind)
	assert.Contains(t, triplet.Message, "cannot create 'Counter' instances")
}

func TestGetterSetter_RoundTrip(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[counter](reg, "Counter", "demo", nil, nil, nil)
	c := &counter{n: 1}
	inst := heaptype.NewInstance(reg, h, c)

	selfExtract := func(rt abi.Runtime, r abi.Ref) (reflect.Value, error) {
		cv, err := heaptype.Extract[counter](reg, r)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(cv), nil
	}

	getter := trampoline.Getter(rt, "n", selfExtract, func(self reflect.Value) (any, error) {
		return self.Interface().(*counter).n, nil
	})
	setter := trampoline.Setter(rt, "n", selfExtract, intExtractor, func(self reflect.Value, v any) error {
		self.Interface().(*counter).n = v.(int64)
		return nil
	})

	_, err := rt.Call(setter, []abi.Ref{inst, rt.NewInt(99)}, nil)
	require.NoError(t, err)

	res, err := rt.Call(getter, []abi.Ref{inst}, nil)
	require.NoError(t, err)
	v, ok := rt.AsInt(res)
	require.True(t, ok)
	assert.Equal(t, int64(99), v)
}
