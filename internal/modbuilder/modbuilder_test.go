package modbuilder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
	"github.com/sunholo/embind/internal/heaptype"
	"github.com/sunholo/embind/internal/modbuilder"
	"github.com/sunholo/embind/internal/params"
	"github.com/sunholo/embind/internal/rtscript"
)

func intExtractor(rt abi.Runtime, r abi.Ref) (any, error) { return convert.ExtractInt(rt, r) }

func TestDef_InstallsCallableFunction(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	mod := modbuilder.Module(rt, reg, "demo")

	schema, err := params.NewSchema("double", "function", params.Param{Name: "x"})
	require.NoError(t, err)

	require.NoError(t, mod.Def("double", schema, []modbuilder.Extractor{intExtractor}, func(x int64) int64 { return x * 2 }))

	fnAttr, err := mod.Module().GetAttr("double")
	require.NoError(t, err)

	res, err := rt.Call(fnAttr.Ref(), []abi.Ref{rt.NewInt(21)}, nil)
	require.NoError(t, err)
	v, ok := rt.AsInt(res)
	require.True(t, ok)
	assert.Equal(t, int64(42), v)
}

type point struct{ x, y int64 }

func TestClass_DefaultNoInitRaisesUntilDefInit(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	mod := modbuilder.Module(rt, reg, "demo")

	cb, err := modbuilder.Class[point](mod, "Point", nil, nil, nil)
	require.NoError(t, err)

	typAttr, err := mod.Module().GetAttr("Point")
	require.NoError(t, err)

	_, err = rt.Call(typAttr.Ref(), nil, nil)
	require.Error(t, err)

	initSchema, err := params.NewSchema("Point", "__init__", params.Param{Name: "x"}, params.Param{Name: "y"})
	require.NoError(t, err)
	cb.DefInit(initSchema, []modbuilder.Extractor{intExtractor, intExtractor}, func(x, y int64) *point {
		return &point{x: x, y: y}
	})

	inst, err := rt.Call(typAttr.Ref(), []abi.Ref{rt.NewInt(1), rt.NewInt(2)}, nil)
	require.NoError(t, err)

	p, err := heaptype.Extract[point](reg, inst)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.x)
	assert.Equal(t, int64(2), p.y)
}

func TestClass_MethodAndProp(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	mod := modbuilder.Module(rt, reg, "demo")

	cb, err := modbuilder.Class[point](mod, "Point", nil, nil, nil)
	require.NoError(t, err)

	initSchema, err := params.NewSchema("Point", "__init__", params.Param{Name: "x"}, params.Param{Name: "y"})
	require.NoError(t, err)
	cb.DefInit(initSchema, []modbuilder.Extractor{intExtractor, intExtractor}, func(x, y int64) *point {
		return &point{x: x, y: y}
	})

	moveSchema, err := params.NewSchema("translate", "method", params.Param{Name: "dx"})
	require.NoError(t, err)
	require.NoError(t, cb.Def("translate", moveSchema, []modbuilder.Extractor{intExtractor}, func(self *point, dx int64) int64 {
		self.x += dx
		return self.x
	}))

	require.NoError(t, cb.Prop("x", func(self *point) (any, error) {
		return self.x, nil
	}, func(self *point, v any) error {
		self.x = v.(int64)
		return nil
	}, intExtractor))

	typAttr, err := mod.Module().GetAttr("Point")
	require.NoError(t, err)
	inst, err := rt.Call(typAttr.Ref(), []abi.Ref{rt.NewInt(10), rt.NewInt(20)}, nil)
	require.NoError(t, err)

	to := rt.TypeOf(inst)
	translate, err := rt.GetAttr(to, "translate")
	require.NoError(t, err)
	res, err := rt.Call(translate, []abi.Ref{inst, rt.NewInt(5)}, nil)
	require.NoError(t, err)
	v, _ := rt.AsInt(res)
	assert.Equal(t, int64(15), v)

	getX, err := rt.GetAttr(to, "__get_x")
	require.NoError(t, err)
	res2, err := rt.Call(getX, []abi.Ref{inst}, nil)
	require.NoError(t, err)
	v2, _ := rt.AsInt(res2)
	assert.Equal(t, int64(15), v2)
}
