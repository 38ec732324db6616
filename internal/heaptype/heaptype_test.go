package heaptype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/heaptype"
	"github.com/sunholo/embind/internal/rtscript"
)

type widget struct {
	label  string
	closed bool
	owner  abi.Ref
}

func TestBind_IsIdempotent(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)

	h1 := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)
	h2 := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)
	assert.Same(t, h1, h2)
}

func TestNewInstance_ExtractRoundTrips(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)

	w := &widget{label: "gizmo"}
	inst := heaptype.NewInstance(reg, h, w)

	got, err := heaptype.Extract[widget](reg, inst)
	require.NoError(t, err)
	assert.Equal(t, "gizmo", got.label)
	assert.Same(t, w, got)
}

func TestFind_FailsWhenUnbound(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	_, err := heaptype.Find[widget](reg)
	require.Error(t, err)
}

func TestDestructor_RunsOnFinalRelease(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, func(w *widget) {
		w.closed = true
	}, nil)

	w := &widget{}
	inst := heaptype.NewInstance(reg, h, w)
	rt.DecRef(inst)
	assert.True(t, w.closed)
}

func TestParentAccessor_IncrementsAndDecrementsOnFinalize(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)

	parent := rt.NewInt(42)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, func(w *widget) (abi.Ref, bool) {
		return w.owner, true
	})

	w := &widget{owner: parent}
	assert.Equal(t, int64(1), rt.RefCount(parent))

	inst := heaptype.NewInstance(reg, h, w)
	assert.Equal(t, int64(2), rt.RefCount(parent))

	rt.DecRef(inst)
	assert.Equal(t, int64(1), rt.RefCount(parent))
}

func TestSelf_ReturnsRegisteredInstance(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)

	w := &widget{label: "gizmo"}
	inst := heaptype.NewInstance(reg, h, w)

	got, ok := heaptype.Self(reg, w)
	require.True(t, ok)
	assert.Equal(t, inst.Unwrap(), got.Unwrap())
}

func TestSelf_FailsAfterFinalRelease(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)

	w := &widget{label: "gizmo"}
	inst := heaptype.NewInstance(reg, h, w)
	rt.DecRef(inst)

	_, ok := heaptype.Self(reg, w)
	assert.False(t, ok, "reverse-map entry must be removed once the instance is finalized")
}

func TestSelf_ReusedAddressResolvesToNewInstance(t *testing.T) {
	rt := rtscript.New()
	reg := heaptype.New(rt)
	h := heaptype.Bind[widget](reg, "Widget", "demo", nil, nil, nil)

	w := &widget{label: "first"}
	inst1 := heaptype.NewInstance(reg, h, w)
	rt.DecRef(inst1)

	// A later instance constructed at the address w used to occupy must
	// resolve Self to itself, not to the stale, already-finalized entry.
	inst2 := heaptype.NewInstance(reg, h, w)
	got, ok := heaptype.Self(reg, w)
	require.True(t, ok)
	assert.Equal(t, inst2.Unwrap(), got.Unwrap())
	assert.NotEqual(t, inst1.Unwrap(), got.Unwrap())
}
