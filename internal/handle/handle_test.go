package handle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/handle"
	"github.com/sunholo/embind/internal/rtscript"
)

// TestSteal_AdoptsWithoutIncrementing asserts that Steal adopts the
// caller's existing +1 without bumping the count again.
func TestSteal_AdoptsWithoutIncrementing(t *testing.T) {
	rt := rtscript.New()
	r := rt.NewInt(7)
	require.EqualValues(t, 1, rt.RefCount(r))

	h := handle.Steal(rt, r)
	assert.True(t, h.Valid())
	assert.EqualValues(t, 1, h.RefCount())

	h.Close()
}

// TestBorrow_Increments covers the second acquisition convention: Borrow
// takes a non-owning reference and bumps the count.
func TestBorrow_Increments(t *testing.T) {
	rt := rtscript.New()
	r := rt.NewInt(7)
	require.EqualValues(t, 1, rt.RefCount(r))

	h := handle.Borrow(rt, r)
	assert.EqualValues(t, 2, h.RefCount())

	h.Close()
	assert.EqualValues(t, 1, rt.RefCount(r))
}

// TestCopyMoveClose_ConserveRefcount asserts that the total refcount is
// conserved across copy/move/destruct sequences.
func TestCopyMoveClose_ConserveRefcount(t *testing.T) {
	rt := rtscript.New()
	r := rt.NewInt(100)
	h1 := handle.Steal(rt, r)

	h2 := h1.Copy()
	assert.EqualValues(t, 2, h1.RefCount())
	assert.EqualValues(t, 2, h2.RefCount())

	h3 := h2.Move()
	assert.False(t, h2.Valid())
	assert.True(t, h3.Valid())
	assert.EqualValues(t, 2, h3.RefCount())

	h3.Close()
	assert.EqualValues(t, 1, h1.RefCount())

	h1.Close()
}

func TestGet_PanicsWhenEmpty(t *testing.T) {
	var h handle.Handle
	assert.False(t, h.Valid())
	assert.Panics(t, func() { h.Get() })
}

func TestReset_ReleasesPrevious(t *testing.T) {
	rt := rtscript.New()
	a := rt.NewInt(1)
	b := rt.NewInt(2)

	h := handle.Steal(rt, a)
	h.Reset(rt, b)
	assert.EqualValues(t, 1, rt.RefCount(a))
	assert.EqualValues(t, 1, h.RefCount())

	h.Close()
}

func TestRelease_TransfersWithoutDecrementing(t *testing.T) {
	rt := rtscript.New()
	r := rt.NewInt(5)
	h := handle.Steal(rt, r)

	out := h.Release()
	assert.False(t, h.Valid())
	assert.EqualValues(t, 1, rt.RefCount(out))
}

func TestStealBorrow_PanicOnZeroRef(t *testing.T) {
	var zero abi.Ref
	rt := rtscript.New()
	assert.Panics(t, func() { handle.Steal(rt, zero) })
	assert.Panics(t, func() { handle.Borrow(rt, zero) })
}
