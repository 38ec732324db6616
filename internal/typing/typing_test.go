package typing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/object"
	"github.com/sunholo/embind/internal/rtscript"
	"github.com/sunholo/embind/internal/typing"
)

func TestUnion_IsInstanceMatchesAnyMember(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))
	strType := object.Borrow(rt, rt.TypeOf(rt.NewStr("x")))

	u, err := typing.Union(typing.TypeMember(intType), typing.TypeMember(strType))
	require.NoError(t, err)

	i := object.Borrow(rt, rt.NewInt(7))
	s := object.Borrow(rt, rt.NewStr("hi"))
	b := object.Borrow(rt, rt.NewBool(true))

	assert.True(t, u.IsInstance(i))
	assert.True(t, u.IsInstance(s))
	assert.False(t, u.IsInstance(b))
}

func TestUnion_TypeNameJoinsMembers(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))
	strType := object.Borrow(rt, rt.TypeOf(rt.NewStr("x")))

	u, err := typing.Union(typing.TypeMember(intType), typing.TypeMember(strType))
	require.NoError(t, err)
	assert.Equal(t, "int | str", u.TypeName())
}

func TestUnion_FlattensNestedVariant(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))
	strType := object.Borrow(rt, rt.TypeOf(rt.NewStr("x")))
	boolType := object.Borrow(rt, rt.TypeOf(rt.NewBool(true)))

	inner, err := typing.Union(typing.TypeMember(intType), typing.TypeMember(strType))
	require.NoError(t, err)

	outer, err := typing.Union(inner, typing.TypeMember(boolType))
	require.NoError(t, err)
	assert.Equal(t, "int | str | bool", outer.TypeName())
}

func TestUnion_RejectsDuplicateMembers(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))

	_, err := typing.Union(typing.TypeMember(intType), typing.TypeMember(intType))
	require.Error(t, err)
}

func TestOptional_MatchesNoneAndMember(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))

	opt, err := typing.Optional(rt, typing.TypeMember(intType))
	require.NoError(t, err)

	assert.True(t, opt.IsInstance(object.Borrow(rt, rt.NewNone())))
	assert.True(t, opt.IsInstance(object.Borrow(rt, rt.NewInt(1))))
	assert.False(t, opt.IsInstance(object.Borrow(rt, rt.NewStr("x"))))
	assert.Equal(t, "int | None", opt.TypeName())
}

func TestProtocol_SatisfiesChecksAttributes(t *testing.T) {
	rt := rtscript.New()
	mod := object.Module_(rt, "demo")
	require.NoError(t, mod.Add("read", object.None(rt)))

	readable := typing.NewProtocol("Readable", "read")
	assert.True(t, readable.Satisfies(mod.Object))

	seekable := typing.NewProtocol("Seekable", "read", "seek")
	assert.False(t, seekable.Satisfies(mod.Object))
}

func TestTypeNameOf_WorksAcrossAllNamedKinds(t *testing.T) {
	rt := rtscript.New()
	intType := object.Borrow(rt, rt.TypeOf(rt.NewInt(1)))
	member := typing.TypeMember(intType)
	variant, err := typing.Union(member)
	require.NoError(t, err)
	proto := typing.NewProtocol("Readable", "read")

	assert.Equal(t, "int", typing.TypeNameOf(member))
	assert.Equal(t, "int", typing.TypeNameOf(variant))
	assert.Equal(t, "Readable", typing.TypeNameOf(proto))
}
