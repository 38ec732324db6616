package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/convert"
	"github.com/sunholo/embind/internal/rtscript"
)

// TestConversionRoundTrip asserts that for each primitive host type and
// every value in its domain, extract(object(v)) equals v.
func TestConversionRoundTrip(t *testing.T) {
	rt := rtscript.New()

	ints := []int64{0, 1, -1, 42, -1000000}
	for _, v := range ints {
		obj := convert.Object(rt, v)
		got, err := convert.ExtractInt(rt, obj)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	floats := []float64{0, 1.5, -2.25, 3.14159}
	for _, v := range floats {
		obj := convert.Object(rt, v)
		got, err := convert.ExtractFloat(rt, obj)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	for _, v := range []bool{true, false} {
		obj := convert.Object(rt, v)
		got, err := convert.ExtractBool(rt, obj)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	for _, v := range []string{"", "hello", "unicode: café"} {
		obj := convert.Object(rt, v)
		got, err := convert.ExtractStr(rt, obj)
		require.NoError(t, err)
		assert.Equal(t, convert.NormalizeStr(v), got)
	}
}

func TestExtract_TypeMismatchMessage(t *testing.T) {
	rt := rtscript.New()
	obj := convert.Object(rt, "not an int")

	_, err := convert.ExtractInt(rt, obj)
	require.Error(t, err)
	assert.Equal(t, "expected 'int', got 'str'", err.Error())
}

func TestExtractOptional_NoneIsAbsent(t *testing.T) {
	rt := rtscript.New()
	none := rt.NewNone()

	v, present, err := convert.ExtractOptional(rt, none, convert.ExtractInt)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, int64(0), v)

	obj := convert.Object(rt, int64(7))
	v, present, err = convert.ExtractOptional(rt, obj, convert.ExtractInt)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, int64(7), v)
}

func TestExtractFloat_AcceptsInt(t *testing.T) {
	rt := rtscript.New()
	obj := convert.Object(rt, int64(5))

	v, err := convert.ExtractFloat(rt, obj)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}
