package params_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
	"github.com/sunholo/embind/internal/params"
	"github.com/sunholo/embind/internal/rtscript"
)

func schemaFor(t *testing.T, rt *rtscript.Runtime, kind string) params.Schema {
	t.Helper()
	s, err := params.NewSchema("greet", kind,
		params.Param{Name: "name"},
		params.Param{Name: "times", Default: params.Value(rt.NewInt(1))},
	)
	require.NoError(t, err)
	return s
}

func TestBind_PositionalOnly(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	slots, err := s.Bind([]abi.Ref{rt.NewStr("alice"), rt.NewInt(3)}, nil)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	name, _ := rt.AsStr(slots[0])
	times, _ := rt.AsInt(slots[1])
	assert.Equal(t, "alice", name)
	assert.Equal(t, int64(3), times)
}

func TestBind_DefaultFillsMissingSlot(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	slots, err := s.Bind([]abi.Ref{rt.NewStr("bob")}, nil)
	require.NoError(t, err)

	times, _ := rt.AsInt(slots[1])
	assert.Equal(t, int64(1), times)
}

func TestBind_KeywordFillsNamedSlot(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	slots, err := s.Bind(nil, map[string]abi.Ref{
		"name":  rt.NewStr("carl"),
		"times": rt.NewInt(5),
	})
	require.NoError(t, err)
	name, _ := rt.AsStr(slots[0])
	times, _ := rt.AsInt(slots[1])
	assert.Equal(t, "carl", name)
	assert.Equal(t, int64(5), times)
}

func TestBind_TooManyPositional(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	_, err := s.Bind([]abi.Ref{rt.NewStr("a"), rt.NewInt(1), rt.NewInt(2)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function takes at most 2 arguments (3 given)")
	assert.Contains(t, err.Error(), "function 'greet': ")
}

func TestBind_UnexpectedKeyword(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	_, err := s.Bind([]abi.Ref{rt.NewStr("a")}, map[string]abi.Ref{"bogus": rt.NewInt(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument 'bogus'")
}

func TestBind_DuplicateKeyword(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	_, err := s.Bind([]abi.Ref{rt.NewStr("a")}, map[string]abi.Ref{"name": rt.NewStr("b")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate argument 'name'")
}

func TestBind_MissingRequired(t *testing.T) {
	rt := rtscript.New()
	s := schemaFor(t, rt, "function")

	_, err := s.Bind(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing argument 'name'")
}

func TestBind_ZeroParamShortCircuit(t *testing.T) {
	rt := rtscript.New()
	s, err := params.NewSchema("noop", "function")
	require.NoError(t, err)

	_, err = s.Bind([]abi.Ref{rt.NewInt(1)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function takes no arguments (1 given)")
}

func TestNewSchema_RejectsDuplicateNames(t *testing.T) {
	_, err := params.NewSchema("f", "function", params.Param{Name: "x"}, params.Param{Name: "x"})
	require.Error(t, err)
}

func TestBindAndExtract_MethodPrefixesArgumentFailure(t *testing.T) {
	rt := rtscript.New()
	s, err := params.NewSchema("area", "method", params.Param{Name: "radius"})
	require.NoError(t, err)

	extractors := []func(abi.Runtime, abi.Ref) (any, error){
		func(rt abi.Runtime, r abi.Ref) (any, error) {
			v, err := convert.ExtractFloat(rt, r)
			return v, err
		},
	}

	_, err = params.BindAndExtract(s, rt, []abi.Ref{rt.NewStr("nope")}, nil, extractors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method 'area': argument 'radius': ")
	assert.Contains(t, err.Error(), "expected 'float', got 'str'")
}

func TestBindAndExtract_ExtractedSlotsMatchWant(t *testing.T) {
	rt := rtscript.New()
	s, err := params.NewSchema("scale", "function",
		params.Param{Name: "radius"}, params.Param{Name: "factor"})
	require.NoError(t, err)

	extractors := []func(abi.Runtime, abi.Ref) (any, error){
		func(rt abi.Runtime, r abi.Ref) (any, error) { return convert.ExtractFloat(rt, r) },
		func(rt abi.Runtime, r abi.Ref) (any, error) { return convert.ExtractFloat(rt, r) },
	}

	got, err := params.BindAndExtract(s, rt, []abi.Ref{rt.NewFloat(2.5), rt.NewFloat(3)}, nil, extractors)
	require.NoError(t, err)

	want := []any{2.5, 3.0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("extracted slots mismatch (-want +got):\n%s", diff)
	}
}
