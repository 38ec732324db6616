// Package params implements the binding core's compile-time parameter
// schema and the runtime argument binder built from it.
//
// Grounded on the teacher's internal/runtime/argdecode package: a
// declarative per-slot description (there, an expected types.Type; here,
// a Param) paired with a binder that walks the incoming values and
// produces a typed *DecodeError-style failure on mismatch. argdecode
// decodes one JSON value against one type; Bind generalizes that to an
// entire ordered parameter list against a positional/keyword call.
package params

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// Default is a nullary factory computed fresh on every call a slot goes
// unfilled (a direct default value is just a factory that returns it,
// via Value below).
type Default func() (abi.Ref, error)

// Value wraps a fixed default value as a Default factory.
func Value(v abi.Ref) Default {
	return func() (abi.Ref, error) { return v, nil }
}

// Param is one compile-time slot of a function or method's parameter
// list: a name (uniqueness checked by Schema) and an optional default.
// The host type itself is carried by Extract, supplied by the caller of
// Bind rather than stored here, since Go has no single "host type" value
// to name the way a C++ template parameter would.
type Param struct {
	Name    string
	Default Default // nil means required
}

// Schema is an ordered, name-unique parameter list for one callable.
type Schema struct {
	FuncName string // used only for error message prefixing
	Kind     string // "function", "method", or "__init__" — selects the prefix wording
	Params   []Param
}

// Prefix renders the wording for this schema's kind ("function 'name': ",
// "method 'name': ", or "__init__: "), exported so the trampoline
// factory can apply the same wording to errors raised outside the binder
// itself (e.g. a Go-level argument coercion failure).
func (s Schema) Prefix() string {
	switch s.Kind {
	case "method":
		return fmt.Sprintf("method '%s': ", s.FuncName)
	case "__init__":
		return "__init__: "
	default:
		return fmt.Sprintf("function '%s': ", s.FuncName)
	}
}

// NewSchema validates that every parameter name is unique within a
// single function.
func NewSchema(funcName, kind string, ps ...Param) (Schema, error) {
	seen := make(map[string]bool, len(ps))
	for _, p := range ps {
		if seen[p.Name] {
			return Schema{}, fmt.Errorf("param schema for '%s': duplicate parameter name '%s'", funcName, p.Name)
		}
		seen[p.Name] = true
	}
	return Schema{FuncName: funcName, Kind: kind, Params: ps}, nil
}

// Bind takes a positional tuple and a keyword mapping (a Go map, so the
// keywords are visited in no defined order) and produces the ordered slot
// tuple of raw runtime refs, with defaults resolved and extraction left
// to the caller (a trampoline knows each slot's host type; this package
// does not).
//
// Bind returns one abi.Ref per parameter, in schema order. A slot filled
// from a default has its factory invoked fresh; a slot filled from a
// positional or keyword argument holds that argument's ref verbatim.
func (s Schema) Bind(pos []abi.Ref, kwargs map[string]abi.Ref) ([]abi.Ref, error) {
	n := len(s.Params)
	total := len(pos) + len(kwargs)

	if n == 0 {
		if total > 0 {
			return nil, s.wrap(fmt.Errorf("function takes no arguments (%d given)", total))
		}
		return nil, nil
	}

	if len(pos) > n {
		return nil, s.wrap(fmt.Errorf("function takes at most %d arguments (%d given)", n, total))
	}

	slots := make([]abi.Ref, n)
	filled := make([]bool, n)
	index := make(map[string]int, n)
	for i, p := range s.Params {
		index[p.Name] = i
	}

	for i, v := range pos {
		slots[i] = v
		filled[i] = true
	}

	for name, v := range kwargs {
		i, ok := index[name]
		if !ok {
			return nil, s.wrap(fmt.Errorf("unexpected argument '%s'", name))
		}
		if filled[i] {
			return nil, s.wrap(fmt.Errorf("duplicate argument '%s'", name))
		}
		slots[i] = v
		filled[i] = true
	}

	for i, p := range s.Params {
		if filled[i] {
			continue
		}
		if p.Default == nil {
			return nil, s.wrap(fmt.Errorf("missing argument '%s'", p.Name))
		}
		v, err := p.Default()
		if err != nil {
			return nil, s.wrap(err)
		}
		slots[i] = v
	}

	return slots, nil
}

func (s Schema) wrap(err error) error {
	return fmt.Errorf("%s%s", s.Prefix(), err)
}

// Extract runs the per-slot extraction step, prefixing any failure with
// "argument '<name>': ", then with the function/method/__init__ prefix.
func Extract[V any](s Schema, slot int, rt abi.Runtime, ref abi.Ref, extract func(abi.Runtime, abi.Ref) (V, error)) (V, error) {
	v, err := extract(rt, ref)
	if err != nil {
		var zero V
		return zero, s.wrap(fmt.Errorf("argument '%s': %w", s.Params[slot].Name, err))
	}
	return v, nil
}

// BindAndExtract combines Bind with a per-slot extractor list, returning
// the fully-extracted host argument tuple as []any in schema order. Each
// extractor corresponds by index to s.Params.
func BindAndExtract(s Schema, rt abi.Runtime, pos []abi.Ref, kwargs map[string]abi.Ref, extractors []func(abi.Runtime, abi.Ref) (any, error)) ([]any, error) {
	slots, err := s.Bind(pos, kwargs)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(slots))
	for i, ref := range slots {
		v, err := Extract(s, i, rt, ref, extractors[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
