// Package call implements the binding core's call dispatcher.
//
// Object exposes four call shapes (no args / posargs / posargs+kwargs /
// variadic host). The variadic entry recognizes a host "kwarg" record
// type among its arguments, partitions the pack into a positional span
// and a keyword span (keywords merged into one map, which carries no
// ordering), then delegates to the matching shape. The dispatcher is pure forwarding — it
// never introspects the callee.
package call

import "github.com/sunholo/embind/internal/abi"

// Kwargs marks a host variadic-argument-pack element as the keyword span;
// Dispatch recognizes it among an otherwise-positional pack by scanning
// the argument pack for this record type.
type Kwargs map[string]abi.Ref

// Arg is one element of a variadic call's argument pack: either a single
// positional value or an aggregated keyword span.
type Arg struct {
	pos abi.Ref
	kw  Kwargs
}

// Pos wraps a positional argument.
func Pos(r abi.Ref) Arg { return Arg{pos: r} }

// Kw wraps a keyword span.
func Kw(kw Kwargs) Arg { return Arg{kw: kw} }

// NoArgs invokes callable with no arguments.
func NoArgs(rt abi.Runtime, callable abi.Ref) (abi.Ref, error) {
	return rt.Call(callable, nil, nil)
}

// Positional invokes callable with a positional span only.
func Positional(rt abi.Runtime, callable abi.Ref, args []abi.Ref) (abi.Ref, error) {
	return rt.Call(callable, args, nil)
}

// PositionalKeyword invokes callable with both a positional span and a
// keyword span.
func PositionalKeyword(rt abi.Runtime, callable abi.Ref, args []abi.Ref, kwargs map[string]abi.Ref) (abi.Ref, error) {
	return rt.Call(callable, args, kwargs)
}

// Dispatch partitions a variadic host argument pack into positional and
// keyword spans and invokes the matching shape above. All Kw elements are
// merged into a single map; later Kw elements overwrite earlier ones for
// a repeated name. The merged map does not record the order in which
// keywords first appeared.
func Dispatch(rt abi.Runtime, callable abi.Ref, args []Arg) (abi.Ref, error) {
	var pos []abi.Ref
	var kwargs map[string]abi.Ref
	for _, a := range args {
		if a.kw != nil {
			if kwargs == nil {
				kwargs = make(map[string]abi.Ref, len(a.kw))
			}
			for k, v := range a.kw {
				kwargs[k] = v
			}
			continue
		}
		pos = append(pos, a.pos)
	}
	switch {
	case len(kwargs) > 0:
		return PositionalKeyword(rt, callable, pos, kwargs)
	case len(pos) > 0:
		return Positional(rt, callable, pos)
	default:
		return NoArgs(rt, callable)
	}
}
