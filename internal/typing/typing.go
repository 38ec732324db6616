// Package typing implements the binding core's Union/Optional variant
// façades, structural protocol names, and the shared type-name
// reflection surface they expose to callers.
//
// Grounded on internal/object.Object's existing IsInstance/TypeName
// pair — a Variant is simply the disjunction of several such predicates
// with its own synthesized display name, rather than a new kind of
// runtime object.
package typing

import (
	"fmt"
	"strings"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/object"
)

// Named is satisfied by anything with a display type name — Member,
// Variant, and Protocol all implement it, giving callers one reflection
// surface regardless of which typing helper produced the value.
type Named interface {
	TypeName() string
}

// Member is one alternative of a Variant: a name and a predicate over
// an Object. A Member is itself a single-element Part, so Union can
// take members and nested Variants interchangeably.
type Member struct {
	name string
	is   func(object.Object) bool
}

// NewMember builds a Member named name, matched by is.
func NewMember(name string, is func(object.Object) bool) Member {
	return Member{name: name, is: is}
}

// TypeMember builds a Member that matches any instance of t — the
// common case of wrapping a concrete runtime type as a union
// alternative.
func TypeMember(t object.Object) Member {
	return Member{name: t.TypeName(), is: func(o object.Object) bool { return o.IsInstance(t) }}
}

// NoneMember builds the Member Optional uses to add "or None" to a
// union — it needs rt directly since object.Object exposes no IsNone
// of its own.
func NoneMember(rt abi.Runtime) Member {
	return Member{name: "None", is: func(o object.Object) bool { return rt.IsNone(o.Ref()) }}
}

func (m Member) TypeName() string { return m.name }
func (m Member) parts() []Member  { return []Member{m} }

// Part is anything Union can flatten into a Variant: a single Member,
// or an existing Variant (whose own members are spliced in — nested
// unions flatten at construction time rather than nesting).
type Part interface {
	parts() []Member
}

// Variant is a tagged façade for a union of alternatives: its
// IsInstance is the disjunction of the members' predicates and its
// TypeName renders as "A | B | …".
type Variant struct {
	members []Member
}

func (v Variant) parts() []Member { return v.members }

// IsInstance reports whether o matches any member of v.
func (v Variant) IsInstance(o object.Object) bool {
	for _, m := range v.members {
		if m.is(o) {
			return true
		}
	}
	return false
}

// TypeName renders the variant as its members joined by " | ".
func (v Variant) TypeName() string {
	names := make([]string, len(v.members))
	for i, m := range v.members {
		names[i] = m.name
	}
	return strings.Join(names, " | ")
}

// Union flattens parts (Members and/or nested Variants) into a single
// Variant, rejecting duplicate member names.
func Union(parts ...Part) (Variant, error) {
	var flat []Member
	for _, p := range parts {
		flat = append(flat, p.parts()...)
	}
	seen := make(map[string]bool, len(flat))
	for _, m := range flat {
		if seen[m.name] {
			return Variant{}, fmt.Errorf("typing: duplicate union member %q", m.name)
		}
		seen[m.name] = true
	}
	return Variant{members: flat}, nil
}

// Optional is Union(part, None) — the common "T or None" shorthand.
func Optional(rt abi.Runtime, part Part) (Variant, error) {
	return Union(part, NoneMember(rt))
}

// Protocol names a structural (duck-typed) interface: an object
// satisfies it if it carries every attribute in Methods, independent
// of its actual runtime type.
type Protocol struct {
	Name    string
	Methods []string
}

// NewProtocol builds a Protocol named name requiring the given
// attribute names.
func NewProtocol(name string, methods ...string) Protocol {
	return Protocol{Name: name, Methods: methods}
}

// Satisfies reports whether o carries every attribute the protocol
// requires.
func (p Protocol) Satisfies(o object.Object) bool {
	for _, m := range p.Methods {
		if !o.HasAttr(m) {
			return false
		}
	}
	return true
}

func (p Protocol) TypeName() string { return p.Name }

// TypeNameOf is the shared type-name reflection entry point: it
// renders whatever Named value describes a parameter or return type,
// whether that is a concrete Object's own type, a Variant, or a
// Protocol.
func TypeNameOf(n Named) string { return n.TypeName() }
