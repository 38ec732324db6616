package errs

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// ErrorScope captures the runtime's error slot, normalizes it, and can
// later restore it.
//
// Invariants:
//   - Construct-from-current: precondition the runtime error slot is set;
//     postcondition the slot is cleared and the scope holds the triplet,
//     normalized.
//   - Destruct (Close): releases the held triplet's traceback reference;
//     does NOT re-raise.
//   - Restore: precondition holding; postcondition the runtime slot holds
//     the triplet and the scope is empty.
type ErrorScope struct {
	rt      abi.Runtime
	held    abi.ErrTriplet
	holding bool
}

// Capture constructs an ErrorScope from the runtime's currently-set error.
// Panics if no error is set: capture-without-an-error-pending is always
// a caller defect, not a recoverable error.
func Capture(rt abi.Runtime) *ErrorScope {
	if !rt.ErrOccurred() {
		panic("errs.Capture: no error set on runtime")
	}
	t, _ := rt.ErrFetch()
	normalized := rt.ErrNormalize(t)
	return &ErrorScope{rt: rt, held: normalized, holding: true}
}

// Holding reports whether the scope currently holds an error.
func (s *ErrorScope) Holding() bool { return s.holding }

// Triplet returns the held (type, value, traceback), valid only while
// Holding().
func (s *ErrorScope) Triplet() abi.ErrTriplet { return s.held }

// Restore pushes the held triplet back onto the runtime's error slot and
// empties the scope. Precondition: s.Holding().
func (s *ErrorScope) Restore() {
	if !s.holding {
		panic("errs.ErrorScope.Restore: scope is empty")
	}
	s.rt.ErrRestore(s.held)
	s.holding = false
	s.held = abi.ErrTriplet{}
}

// ClearTraceback drops the held triplet's traceback reference, leaving
// type/value untouched. Best-effort: a no-op if the scope holds nothing or
// the traceback reference is already empty (see DESIGN.md Open Question
// 3 — clear-on-set is treated as best-effort, not an invariant).
func (s *ErrorScope) ClearTraceback() {
	if !s.holding || s.held.Traceback.IsZero() {
		return
	}
	s.held.Traceback = abi.Ref{}
}

// PrefixMessage constructs a new triplet of the held type whose message is
// "<prefix>: <old message>", copying cause/context/traceback from the old
// value.
func (s *ErrorScope) PrefixMessage(prefix string) {
	if !s.holding {
		panic("errs.ErrorScope.PrefixMessage: scope is empty")
	}
	s.held.Message = fmt.Sprintf("%s: %s", prefix, s.held.Message)
}

// Close releases the held traceback reference without re-raising. Safe to
// call whether or not the scope is holding.
func (s *ErrorScope) Close() {
	if s.holding {
		s.held = abi.ErrTriplet{}
		s.holding = false
	}
}
