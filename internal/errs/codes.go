// Package errs implements the binding core's error handling: the error
// scope that captures/restores/normalizes the runtime's error slot, the translator
// that bridges host exceptions across a trampoline boundary, and a
// structured error report for host-side logging.
//
// Grounded on the teacher's internal/errors package: named, doc-commented
// code constants grouped by phase (PAR001, MOD001, …), generalized here
// from compiler phases to binding phases.
package errs

// Code identifies a specific binding-layer error condition.
type Code = string

const (
	// ============================================================
	// TypeError family (BND1xx) — argument/type mismatches, forbidden
	// operator use.
	// ============================================================

	// BND101 indicates a positional argument count exceeds the
	// parameter schema's maximum.
	BND101 Code = "BND101"

	// BND102 indicates a keyword argument names no declared parameter.
	BND102 Code = "BND102"

	// BND103 indicates a keyword argument duplicates an already-filled
	// slot (positional or keyword).
	BND103 Code = "BND103"

	// BND104 indicates a required parameter slot was left unfilled.
	BND104 Code = "BND104"

	// BND105 indicates a converter's extract<V> rejected the runtime
	// object bound to a parameter slot.
	BND105 Code = "BND105"

	// BND106 indicates an operator was applied to operand kinds that
	// do not support it.
	BND106 Code = "BND106"

	// ============================================================
	// ValueError family (BND2xx)
	// ============================================================

	// BND201 indicates a value was well-typed but out of the
	// operation's domain (e.g. division by zero).
	BND201 Code = "BND201"

	// ============================================================
	// AssertionError (BND3xx) — host logic-error translation.
	// ============================================================

	// BND301 indicates a host logic-error class (programmer
	// precondition violation) crossed a trampoline boundary.
	BND301 Code = "BND301"

	// ============================================================
	// SystemError (BND4xx) — unrecognized host exception translation.
	// ============================================================

	// BND401 indicates an unrecognized host exception type crossed a
	// trampoline boundary and was translated with its what() message.
	BND401 Code = "BND401"

	// BND402 indicates a host panic of unknown shape crossed a
	// trampoline boundary with no usable message.
	BND402 Code = "BND402"

	// ============================================================
	// RuntimeError (BND5xx) — internal invariant breach.
	// ============================================================

	// BND501 indicates the post-translation invariant ("error set xor
	// value returned") was violated.
	BND501 Code = "BND501"

	// ============================================================
	// Forwarded-verbatim kinds (BND6xx): IndexError, KeyError,
	// AttributeError, ModuleNotFoundError pass the runtime's own
	// message through unchanged; these codes tag them for reporting.
	// ============================================================

	BND601 Code = "BND601" // IndexError
	BND602 Code = "BND602" // KeyError
	BND603 Code = "BND603" // AttributeError
	BND604 Code = "BND604" // ModuleNotFoundError
)
