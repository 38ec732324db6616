package errs

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// LogicError is the host-side marker for precondition violations. The
// translator turns it into a runtime AssertionError, distinct from any
// other host exception type (which becomes a SystemError carrying its
// message verbatim).
type LogicError struct{ msg string }

func (e *LogicError) Error() string { return e.msg }

// NewLogicError builds a LogicError with a formatted message.
func NewLogicError(format string, args ...any) *LogicError {
	return &LogicError{msg: fmt.Sprintf(format, args...)}
}

// Translate wraps a host callable for a trampoline boundary. It runs
// call, recovering any panic, and classifies the outcome:
//
//   - *ErrorException  → restore its triplet onto rt's error slot.
//   - *LogicError       → set rt's AssertionError with its message.
//   - any other error/panic → set rt's SystemError with its message, or
//     "unknown error." if the panic value carries no message at all.
//
// On failure it returns (sentinel, false); on success (result, true).
// The post-translation invariant is "error set xor sentinel returned, or
// no error set and a real value returned" — Translate panics if that
// invariant is somehow violated, since it would indicate a defect in
// this function itself rather than in caller code.
func Translate(rt abi.Runtime, sentinel abi.Ref, call func() (abi.Ref, error)) (result abi.Ref, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			classify(rt, r)
			result, ok = sentinel, false
		}
		if ok == (rt.ErrOccurred()) {
			panic("errs.Translate: post-translation invariant violated")
		}
	}()

	v, err := call()
	if err != nil {
		classify(rt, err)
		return sentinel, false
	}
	return v, true
}

func classify(rt abi.Runtime, r any) {
	switch e := r.(type) {
	case *ErrorException:
		rt.ErrRestore(e.Triplet())
	case *LogicError:
		rt.ErrSet(abi.ErrAssertion, e.Error())
	case error:
		rt.ErrSet(abi.ErrSystem, e.Error())
	case string:
		rt.ErrSet(abi.ErrSystem, e)
	default:
		rt.ErrSet(abi.ErrSystem, "unknown error.")
	}
}
