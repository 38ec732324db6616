package errs

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// ErrorException is the host exception class that inherits both from the
// host's generic exception base and from ErrorScope — it carries the
// captured error triplet alongside the thrown Go error value. Its
// message is computed lazily, once, and cached.
type ErrorException struct {
	triplet abi.ErrTriplet
	msg     string
	msgSet  bool
}

// NewErrorException wraps an already-captured triplet as a Go error.
func NewErrorException(t abi.ErrTriplet) *ErrorException {
	return &ErrorException{triplet: t}
}

// Triplet returns the carried error triplet.
func (e *ErrorException) Triplet() abi.ErrTriplet { return e.triplet }

// Error implements the error interface, computing and caching the
// standard exception-message accessor's value on first use.
func (e *ErrorException) Error() string {
	if !e.msgSet {
		e.msg = fmt.Sprintf("%s: %s", e.triplet.Kind, e.triplet.Message)
		e.msgSet = true
	}
	return e.msg
}

// raise sets the runtime's error slot for kind/message and returns an
// ErrorException carrying the same triplet, the shared tail of every
// raise_* helper below.
func raise(rt abi.Runtime, kind abi.ErrKind, format string, args ...any) *ErrorException {
	msg := fmt.Sprintf(format, args...)
	rt.ErrSet(kind, msg)
	t, _ := rt.ErrFetch()
	normalized := rt.ErrNormalize(t)
	rt.ErrRestore(normalized) // leave the slot set for any caller checking ErrOccurred()
	return NewErrorException(normalized)
}

// RaiseTypeError sets a TypeError on rt and returns it as a Go error.
func RaiseTypeError(rt abi.Runtime, format string, args ...any) error {
	return raise(rt, abi.ErrType, format, args...)
}

// RaiseValueError sets a ValueError on rt and returns it as a Go error.
func RaiseValueError(rt abi.Runtime, format string, args ...any) error {
	return raise(rt, abi.ErrValue, format, args...)
}

// RaiseAssertionError sets an AssertionError on rt and returns it as a Go error.
func RaiseAssertionError(rt abi.Runtime, format string, args ...any) error {
	return raise(rt, abi.ErrAssertion, format, args...)
}

// RaiseSystemError sets a SystemError on rt and returns it as a Go error.
func RaiseSystemError(rt abi.Runtime, format string, args ...any) error {
	return raise(rt, abi.ErrSystem, format, args...)
}

// RaiseRuntimeError sets a RuntimeError on rt and returns it as a Go error.
func RaiseRuntimeError(rt abi.Runtime, format string, args ...any) error {
	return raise(rt, abi.ErrRuntime, format, args...)
}
