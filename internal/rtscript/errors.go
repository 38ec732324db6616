package rtscript

import (
	"fmt"
	"strings"

	"github.com/sunholo/embind/internal/abi"
)

// kindPrefixes maps the conventional "Kind: message" prefix rtscript error
// strings use onto an abi.ErrKind, so that every failing Runtime method can
// both return a Go error (for direct callers) and populate the error slot
// (for the capture/restore contract an error scope relies on) from one
// message.
var kindPrefixes = map[string]abi.ErrKind{
	"TypeError":           abi.ErrType,
	"ValueError":          abi.ErrValue,
	"AssertionError":      abi.ErrAssertion,
	"SystemError":         abi.ErrSystem,
	"RuntimeError":        abi.ErrRuntime,
	"IndexError":          abi.ErrIndex,
	"KeyError":            abi.ErrKey,
	"AttributeError":      abi.ErrAttribute,
	"ModuleNotFoundError": abi.ErrModuleNotFound,
	// Not part of the runtime's core error-kind enum but raised by the
	// arithmetic evaluator; treated as a ValueError kind for
	// slot/translation purposes (well-typed operands, out-of-domain
	// operation).
	"ZeroDivisionError": abi.ErrValue,
	"SyntaxError":       abi.ErrValue,
	"NameError":         abi.ErrRuntime,
}

func splitKindPrefix(msg string) (abi.ErrKind, string) {
	if i := strings.Index(msg, ": "); i > 0 {
		if kind, ok := kindPrefixes[msg[:i]]; ok {
			return kind, msg[i+2:]
		}
	}
	return abi.ErrRuntime, msg
}

// fail formats msg, sets the runtime error slot from its "Kind: " prefix,
// and returns the same text as a Go error so direct Go callers see an
// ordinary error value. This is the single place rtscript fails an ABI
// call: every failure sentinel it returns is paired with a runtime error
// already set.
func (rt *Runtime) fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	kind, rest := splitKindPrefix(msg)
	rt.ErrSet(kind, rest)
	return fmt.Errorf("%s", msg)
}
