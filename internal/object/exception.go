package object

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
)

// BaseException wraps a runtime error value. Every abi.ErrKind is
// registered as a direct subtype of BaseException at runtime
// construction time (see rtscript.New), so IsInstance against the base
// façade is always true for any exception object.
type BaseException struct{ Object }

// NewException constructs a BaseException of the given kind with msg.
func NewException(rt abi.Runtime, kind abi.ErrKind, msg string) BaseException {
	return BaseException{Steal(rt, rt.NewException(kind, msg))}
}

var exceptionTypeNames = map[string]bool{
	"BaseException": true, "TypeError": true, "ValueError": true,
	"AssertionError": true, "SystemError": true, "RuntimeError": true,
	"IndexError": true, "KeyError": true, "AttributeError": true,
	"ModuleNotFoundError": true,
}

func (e *BaseException) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	name := rt.TypeName(rt.TypeOf(obj))
	if !exceptionTypeNames[name] {
		return convert.NewExtractError(rt, "BaseException", obj)
	}
	e.Object = Borrow(rt, obj)
	return nil
}

// Str returns the exception's message (the standard exception-message
// accessor).
func (e BaseException) Str() (string, error) { return e.Object.Str() }

// Render produces "<fully-qualified type>: <str(value)>\n\n<traceback>",
// the traceback part omitted when absent.
func (e BaseException) Render(tb Traceback) (string, error) {
	msg, err := e.Str()
	if err != nil {
		return "", err
	}
	head := fmt.Sprintf("%s: %s", e.TypeName(), msg)
	if !tb.Valid() {
		return head, nil
	}
	tbStr, err := tb.Str()
	if err != nil {
		return head, nil
	}
	return head + "\n\n" + tbStr, nil
}

// Traceback wraps a runtime traceback value. Its zero value (an invalid
// Object) represents "no traceback", the common case for a freshly raised
// exception with no frames unwound yet.
type Traceback struct{ Object }

// TracebackFrom wraps ref as a Traceback façade if non-zero.
func TracebackFrom(rt abi.Runtime, r abi.Ref) Traceback {
	if r.IsZero() {
		return Traceback{}
	}
	return Traceback{Borrow(rt, r)}
}
