package rtscript

import (
	"math"

	"github.com/sunholo/embind/internal/abi"
)

// Compare implements the comparison operators the generic Object façade
// forwards. Numeric kinds compare by value; strings lexicographically;
// everything else only supports Eq/Ne, true for the same object or for
// two hashable values of the same kind with equal canonical hash keys.
func (rt *Runtime) Compare(a, b abi.Ref, op abi.CompareOp) (abi.Ref, error) {
	ao, bo := toObj(a), toObj(b)

	if isNumeric(ao) && isNumeric(bo) {
		af, bf := numericValue(ao), numericValue(bo)
		return rt.boolFromCompare(af, bf, op), nil
	}
	if ao.kind == KindStr && bo.kind == KindStr {
		return rt.boolFromStrCompare(ao.s, bo.s, op), nil
	}
	switch op {
	case abi.CmpEq:
		return rt.NewBool(ao == bo || structEqual(ao, bo)), nil
	case abi.CmpNe:
		return rt.NewBool(!(ao == bo || structEqual(ao, bo))), nil
	default:
		return abi.Ref{}, rt.fail("TypeError: '%s' not supported between instances of '%s' and '%s'",
			compareOpSymbol(op), ao.kind, bo.kind)
	}
}

func (rt *Runtime) boolFromCompare(a, b float64, op abi.CompareOp) abi.Ref {
	var v bool
	switch op {
	case abi.CmpEq:
		v = a == b
	case abi.CmpNe:
		v = a != b
	case abi.CmpLt:
		v = a < b
	case abi.CmpLe:
		v = a <= b
	case abi.CmpGt:
		v = a > b
	case abi.CmpGe:
		v = a >= b
	}
	return rt.NewBool(v)
}

func (rt *Runtime) boolFromStrCompare(a, b string, op abi.CompareOp) abi.Ref {
	var v bool
	switch op {
	case abi.CmpEq:
		v = a == b
	case abi.CmpNe:
		v = a != b
	case abi.CmpLt:
		v = a < b
	case abi.CmpLe:
		v = a <= b
	case abi.CmpGt:
		v = a > b
	case abi.CmpGe:
		v = a >= b
	}
	return rt.NewBool(v)
}

func compareOpSymbol(op abi.CompareOp) string {
	switch op {
	case abi.CmpEq:
		return "=="
	case abi.CmpNe:
		return "!="
	case abi.CmpLt:
		return "<"
	case abi.CmpLe:
		return "<="
	case abi.CmpGt:
		return ">"
	case abi.CmpGe:
		return ">="
	default:
		return "?"
	}
}

func isNumeric(o *Object) bool {
	return o.kind == KindInt || o.kind == KindFloat || o.kind == KindBool
}

func numericValue(o *Object) float64 {
	switch o.kind {
	case KindInt:
		return float64(o.i)
	case KindBool:
		if o.b {
			return 1
		}
		return 0
	default:
		return o.f
	}
}

func structEqual(a, b *Object) bool {
	if a.kind != b.kind {
		return false
	}
	ak, errA := hashKey(a)
	bk, errB := hashKey(b)
	if errA == nil && errB == nil {
		return ak == bk
	}
	return a == b
}

func binOpSymbol(op abi.BinOp) string {
	switch op {
	case abi.OpAdd:
		return "+"
	case abi.OpSub:
		return "-"
	case abi.OpMul:
		return "*"
	case abi.OpDiv:
		return "/"
	case abi.OpMod:
		return "%"
	case abi.OpPow:
		return "**"
	case abi.OpFloorDiv:
		return "//"
	case abi.OpMatMul:
		return "@"
	case abi.OpAnd:
		return "&"
	case abi.OpOr:
		return "|"
	case abi.OpXor:
		return "^"
	case abi.OpLShift:
		return "<<"
	case abi.OpRShift:
		return ">>"
	default:
		return "?"
	}
}

// BinaryOp forwards arithmetic and bitwise operators verbatim; numeric
// coercion (int/float/bool promotion) is handled by numericBinOp, and
// sequence repetition (str/list/tuple times an int, in either operand
// order) is handled by repeatSeq below.
func (rt *Runtime) BinaryOp(a, b abi.Ref, op abi.BinOp) (abi.Ref, error) {
	ao, bo := toObj(a), toObj(b)

	if ao.kind == KindStr && op == abi.OpAdd && bo.kind == KindStr {
		return ref(rt.strObj(ao.s + bo.s)), nil
	}
	if op == abi.OpMul && isRepeatable(ao.kind) && bo.kind == KindInt {
		return rt.repeatSeq(ao, int(bo.i))
	}
	if op == abi.OpMul && ao.kind == KindInt && isRepeatable(bo.kind) {
		return rt.repeatSeq(bo, int(ao.i))
	}
	if (ao.kind == KindList || ao.kind == KindTuple) && op == abi.OpAdd && bo.kind == ao.kind {
		out := newObject(ao.kind)
		out.items = append(append([]*Object{}, ao.items...), bo.items...)
		return ref(out), nil
	}
	if ao.kind == KindSet && bo.kind == KindSet {
		if r, ok := rt.setAlgebra(ao, bo, op); ok {
			return r, nil
		}
	}

	if isNumeric(ao) && isNumeric(bo) {
		return rt.numericBinOp(ao, bo, op)
	}

	return abi.Ref{}, rt.fail("TypeError: unsupported operand type(s) for %s: '%s' and '%s'",
		binOpSymbol(op), ao.kind, bo.kind)
}

func isRepeatable(k Kind) bool {
	return k == KindStr || k == KindList || k == KindTuple
}

func (rt *Runtime) repeatSeq(o *Object, n int) (abi.Ref, error) {
	if n < 0 {
		n = 0
	}
	if o.kind == KindStr {
		out := ""
		for i := 0; i < n; i++ {
			out += o.s
		}
		return ref(rt.strObj(out)), nil
	}
	out := newObject(o.kind)
	for i := 0; i < n; i++ {
		out.items = append(out.items, o.items...)
	}
	return ref(out), nil
}

func (rt *Runtime) setAlgebra(a, b *Object, op abi.BinOp) (abi.Ref, bool) {
	result := newObject(KindSet)
	result.set = make(map[string]*Object)
	switch op {
	case abi.OpOr:
		for k, v := range a.set {
			result.set[k] = v
			result.setKeys = append(result.setKeys, k)
		}
		for k, v := range b.set {
			if _, ok := result.set[k]; !ok {
				result.set[k] = v
				result.setKeys = append(result.setKeys, k)
			}
		}
	case abi.OpAnd:
		for k, v := range a.set {
			if _, ok := b.set[k]; ok {
				result.set[k] = v
				result.setKeys = append(result.setKeys, k)
			}
		}
	case abi.OpSub:
		for k, v := range a.set {
			if _, ok := b.set[k]; !ok {
				result.set[k] = v
				result.setKeys = append(result.setKeys, k)
			}
		}
	case abi.OpXor:
		for k, v := range a.set {
			if _, ok := b.set[k]; !ok {
				result.set[k] = v
				result.setKeys = append(result.setKeys, k)
			}
		}
		for k, v := range b.set {
			if _, ok := a.set[k]; !ok {
				result.set[k] = v
				result.setKeys = append(result.setKeys, k)
			}
		}
	default:
		return abi.Ref{}, false
	}
	return ref(result), true
}

func (rt *Runtime) numericBinOp(a, b *Object, op abi.BinOp) (abi.Ref, error) {
	bothInt := a.kind != KindFloat && b.kind != KindFloat
	switch op {
	case abi.OpAnd, abi.OpOr, abi.OpXor, abi.OpLShift, abi.OpRShift:
		if !bothInt {
			return abi.Ref{}, rt.fail("TypeError: unsupported operand type(s) for %s: '%s' and '%s'", binOpSymbol(op), a.kind, b.kind)
		}
		ai, bi := intValue(a), intValue(b)
		switch op {
		case abi.OpAnd:
			return rt.NewInt(ai & bi), nil
		case abi.OpOr:
			return rt.NewInt(ai | bi), nil
		case abi.OpXor:
			return rt.NewInt(ai ^ bi), nil
		case abi.OpLShift:
			return rt.NewInt(ai << uint(bi)), nil
		case abi.OpRShift:
			return rt.NewInt(ai >> uint(bi)), nil
		}
	}

	af, bf := numericValue(a), numericValue(b)
	switch op {
	case abi.OpAdd:
		if bothInt {
			return rt.NewInt(intValue(a) + intValue(b)), nil
		}
		return rt.NewFloat(af + bf), nil
	case abi.OpSub:
		if bothInt {
			return rt.NewInt(intValue(a) - intValue(b)), nil
		}
		return rt.NewFloat(af - bf), nil
	case abi.OpMul:
		if bothInt {
			return rt.NewInt(intValue(a) * intValue(b)), nil
		}
		return rt.NewFloat(af * bf), nil
	case abi.OpDiv:
		if bf == 0 {
			return abi.Ref{}, rt.fail("ZeroDivisionError: division by zero")
		}
		return rt.NewFloat(af / bf), nil
	case abi.OpFloorDiv:
		if bf == 0 {
			return abi.Ref{}, rt.fail("ZeroDivisionError: division by zero")
		}
		if bothInt {
			return rt.NewInt(int64(math.Floor(af / bf))), nil
		}
		return rt.NewFloat(math.Floor(af / bf)), nil
	case abi.OpMod:
		if bf == 0 {
			return abi.Ref{}, rt.fail("ZeroDivisionError: division by zero")
		}
		if bothInt {
			return rt.NewInt(intValue(a) % intValue(b)), nil
		}
		return rt.NewFloat(math.Mod(af, bf)), nil
	case abi.OpPow:
		if bothInt && intValue(b) >= 0 {
			return rt.NewInt(int64(math.Pow(af, bf))), nil
		}
		return rt.NewFloat(math.Pow(af, bf)), nil
	default:
		return abi.Ref{}, rt.fail("TypeError: unsupported operand type(s) for %s: '%s' and '%s'", binOpSymbol(op), a.kind, b.kind)
	}
}

func intValue(o *Object) int64 {
	if o.kind == KindBool {
		if o.b {
			return 1
		}
		return 0
	}
	return o.i
}

// UnaryOp implements unary +/-, ~, abs(), and logical not.
func (rt *Runtime) UnaryOp(a abi.Ref, op abi.UnaryOp) (abi.Ref, error) {
	ao := toObj(a)
	switch op {
	case abi.OpNot:
		return rt.NewBool(!rt.IsTruthy(a)), nil
	case abi.OpNeg:
		if !isNumeric(ao) {
			return abi.Ref{}, rt.fail("TypeError: bad operand type for unary -: '%s'", ao.kind)
		}
		if ao.kind == KindFloat {
			return rt.NewFloat(-ao.f), nil
		}
		return rt.NewInt(-intValue(ao)), nil
	case abi.OpPos:
		if !isNumeric(ao) {
			return abi.Ref{}, rt.fail("TypeError: bad operand type for unary +: '%s'", ao.kind)
		}
		return a, nil
	case abi.OpAbs:
		if !isNumeric(ao) {
			return abi.Ref{}, rt.fail("TypeError: bad operand type for abs(): '%s'", ao.kind)
		}
		if ao.kind == KindFloat {
			return rt.NewFloat(math.Abs(ao.f)), nil
		}
		v := intValue(ao)
		if v < 0 {
			v = -v
		}
		return rt.NewInt(v), nil
	case abi.OpInvert:
		if ao.kind != KindInt {
			return abi.Ref{}, rt.fail("TypeError: bad operand type for unary ~: '%s'", ao.kind)
		}
		return rt.NewInt(^ao.i), nil
	default:
		return abi.Ref{}, rt.fail("TypeError: unsupported unary operator")
	}
}
