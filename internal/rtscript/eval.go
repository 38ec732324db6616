package rtscript

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// Eval compiles and evaluates expr in expression mode against globals.
// Dedenting is the interpreter controller's responsibility, not the
// runtime's — see internal/interp.
func (rt *Runtime) Eval(globals abi.Ref, expr string) (abi.Ref, error) {
	env := toObj(globals)
	e, err := ParseExpr(expr)
	if err != nil {
		return abi.Ref{}, rt.fail("SyntaxError: %v", err)
	}
	v, err := rt.evalExpr(env, e)
	if err != nil {
		return abi.Ref{}, err
	}
	return ref(v), nil
}

// Exec compiles and executes stmts in statement mode against globals.
func (rt *Runtime) Exec(globals abi.Ref, stmts string) error {
	env := toObj(globals)
	prog, err := ParseProgram(stmts)
	if err != nil {
		return rt.fail("SyntaxError: %v", err)
	}
	return rt.execStmts(env, prog)
}

// RegisterModule installs a native-backed module so that a later
// Import(name) can find it. Registered modules are the only ones Import
// resolves; the interpreter's search path (interp.AppendPath) is not
// consulted.
func (rt *Runtime) RegisterModule(name string, m abi.Ref) {
	rt.modules[name] = toObj(m)
}

// Import looks up a previously registered module by name.
func (rt *Runtime) Import(name string) (abi.Ref, error) {
	if m, ok := rt.modules[name]; ok {
		return ref(m), nil
	}
	return abi.Ref{}, rt.fail("ModuleNotFoundError: No module named '%s'", name)
}

func getName(env *Object, name string) (*Object, error) {
	if env.attrs != nil {
		if v, ok := env.attrs[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("NameError: name '%s' is not defined", name)
}

func setName(env *Object, name string, val *Object) {
	if env.attrs == nil {
		env.attrs = make(map[string]*Object)
	}
	env.attrs[name] = val
}

func (rt *Runtime) evalExpr(env *Object, e Expr) (*Object, error) {
	switch n := e.(type) {
	case *IntLit:
		return toObj(rt.NewInt(n.Value)), nil
	case *FloatLit:
		return toObj(rt.NewFloat(n.Value)), nil
	case *StrLit:
		return rt.strObj(n.Value), nil
	case *BoolLit:
		return toObj(rt.NewBool(n.Value)), nil
	case *NoneLit:
		return toObj(rt.NewNone()), nil
	case *NameExpr:
		return getName(env, n.Name)
	case *ListLit:
		items, err := rt.evalExprList(env, n.Elems)
		if err != nil {
			return nil, err
		}
		o := newObject(KindList)
		o.items = items
		return o, nil
	case *TupleLit:
		items, err := rt.evalExprList(env, n.Elems)
		if err != nil {
			return nil, err
		}
		o := newObject(KindTuple)
		o.items = items
		return o, nil
	case *DictLit:
		d := toObj(rt.NewDict())
		for i := range n.Keys {
			k, err := rt.evalExpr(env, n.Keys[i])
			if err != nil {
				return nil, err
			}
			v, err := rt.evalExpr(env, n.Values[i])
			if err != nil {
				return nil, err
			}
			if err := rt.SetItem(ref(d), ref(k), ref(v)); err != nil {
				return nil, err
			}
		}
		return d, nil
	case *AttrExpr:
		obj, err := rt.evalExpr(env, n.Obj)
		if err != nil {
			return nil, err
		}
		v, err := rt.GetAttr(ref(obj), n.Name)
		if err != nil {
			return nil, err
		}
		return toObj(v), nil
	case *IndexExpr:
		obj, err := rt.evalExpr(env, n.Obj)
		if err != nil {
			return nil, err
		}
		key, err := rt.evalExpr(env, n.Key)
		if err != nil {
			return nil, err
		}
		v, err := rt.GetItem(ref(obj), ref(key))
		if err != nil {
			return nil, err
		}
		return toObj(v), nil
	case *SliceExpr:
		obj, err := rt.evalExpr(env, n.Obj)
		if err != nil {
			return nil, err
		}
		n2 := rt.seqLen(obj)
		lo, hi := 0, n2
		if n.Lo != nil {
			v, err := rt.evalExpr(env, n.Lo)
			if err != nil {
				return nil, err
			}
			lo = int(v.i)
		}
		if n.Hi != nil {
			v, err := rt.evalExpr(env, n.Hi)
			if err != nil {
				return nil, err
			}
			hi = int(v.i)
		}
		v, err := rt.GetSlice(ref(obj), lo, hi)
		if err != nil {
			return nil, err
		}
		return toObj(v), nil
	case *CallExpr:
		return rt.evalCall(env, n)
	case *BinaryExpr:
		return rt.evalBinary(env, n)
	case *UnaryExpr:
		return rt.evalUnary(env, n)
	default:
		return nil, fmt.Errorf("RuntimeError: unhandled expression node %T", e)
	}
}

func (rt *Runtime) evalExprList(env *Object, exprs []Expr) ([]*Object, error) {
	out := make([]*Object, 0, len(exprs))
	for _, e := range exprs {
		v, err := rt.evalExpr(env, e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (rt *Runtime) evalCall(env *Object, n *CallExpr) (*Object, error) {
	fn, err := rt.evalExpr(env, n.Fn)
	if err != nil {
		return nil, err
	}
	args, err := rt.evalExprList(env, n.Args)
	if err != nil {
		return nil, err
	}
	kwargs := map[string]abi.Ref{}
	for k, e := range n.Kwargs {
		v, err := rt.evalExpr(env, e)
		if err != nil {
			return nil, err
		}
		kwargs[k] = ref(v)
	}
	argRefs := make([]abi.Ref, len(args))
	for i, a := range args {
		argRefs[i] = ref(a)
	}
	res, err := rt.Call(ref(fn), argRefs, kwargs)
	if err != nil {
		return nil, err
	}
	return toObj(res), nil
}

var binOpTable = map[string]abi.BinOp{
	"+": abi.OpAdd, "-": abi.OpSub, "*": abi.OpMul, "/": abi.OpDiv,
	"%": abi.OpMod, "**": abi.OpPow, "//": abi.OpFloorDiv, "@": abi.OpMatMul,
	"&": abi.OpAnd, "|": abi.OpOr, "^": abi.OpXor, "<<": abi.OpLShift, ">>": abi.OpRShift,
}

var cmpOpTable = map[string]abi.CompareOp{
	"==": abi.CmpEq, "!=": abi.CmpNe, "<": abi.CmpLt, "<=": abi.CmpLe, ">": abi.CmpGt, ">=": abi.CmpGe,
}

func (rt *Runtime) evalBinary(env *Object, n *BinaryExpr) (*Object, error) {
	if n.Op == "and" {
		left, err := rt.evalExpr(env, n.Left)
		if err != nil {
			return nil, err
		}
		if !rt.IsTruthy(ref(left)) {
			return left, nil
		}
		return rt.evalExpr(env, n.Right)
	}
	if n.Op == "or" {
		left, err := rt.evalExpr(env, n.Left)
		if err != nil {
			return nil, err
		}
		if rt.IsTruthy(ref(left)) {
			return left, nil
		}
		return rt.evalExpr(env, n.Right)
	}
	left, err := rt.evalExpr(env, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := rt.evalExpr(env, n.Right)
	if err != nil {
		return nil, err
	}
	if op, ok := cmpOpTable[n.Op]; ok {
		v, err := rt.Compare(ref(left), ref(right), op)
		if err != nil {
			return nil, err
		}
		return toObj(v), nil
	}
	if op, ok := binOpTable[n.Op]; ok {
		v, err := rt.BinaryOp(ref(left), ref(right), op)
		if err != nil {
			return nil, err
		}
		return toObj(v), nil
	}
	return nil, fmt.Errorf("RuntimeError: unknown binary operator %q", n.Op)
}

var unaryOpTable = map[string]abi.UnaryOp{"-": abi.OpNeg, "+": abi.OpPos, "~": abi.OpInvert, "not": abi.OpNot}

func (rt *Runtime) evalUnary(env *Object, n *UnaryExpr) (*Object, error) {
	operand, err := rt.evalExpr(env, n.Operand)
	if err != nil {
		return nil, err
	}
	op, ok := unaryOpTable[n.Op]
	if !ok {
		return nil, fmt.Errorf("RuntimeError: unknown unary operator %q", n.Op)
	}
	v, err := rt.UnaryOp(ref(operand), op)
	if err != nil {
		return nil, err
	}
	return toObj(v), nil
}

func (rt *Runtime) execStmts(env *Object, stmts []Stmt) error {
	for _, s := range stmts {
		if err := rt.execStmt(env, s); err != nil {
			return err
		}
	}
	return nil
}

func (rt *Runtime) execStmt(env *Object, s Stmt) error {
	switch n := s.(type) {
	case *ExprStmt:
		_, err := rt.evalExpr(env, n.X)
		return err
	case *AssignStmt:
		val, err := rt.evalExpr(env, n.Value)
		if err != nil {
			return err
		}
		return rt.assign(env, n.Target, val)
	case *ImportStmt:
		_, err := rt.Import(n.Name)
		if err != nil {
			return err
		}
		return nil
	case *IfStmt:
		cond, err := rt.evalExpr(env, n.Cond)
		if err != nil {
			return err
		}
		if rt.IsTruthy(ref(cond)) {
			return rt.execStmts(env, n.Then)
		}
		return rt.execStmts(env, n.Else)
	case *ForStmt:
		iterable, err := rt.evalExpr(env, n.Iter)
		if err != nil {
			return err
		}
		it, err := rt.Iter(ref(iterable))
		if err != nil {
			return err
		}
		for {
			v, ok, err := rt.IterNext(it)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			setName(env, n.Var, toObj(v))
			if err := rt.execStmts(env, n.Body); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("RuntimeError: unhandled statement node %T", s)
	}
}

func (rt *Runtime) assign(env *Object, target Expr, val *Object) error {
	switch t := target.(type) {
	case *NameExpr:
		setName(env, t.Name, val)
		return nil
	case *AttrExpr:
		obj, err := rt.evalExpr(env, t.Obj)
		if err != nil {
			return err
		}
		return rt.SetAttr(ref(obj), t.Name, ref(val))
	case *IndexExpr:
		obj, err := rt.evalExpr(env, t.Obj)
		if err != nil {
			return err
		}
		key, err := rt.evalExpr(env, t.Key)
		if err != nil {
			return err
		}
		return rt.SetItem(ref(obj), ref(key), ref(val))
	default:
		return fmt.Errorf("SyntaxError: cannot assign to %T", target)
	}
}
