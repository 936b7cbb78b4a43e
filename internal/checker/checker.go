// Package checker performs the single static-validation walk over a
// surface expression tree: scope, arity, duplicate bindings, and
// literal range checks. It is a direct port of check_exp in the
// original implementation, with Rust's per-call HashSet/HashMap clones
// replaced by explicit Go map copies to keep sibling branches from
// observing each other's bindings.
package checker

import (
	"math"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/internal/token"
)

// MaxSnakeInt and MinSnakeInt bound the representable tagged-integer
// range: one bit is spent on the type tag.
const (
	MaxSnakeInt = math.MaxInt64 >> 1
	MinSnakeInt = math.MinInt64 >> 1
)

type valueEnv map[string]struct{}

func (e valueEnv) clone() valueEnv {
	out := make(valueEnv, len(e))
	for k := range e {
		out[k] = struct{}{}
	}
	return out
}

type funArity map[string]int

func (m funArity) clone() funArity {
	out := make(funArity, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Check validates prog and returns the first error encountered, or nil.
func Check(prog ast.Expr) diagnostics.CompileError {
	env := valueEnv{}
	funs := funArity{}
	return checkExp(prog, env, funs)
}

func checkExp(e ast.Expr, env valueEnv, funs funArity) diagnostics.CompileError {
	switch n := e.(type) {
	case *ast.NumExpr:
		if n.Value > MaxSnakeInt || n.Value < MinSnakeInt {
			return diagnostics.NewNumOverflow(n.Value, n.Span())
		}
		return nil

	case *ast.BoolExpr:
		return nil

	case *ast.FloatExpr:
		if n.Value > math.MaxFloat32 || n.Value < -math.MaxFloat32 {
			return diagnostics.NewFloatOverflow(n.Value, n.Span())
		}
		return nil

	case *ast.VarExpr:
		if _, ok := env[n.Name]; ok {
			return nil
		}
		if _, ok := funs[n.Name]; ok {
			return diagnostics.NewFunctionUsedAsValue(n.Name, n.Span())
		}
		return diagnostics.NewUnboundVariable(n.Name, n.Span())

	case *ast.PrimExpr:
		for _, arg := range n.Args {
			if err := checkExp(arg, env.clone(), funs.clone()); err != nil {
				return err
			}
		}
		return nil

	case *ast.LetExpr:
		seen := map[string]struct{}{}
		cur := env.clone()
		for _, b := range n.Bindings {
			if _, dup := seen[b.Name]; dup {
				return diagnostics.NewDuplicateBinding(b.Name, n.Span())
			}
			seen[b.Name] = struct{}{}
			if err := checkExp(b.Value, cur.clone(), funs.clone()); err != nil {
				return err
			}
			cur[b.Name] = struct{}{}
		}
		return checkExp(n.Body, cur, funs.clone())

	case *ast.IfExpr:
		if err := checkExp(n.Cond, env.clone(), funs.clone()); err != nil {
			return err
		}
		if err := checkExp(n.Then, env.clone(), funs.clone()); err != nil {
			return err
		}
		return checkExp(n.Else, env.clone(), funs.clone())

	case *ast.FunDefsExpr:
		seenFunNames := map[string]struct{}{}
		newFuns := funs.clone()
		for _, decl := range n.Decls {
			_, already := newFuns[decl.Name]
			_, dupInGroup := seenFunNames[decl.Name]
			if already || dupInGroup {
				return diagnostics.NewDuplicateFunName(decl.Name, n.Span())
			}
			seenFunNames[decl.Name] = struct{}{}
			newFuns[decl.Name] = len(decl.Parameters)
		}
		for _, decl := range n.Decls {
			declEnv := env.clone()
			seenParams := map[string]struct{}{}
			for _, p := range decl.Parameters {
				if _, dup := seenParams[p]; dup {
					return diagnostics.NewDuplicateArgName(p, n.Span())
				}
				seenParams[p] = struct{}{}
				declEnv[p] = struct{}{}
			}
			if err := checkExp(decl.Body, declEnv, newFuns.clone()); err != nil {
				return err
			}
		}
		return checkExp(n.Body, env.clone(), newFuns.clone())

	case *ast.CallExpr:
		return checkCall(n.FunName, n.Args, n.Span(), env, funs)
	case *ast.InternalTailCallExpr:
		return checkCall(n.FunName, n.Args, n.Span(), env, funs)
	case *ast.ExternalCallExpr:
		return checkCall(n.FunName, n.Args, n.Span(), env, funs)

	default:
		panic("checker: unhandled expression variant")
	}
}

func checkCall(funName string, args []ast.Expr, span token.Span, env valueEnv, funs funArity) diagnostics.CompileError {
	arity, ok := funs[funName]
	if !ok {
		if _, isVal := env[funName]; isVal {
			return diagnostics.NewValueUsedAsFunction(funName, span)
		}
		return diagnostics.NewUndefinedFunction(funName, span)
	}
	if len(args) != arity {
		return diagnostics.NewFunctionCalledWrongArity(funName, arity, len(args), span)
	}
	for _, arg := range args {
		if err := checkExp(arg, env.clone(), funs.clone()); err != nil {
			return err
		}
	}
	return nil
}
