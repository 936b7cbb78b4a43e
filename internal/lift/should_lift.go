// Package lift decides which nested function definitions must become
// top-level declarations (because they are ever called from a non-tail
// position) and performs the lambda-lifting rewrite itself.
package lift

import "github.com/snakelang/snakec/internal/ast"

// ShouldLift returns the set of function names that are called from a
// non-tail position anywhere in prog, and therefore must be lifted to
// the top level rather than kept as jmp-only local targets.
func ShouldLift(prog ast.Expr) map[string]struct{} {
	set := map[string]struct{}{}
	shouldLiftHelper(prog, set, true)
	return set
}

func shouldLiftHelper(e ast.Expr, set map[string]struct{}, isTail bool) {
	switch n := e.(type) {
	case *ast.NumExpr, *ast.BoolExpr, *ast.VarExpr, *ast.FloatExpr:
		// no calls

	case *ast.PrimExpr:
		for _, a := range n.Args {
			shouldLiftHelper(a, set, false)
		}

	case *ast.LetExpr:
		for _, b := range n.Bindings {
			shouldLiftHelper(b.Value, set, false)
		}
		shouldLiftHelper(n.Body, set, isTail)

	case *ast.IfExpr:
		shouldLiftHelper(n.Cond, set, false)
		shouldLiftHelper(n.Then, set, isTail)
		shouldLiftHelper(n.Else, set, isTail)

	case *ast.FunDefsExpr:
		for _, decl := range n.Decls {
			// A decl's own body is always in tail position relative to itself.
			shouldLiftHelper(decl.Body, set, true)
		}
		// The outer body's tail-ness is inherited from the FunDefs node's own.
		shouldLiftHelper(n.Body, set, isTail)

	case *ast.CallExpr:
		if !isTail {
			set[n.FunName] = struct{}{}
		}
		for _, a := range n.Args {
			shouldLiftHelper(a, set, false)
		}

	default:
		panic("lift: should_lift saw an unexpected expression variant")
	}
}
