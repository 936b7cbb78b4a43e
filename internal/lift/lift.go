package lift

import "github.com/snakelang/snakec/internal/ast"

func cloneEnv(env []string) []string {
	out := make([]string, len(env))
	copy(out, env)
	return out
}

func contains(env []string, name string) bool {
	for _, e := range env {
		if e == name {
			return true
		}
	}
	return false
}

// Lift performs lambda lifting over the uniquified, tagged surface
// tree: it returns the top-level declarations that had to be lifted,
// the rewritten body with Call nodes reclassified as InternalTailCall/
// ExternalCall, and a map from every function name (lifted or still
// nested) to its captured-environment variable list.
func Lift(prog ast.Expr) (lifted []*ast.FunDecl, body ast.Expr, funToEnv map[string][]string) {
	env := []string{}
	liftedOut := []*ast.FunDecl{}
	shouldLift := ShouldLift(prog)
	funToDecl := map[string]*ast.FunDecl{}
	funToEnv = map[string][]string{}
	body = lambdaLiftHelper(prog, env, &liftedOut, shouldLift, funToDecl, true, funToEnv)
	return liftedOut, body, funToEnv
}

func lambdaLiftHelper(
	e ast.Expr,
	env []string,
	lifted *[]*ast.FunDecl,
	shouldLift map[string]struct{},
	funToDecl map[string]*ast.FunDecl,
	isTail bool,
	funToEnv map[string][]string,
) ast.Expr {
	switch n := e.(type) {
	case *ast.NumExpr:
		return &ast.NumExpr{Value: n.Value}
	case *ast.BoolExpr:
		return &ast.BoolExpr{Value: n.Value}
	case *ast.FloatExpr:
		return &ast.FloatExpr{Value: n.Value}
	case *ast.VarExpr:
		return &ast.VarExpr{Name: n.Name}

	case *ast.PrimExpr:
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = lambdaLiftHelper(a, cloneEnv(env), lifted, shouldLift, funToDecl, false, funToEnv)
		}
		return &ast.PrimExpr{Op: n.Op, Args: newArgs}

	case *ast.LetExpr:
		newBindings := make([]ast.Binding, len(n.Bindings))
		curEnv := env
		for i, b := range n.Bindings {
			newVal := lambdaLiftHelper(b.Value, cloneEnv(curEnv), lifted, shouldLift, funToDecl, false, funToEnv)
			newBindings[i] = ast.Binding{Name: b.Name, Value: newVal}
			curEnv = append(cloneEnv(curEnv), b.Name)
		}
		newBody := lambdaLiftHelper(n.Body, cloneEnv(curEnv), lifted, shouldLift, funToDecl, isTail, funToEnv)
		return &ast.LetExpr{Bindings: newBindings, Body: newBody}

	case *ast.IfExpr:
		newCond := lambdaLiftHelper(n.Cond, cloneEnv(env), lifted, shouldLift, funToDecl, false, funToEnv)
		newThen := lambdaLiftHelper(n.Then, cloneEnv(env), lifted, shouldLift, funToDecl, isTail, funToEnv)
		newElse := lambdaLiftHelper(n.Else, cloneEnv(env), lifted, shouldLift, funToDecl, isTail, funToEnv)
		return &ast.IfExpr{Cond: newCond, Then: newThen, Else: newElse}

	case *ast.FunDefsExpr:
		newBodies := make([]ast.Expr, len(n.Decls))
		newEnvs := make([][]string, len(n.Decls))
		for i, decl := range n.Decls {
			funToEnv[decl.Name] = cloneEnv(env)
			newEnv := cloneEnv(env)
			for _, p := range decl.Parameters {
				if contains(newEnv, p) {
					panic("lift: duplicate name entering function scope")
				}
			}
			newEnv = append(newEnv, decl.Parameters...)
			newBody := lambdaLiftHelper(decl.Body, cloneEnv(newEnv), lifted, shouldLift, funToDecl, true, funToEnv)
			newDecl := &ast.FunDecl{Name: decl.Name, Parameters: decl.Parameters, Body: newBody}
			funToDecl[decl.Name] = newDecl
			newBodies[i] = newBody
			newEnvs[i] = newEnv
		}

		var newDecls []*ast.FunDecl
		for i, decl := range n.Decls {
			if _, mustLift := shouldLift[decl.Name]; mustLift {
				newBody := copyDef(newBodies[i], funToDecl, funToEnv, cloneEnv(env))
				*lifted = append(*lifted, &ast.FunDecl{
					Name:       decl.Name,
					Parameters: newEnvs[i],
					Body:       newBody,
				})
			} else {
				newDecls = append(newDecls, &ast.FunDecl{
					Name:       decl.Name,
					Parameters: decl.Parameters,
					Body:       newBodies[i],
				})
			}
		}
		newBody := lambdaLiftHelper(n.Body, cloneEnv(env), lifted, shouldLift, funToDecl, true, funToEnv)
		if len(newDecls) == 0 {
			return newBody
		}
		return &ast.FunDefsExpr{Decls: newDecls, Body: newBody}

	case *ast.CallExpr:
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = lambdaLiftHelper(a, env, lifted, shouldLift, funToDecl, false, funToEnv)
		}
		if _, mustLift := shouldLift[n.FunName]; isTail && !mustLift {
			return &ast.InternalTailCallExpr{FunName: n.FunName, Args: newArgs}
		}
		return &ast.ExternalCallExpr{FunName: n.FunName, Args: newArgs, IsTail: isTail}

	default:
		panic("lift: lambda lift saw an unexpected expression variant")
	}
}

// copyDef rewrites InternalTailCall references inside a lifted
// function's body to point at a uniquely-named clone of the callee,
// inlined as a fresh single-decl FunDefs, so the lifted function
// carries with it any still-local function it tail-calls. A clone is
// created at most once per original name (memoized via funToEnv's
// "{name}_copy" key).
func copyDef(
	e ast.Expr,
	funToDecl map[string]*ast.FunDecl,
	funToEnv map[string][]string,
	env []string,
) ast.Expr {
	switch n := e.(type) {
	case *ast.LetExpr:
		curEnv := cloneEnv(env)
		for _, b := range n.Bindings {
			curEnv = append(curEnv, b.Name)
		}
		return &ast.LetExpr{
			Bindings: n.Bindings,
			Body:     copyDef(n.Body, funToDecl, funToEnv, cloneEnv(curEnv)),
		}

	case *ast.IfExpr:
		return &ast.IfExpr{
			Cond: n.Cond,
			Then: copyDef(n.Then, funToDecl, funToEnv, cloneEnv(env)),
			Else: copyDef(n.Else, funToDecl, funToEnv, cloneEnv(env)),
		}

	case *ast.FunDefsExpr:
		newDecls := make([]*ast.FunDecl, len(n.Decls))
		for i, decl := range n.Decls {
			newDecls[i] = &ast.FunDecl{
				Name:       decl.Name,
				Parameters: decl.Parameters,
				Body:       copyDef(decl.Body, funToDecl, funToEnv, cloneEnv(env)),
			}
		}
		return &ast.FunDefsExpr{
			Decls: newDecls,
			Body:  copyDef(n.Body, funToDecl, funToEnv, cloneEnv(env)),
		}

	case *ast.InternalTailCallExpr:
		decl, ok := funToDecl[n.FunName]
		if !ok {
			panic("lift: copy_def could not find declaration for " + n.FunName)
		}
		newName := decl.Name + "_copy"
		if _, already := funToEnv[newName]; !already {
			newDecl := &ast.FunDecl{Name: newName, Parameters: decl.Parameters, Body: decl.Body}
			srcEnv, ok := funToEnv[n.FunName]
			if !ok {
				panic("lift: copy_def could not find captured environment for " + n.FunName)
			}
			funToEnv[newName] = cloneEnv(srcEnv)
			return &ast.FunDefsExpr{
				Decls: []*ast.FunDecl{newDecl},
				Body:  &ast.InternalTailCallExpr{FunName: newName, Args: n.Args},
			}
		}
		return &ast.InternalTailCallExpr{FunName: newName, Args: n.Args}

	case *ast.CallExpr:
		panic("lift: copy_def encountered a surface Call, expected only InternalTailCall")

	default:
		// Immediates and ExternalCall pass through unchanged.
		return e
	}
}
