package lift_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/lift"
	"github.com/snakelang/snakec/internal/tagger"
	"github.com/snakelang/snakec/pkg/snakec"
)

func decode(t *testing.T, fixture string) ast.Expr {
	t.Helper()
	prog, err := snakec.DecodeFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("decoding fixture: %s", err)
	}
	return tagger.Uniquify(prog, tagger.NewSupply(0))
}

func TestLift_TailCalledLocalFunctionStaysNested(t *testing.T) {
	// A single function only ever tail-called from within its own
	// FunDefs body should never be lifted: the rewritten body keeps a
	// FunDefsExpr wrapper, and the call becomes an InternalTailCall.
	prog := decode(t, `{
		"kind":"fundefs",
		"decls":[{"name":"loop","parameters":["n"],"body":{
			"kind":"if",
			"cond":{"kind":"prim","op":"==","args":[{"kind":"var","name":"n"},{"kind":"num","num":0}]},
			"then":{"kind":"num","num":0},
			"else":{"kind":"call","fun":"loop","call_args":[{"kind":"prim","op":"-","args":[{"kind":"var","name":"n"},{"kind":"num","num":1}]}]}
		}}],
		"body":{"kind":"call","fun":"loop","call_args":[{"kind":"num","num":5}]}
	}`)

	lifted, body, funToEnv := lift.Lift(prog)
	if len(lifted) != 0 {
		t.Fatalf("expected no lifted decls, got %d", len(lifted))
	}
	fd, ok := body.(*ast.FunDefsExpr)
	if !ok {
		t.Fatalf("expected body to stay a FunDefsExpr, got %T", body)
	}
	if _, ok := fd.Decls[0].Body.(*ast.IfExpr); !ok {
		t.Fatalf("expected decl body to still be an If")
	}
	innerIf := fd.Decls[0].Body.(*ast.IfExpr)
	if _, ok := innerIf.Else.(*ast.InternalTailCallExpr); !ok {
		t.Fatalf("expected tail-recursive call to become InternalTailCall, got %T", innerIf.Else)
	}
	if _, ok := funToEnv[fd.Decls[0].Name]; !ok {
		t.Fatalf("expected funToEnv entry for nested decl %q", fd.Decls[0].Name)
	}
}

func TestLift_NonTailCalledFunctionIsLifted(t *testing.T) {
	// A function called from a non-tail position (here, as an operand
	// of +) must be lifted to the top level and its call site rewritten
	// to ExternalCall.
	prog := decode(t, `{
		"kind":"fundefs",
		"decls":[{"name":"double","parameters":["n"],"body":{
			"kind":"prim","op":"+","args":[{"kind":"var","name":"n"},{"kind":"var","name":"n"}]
		}}],
		"body":{"kind":"prim","op":"+","args":[
			{"kind":"call","fun":"double","call_args":[{"kind":"num","num":3}]},
			{"kind":"num","num":1}
		]}
	}`)

	lifted, body, _ := lift.Lift(prog)
	if len(lifted) != 1 {
		t.Fatalf("expected exactly one lifted decl, got %d", len(lifted))
	}
	if _, ok := body.(*ast.FunDefsExpr); ok {
		t.Fatalf("expected no FunDefsExpr left in the body once its only decl is lifted")
	}
	prim := body.(*ast.PrimExpr)
	call, ok := prim.Args[0].(*ast.ExternalCallExpr)
	if !ok {
		t.Fatalf("expected non-tail call to become ExternalCall, got %T", prim.Args[0])
	}
	if call.IsTail {
		t.Fatalf("a non-tail call must not be marked IsTail")
	}
}

func TestLift_LocalTailCalleeOfLiftedFunctionIsCopied(t *testing.T) {
	// "helper" is only ever tail-called from within "driver", so it
	// stays nested; but "driver" itself is called from a non-tail
	// position and must be lifted. Lifting driver carries its nested
	// tail-called helper along via copy_def, producing a "helper_copy"
	// wrapped in a synthetic FunDefs inside driver's lifted body.
	prog := decode(t, `{
		"kind":"fundefs",
		"decls":[{"name":"driver","parameters":["n"],"body":{
			"kind":"fundefs",
			"decls":[{"name":"helper","parameters":["m"],"body":{
				"kind":"if",
				"cond":{"kind":"prim","op":"==","args":[{"kind":"var","name":"m"},{"kind":"num","num":0}]},
				"then":{"kind":"num","num":1},
				"else":{"kind":"call","fun":"helper","call_args":[{"kind":"prim","op":"-","args":[{"kind":"var","name":"m"},{"kind":"num","num":1}]}]}
			}}],
			"body":{"kind":"call","fun":"helper","call_args":[{"kind":"var","name":"n"}]}
		}}],
		"body":{"kind":"prim","op":"+","args":[
			{"kind":"call","fun":"driver","call_args":[{"kind":"num","num":3}]},
			{"kind":"num","num":1}
		]}
	}`)

	lifted, _, funToEnv := lift.Lift(prog)
	if len(lifted) != 1 {
		t.Fatalf("expected exactly one top-level lifted decl (driver), got %d", len(lifted))
	}
	driver := lifted[0]
	if driver.Name != "fun_driver_0" {
		t.Fatalf("expected lifted decl to be driver, got %q", driver.Name)
	}

	inner, ok := driver.Body.(*ast.FunDefsExpr)
	if !ok {
		t.Fatalf("expected driver's lifted body to still carry its nested helper, got %T", driver.Body)
	}
	// The outer call site (originally "call helper(n)" in driver's own
	// body) must be rewritten to tail-call a memoized "<name>_copy"
	// clone rather than the bare nested name, since driver itself left
	// its original scope once lifted.
	call, ok := inner.Body.(*ast.InternalTailCallExpr)
	if !ok {
		t.Fatalf("expected driver's body to end in a tail call to the copied helper, got %T", inner.Body)
	}
	const suffix = "_copy"
	if len(call.FunName) <= len(suffix) || call.FunName[len(call.FunName)-len(suffix):] != suffix {
		t.Fatalf("expected tail call target to be a _copy clone, got %q", call.FunName)
	}
	if _, ok := funToEnv[call.FunName]; !ok {
		t.Fatalf("expected funToEnv entry for copied decl %q", call.FunName)
	}
}
