package ast_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/ast"
)

func TestDump_Literals(t *testing.T) {
	cases := []struct {
		e    ast.Expr
		want string
	}{
		{&ast.NumExpr{Value: 42}, "42"},
		{&ast.BoolExpr{Value: true}, "true"},
		{&ast.BoolExpr{Value: false}, "false"},
		{&ast.VarExpr{Name: "x"}, "x"},
	}
	for _, c := range cases {
		if got := ast.Dump(c.e); got != c.want {
			t.Errorf("Dump(%#v) = %q, want %q", c.e, got, c.want)
		}
	}
}

func TestDump_PrimAndLet(t *testing.T) {
	e := &ast.LetExpr{
		Bindings: []ast.Binding{{Name: "x", Value: &ast.NumExpr{Value: 1}}},
		Body:     &ast.PrimExpr{Op: ast.Add, Args: []ast.Expr{&ast.VarExpr{Name: "x"}, &ast.NumExpr{Value: 2}}},
	}
	want := "(let ((x 1)) (+ x 2))"
	if got := ast.Dump(e); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDump_IfAndCall(t *testing.T) {
	e := &ast.IfExpr{
		Cond: &ast.BoolExpr{Value: true},
		Then: &ast.CallExpr{FunName: "f", Args: []ast.Expr{&ast.NumExpr{Value: 1}}},
		Else: &ast.NumExpr{Value: 0},
	}
	want := "(if true (call f 1) 0)"
	if got := ast.Dump(e); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDump_FunDefs(t *testing.T) {
	e := &ast.FunDefsExpr{
		Decls: []*ast.FunDecl{
			{Name: "f", Parameters: []string{"a", "b"}, Body: &ast.VarExpr{Name: "a"}},
		},
		Body: &ast.CallExpr{FunName: "f", Args: []ast.Expr{&ast.NumExpr{Value: 1}, &ast.NumExpr{Value: 2}}},
	}
	want := "(fundefs ((fun f (a b) a)) (call f 1 2))"
	if got := ast.Dump(e); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDump_DistinguishesStructurallyDifferentTrees(t *testing.T) {
	a := &ast.PrimExpr{Op: ast.Add, Args: []ast.Expr{&ast.NumExpr{Value: 1}, &ast.NumExpr{Value: 2}}}
	b := &ast.PrimExpr{Op: ast.Sub, Args: []ast.Expr{&ast.NumExpr{Value: 1}, &ast.NumExpr{Value: 2}}}
	if ast.Dump(a) == ast.Dump(b) {
		t.Fatalf("expected different dumps for + vs -, both rendered as %q", ast.Dump(a))
	}
}
