package ast_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/ast"
)

func TestParsePrim_RoundTripsEveryPrimSpelling(t *testing.T) {
	prims := []ast.Prim{
		ast.Add1, ast.Sub1, ast.Not, ast.Print, ast.IsBool, ast.IsNum, ast.IsFloat, ast.Sqrt, ast.Cos,
		ast.Add, ast.Sub, ast.Mul, ast.Div, ast.FloorDiv, ast.And, ast.Or,
		ast.Lt, ast.Gt, ast.Le, ast.Ge, ast.Eq, ast.Neq,
	}
	for _, p := range prims {
		spelling := p.String()
		got, ok := ast.ParsePrim(spelling)
		if !ok {
			t.Errorf("ParsePrim(%q) reported not found for prim %v", spelling, p)
			continue
		}
		if got != p {
			t.Errorf("ParsePrim(%q) = %v, want %v", spelling, got, p)
		}
	}
}

func TestParsePrim_UnknownSpellingNotFound(t *testing.T) {
	if _, ok := ast.ParsePrim("%%%"); ok {
		t.Fatalf("expected ParsePrim to report not-found for an unrecognized spelling")
	}
}

func TestPrim_StringUnknownValue(t *testing.T) {
	var p ast.Prim = 9999
	if p.String() != "<unknown prim>" {
		t.Fatalf("expected sentinel string for out-of-range Prim, got %q", p.String())
	}
}
