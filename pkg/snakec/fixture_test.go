package snakec_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/pkg/snakec"
)

func TestDecodeFixture_Literals(t *testing.T) {
	prog, err := snakec.DecodeFixture([]byte(`{"kind":"num","num":42}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	n, ok := prog.(*ast.NumExpr)
	if !ok || n.Value != 42 {
		t.Fatalf("expected NumExpr{42}, got %#v", prog)
	}
}

func TestDecodeFixture_NestedPrimAndLet(t *testing.T) {
	prog, err := snakec.DecodeFixture([]byte(`{
		"kind":"let",
		"bindings":[{"name":"x","value":{"kind":"num","num":1}}],
		"body":{"kind":"prim","op":"add1","args":[{"kind":"var","name":"x"}]}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	let, ok := prog.(*ast.LetExpr)
	if !ok {
		t.Fatalf("expected LetExpr, got %T", prog)
	}
	if len(let.Bindings) != 1 || let.Bindings[0].Name != "x" {
		t.Fatalf("unexpected bindings: %+v", let.Bindings)
	}
	prim, ok := let.Body.(*ast.PrimExpr)
	if !ok {
		t.Fatalf("expected PrimExpr body, got %T", let.Body)
	}
	if prim.Op != ast.Add1 {
		t.Fatalf("expected add1, got %v", prim.Op)
	}
}

func TestDecodeFixture_MalformedJSON(t *testing.T) {
	if _, err := snakec.DecodeFixture([]byte(`{not json`)); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}

func TestDecodeFixture_UnknownKind(t *testing.T) {
	if _, err := snakec.DecodeFixture([]byte(`{"kind":"bogus"}`)); err == nil {
		t.Fatalf("expected an error for an unknown node kind")
	}
}

func TestDecodeFixture_UnknownPrimOperator(t *testing.T) {
	if _, err := snakec.DecodeFixture([]byte(`{"kind":"prim","op":"???","args":[]}`)); err == nil {
		t.Fatalf("expected an error for an unrecognized prim operator")
	}
}

func TestDecodeFixture_MissingRequiredField(t *testing.T) {
	cases := []string{
		`{"kind":"num"}`,
		`{"kind":"bool"}`,
		`{"kind":"float"}`,
		`{"kind":"var"}`,
		`{"kind":"let","bindings":[]}`,
		`{"kind":"if","cond":{"kind":"bool","bool":true},"then":{"kind":"num","num":1}}`,
		`{"kind":"fundefs","decls":[]}`,
		`{"kind":"call","call_args":[]}`,
	}
	for _, fx := range cases {
		if _, err := snakec.DecodeFixture([]byte(fx)); err == nil {
			t.Fatalf("expected an error decoding %s", fx)
		}
	}
}

func TestDecodeFixture_ErrorPropagatesFromNestedNode(t *testing.T) {
	// The outer node is well-formed; the failure is buried inside a
	// nested call argument and must still surface.
	_, err := snakec.DecodeFixture([]byte(`{
		"kind":"prim","op":"+",
		"args":[{"kind":"num","num":1},{"kind":"bogus"}]
	}`))
	if err == nil {
		t.Fatalf("expected a nested decode error to propagate")
	}
}
