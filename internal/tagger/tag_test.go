package tagger_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/tagger"
	"github.com/snakelang/snakec/pkg/snakec"
)

func decode(t *testing.T, fixture string) ast.Expr {
	t.Helper()
	prog, err := snakec.DecodeFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("decoding fixture: %s", err)
	}
	return prog
}

// collectTags walks a tagged tree and returns every tag it sees, in
// visitation order (pre-order traversal of the already-tagged tree).
func collectTags(e ast.Expr) []uint32 {
	var tags []uint32
	var walk func(ast.Expr)
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.NumExpr, *ast.BoolExpr, *ast.FloatExpr, *ast.VarExpr:
			tags = append(tags, e.GetTag())
		case *ast.PrimExpr:
			for _, a := range n.Args {
				walk(a)
			}
			tags = append(tags, n.GetTag())
		case *ast.LetExpr:
			for _, b := range n.Bindings {
				walk(b.Value)
			}
			walk(n.Body)
			tags = append(tags, n.GetTag())
		case *ast.IfExpr:
			walk(n.Cond)
			walk(n.Then)
			walk(n.Else)
			tags = append(tags, n.GetTag())
		case *ast.FunDefsExpr:
			for _, d := range n.Decls {
				walk(d.Body)
			}
			walk(n.Body)
			tags = append(tags, n.GetTag())
		case *ast.CallExpr:
			for _, a := range n.Args {
				walk(a)
			}
			tags = append(tags, n.GetTag())
		}
	}
	walk(e)
	return tags
}

func TestTag_EveryNodeGetsATagLargerThanItsChildren(t *testing.T) {
	prog := decode(t, `{
		"kind":"let",
		"bindings":[{"name":"x","value":{"kind":"prim","op":"+","args":[{"kind":"num","num":1},{"kind":"num","num":2}]}}],
		"body":{"kind":"if","cond":{"kind":"bool","bool":true},"then":{"kind":"var","name":"x"},"else":{"kind":"num","num":0}}
	}`)
	tagged := tagger.Tag(prog, tagger.NewSupply(0))
	tags := collectTags(tagged)
	for i := 1; i < len(tags); i++ {
		if tags[i] <= tags[i-1] {
			t.Fatalf("tags not strictly increasing in post-order: %v (index %d)", tags, i)
		}
	}
	seen := map[uint32]bool{}
	for _, tg := range tags {
		if seen[tg] {
			t.Fatalf("duplicate tag %d in %v", tg, tags)
		}
		seen[tg] = true
	}
}

func TestUniquify_RenamesLetBindingsUniquely(t *testing.T) {
	// Two sibling lets both bind "x"; uniquify must give each a
	// distinct underlying name even though the surface spelling repeats.
	prog := decode(t, `{
		"kind":"let",
		"bindings":[{"name":"outer","value":{
			"kind":"let",
			"bindings":[{"name":"x","value":{"kind":"num","num":1}}],
			"body":{"kind":"var","name":"x"}
		}}],
		"body":{
			"kind":"let",
			"bindings":[{"name":"x","value":{"kind":"num","num":2}}],
			"body":{"kind":"var","name":"x"}
		}
	}`)
	uniq := tagger.Uniquify(prog, tagger.NewSupply(0)).(*ast.LetExpr)
	innerLetA := uniq.Bindings[0].Value.(*ast.LetExpr)
	innerLetB := uniq.Body.(*ast.LetExpr)

	nameA := innerLetA.Bindings[0].Name
	nameB := innerLetB.Bindings[0].Name
	if nameA == nameB {
		t.Fatalf("expected distinct uniquified names, got %q and %q", nameA, nameB)
	}
	if innerLetA.Body.(*ast.VarExpr).Name != nameA {
		t.Fatalf("inner var reference not rewritten to match its binding: got %q, want %q",
			innerLetA.Body.(*ast.VarExpr).Name, nameA)
	}
	if innerLetB.Body.(*ast.VarExpr).Name != nameB {
		t.Fatalf("inner var reference not rewritten to match its binding: got %q, want %q",
			innerLetB.Body.(*ast.VarExpr).Name, nameB)
	}
}

func TestUniquify_FunDefsRenamesFunctionsAndParams(t *testing.T) {
	prog := decode(t, `{
		"kind":"fundefs",
		"decls":[{"name":"f","parameters":["x"],"body":{"kind":"var","name":"x"}}],
		"body":{"kind":"call","fun":"f","call_args":[{"kind":"num","num":1}]}
	}`)
	uniq := tagger.Uniquify(prog, tagger.NewSupply(0)).(*ast.FunDefsExpr)
	decl := uniq.Decls[0]
	if decl.Name == "f" {
		t.Fatalf("expected function name to be uniquified, stayed %q", decl.Name)
	}
	call := uniq.Body.(*ast.CallExpr)
	if call.FunName != decl.Name {
		t.Fatalf("call site not rewritten to uniquified function name: got %q, want %q", call.FunName, decl.Name)
	}
	if decl.Parameters[0] == "x" {
		t.Fatalf("expected parameter name to be uniquified, stayed %q", decl.Parameters[0])
	}
	bodyVar := decl.Body.(*ast.VarExpr)
	if bodyVar.Name != decl.Parameters[0] {
		t.Fatalf("body reference not rewritten to uniquified parameter: got %q, want %q", bodyVar.Name, decl.Parameters[0])
	}
}
