package snakec_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/cache"
	"github.com/snakelang/snakec/pkg/snakec"
)

func TestCompileFixture_RendersAssemblyForValidProgram(t *testing.T) {
	c := snakec.New(nil)
	res, err := c.CompileFixture([]byte(`{"kind":"prim","op":"+","args":[{"kind":"num","num":1},{"kind":"num","num":2}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(res.Assembly, "start_here:") {
		t.Fatalf("expected rendered NASM, got %q", res.Assembly)
	}
	if res.BuildID == "" {
		t.Fatalf("expected a build ID to be stamped on a fresh compile")
	}
	if res.Cached {
		t.Fatalf("first compile should never report Cached")
	}
}

func TestCompileFixture_PropagatesDecodeError(t *testing.T) {
	c := snakec.New(nil)
	if _, err := c.CompileFixture([]byte(`{"kind":"bogus"}`)); err == nil {
		t.Fatalf("expected an error for an unrecognized fixture kind")
	}
}

func TestCompileFixture_PropagatesCheckError(t *testing.T) {
	c := snakec.New(nil)
	_, err := c.CompileFixture([]byte(`{"kind":"var","name":"undefined"}`))
	if err == nil {
		t.Fatalf("expected a checker error for an unbound variable")
	}
}

func TestCompile_SecondCallHitsCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "artifacts.db")
	backing, err := cache.Open(dbPath)
	if err != nil {
		t.Fatalf("opening cache: %s", err)
	}
	defer backing.Close()

	c := snakec.New(backing)
	prog := &ast.NumExpr{Value: 7}

	first, cerr := c.Compile(prog)
	if cerr != nil {
		t.Fatalf("unexpected error: %s", cerr)
	}
	if first.Cached {
		t.Fatalf("expected the first compile to be a cache miss")
	}

	second, cerr := c.Compile(prog)
	if cerr != nil {
		t.Fatalf("unexpected error: %s", cerr)
	}
	if !second.Cached {
		t.Fatalf("expected the second compile of the same program to hit the cache")
	}
	if second.Assembly != first.Assembly {
		t.Fatalf("cached assembly should match the original render")
	}
}

func TestCacheKey_IgnoresBoundVariableSpelling(t *testing.T) {
	a := &ast.LetExpr{
		Bindings: []ast.Binding{{Name: "x", Value: &ast.NumExpr{Value: 1}}},
		Body:     &ast.VarExpr{Name: "x"},
	}
	b := &ast.LetExpr{
		Bindings: []ast.Binding{{Name: "renamed", Value: &ast.NumExpr{Value: 1}}},
		Body:     &ast.VarExpr{Name: "renamed"},
	}
	if snakec.CacheKey(a) != snakec.CacheKey(b) {
		t.Fatalf("expected two programs differing only in bound variable spelling to share a cache key")
	}
}

func TestCacheKey_DistinguishesDifferentPrograms(t *testing.T) {
	a := &ast.NumExpr{Value: 1}
	b := &ast.NumExpr{Value: 2}
	if snakec.CacheKey(a) == snakec.CacheKey(b) {
		t.Fatalf("expected different programs to hash differently")
	}
}
