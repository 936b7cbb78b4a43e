// Package snakec is the embeddable public surface over the compiler
// core: a JSON fixture decoder standing in for the out-of-scope
// lexer/parser, plus a thin Compile wrapper gluing the pipeline, the
// backend, and the build-ID/cache bookkeeping together. Grounded on
// pkg/embed's "New() returns a facade over the internal packages"
// shape.
package snakec

import (
	"encoding/json"
	"fmt"

	"github.com/snakelang/snakec/internal/ast"
)

// fixtureNode is the tagged-union JSON shape every fixture node
// unmarshals into; exactly one meaning applies per Kind.
type fixtureNode struct {
	Kind string `json:"kind"`

	// num / bool / float literals
	Num   *int64   `json:"num,omitempty"`
	Bool  *bool    `json:"bool,omitempty"`
	Float *float64 `json:"float,omitempty"`

	// var
	Name string `json:"name,omitempty"`

	// prim
	Op   string        `json:"op,omitempty"`
	Args []fixtureNode `json:"args,omitempty"`

	// let
	Bindings []fixtureBinding `json:"bindings,omitempty"`
	Body     *fixtureNode     `json:"body,omitempty"`

	// if
	Cond *fixtureNode `json:"cond,omitempty"`
	Then *fixtureNode `json:"then,omitempty"`
	Else *fixtureNode `json:"else,omitempty"`

	// fundefs
	Decls []fixtureDecl `json:"decls,omitempty"`

	// call
	FunName string        `json:"fun,omitempty"`
	CallArgs []fixtureNode `json:"call_args,omitempty"`
}

type fixtureBinding struct {
	Name  string      `json:"name"`
	Value fixtureNode `json:"value"`
}

type fixtureDecl struct {
	Name       string      `json:"name"`
	Parameters []string    `json:"parameters"`
	Body       fixtureNode `json:"body"`
}

// DecodeFixture unmarshals a JSON-encoded ast.Expr fixture. This is
// the substitute input format for tests, the CLI, and the gRPC
// service in place of the excluded lexer/parser: it is a
// serialization of the AST, not a language grammar.
func DecodeFixture(data []byte) (ast.Expr, error) {
	var n fixtureNode
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("snakec: decoding fixture: %w", err)
	}
	return buildExpr(&n)
}

func buildExpr(n *fixtureNode) (ast.Expr, error) {
	switch n.Kind {
	case "num":
		if n.Num == nil {
			return nil, fmt.Errorf("snakec: fixture kind %q missing \"num\"", n.Kind)
		}
		return &ast.NumExpr{Value: *n.Num}, nil

	case "bool":
		if n.Bool == nil {
			return nil, fmt.Errorf("snakec: fixture kind %q missing \"bool\"", n.Kind)
		}
		return &ast.BoolExpr{Value: *n.Bool}, nil

	case "float":
		if n.Float == nil {
			return nil, fmt.Errorf("snakec: fixture kind %q missing \"float\"", n.Kind)
		}
		return &ast.FloatExpr{Value: *n.Float}, nil

	case "var":
		if n.Name == "" {
			return nil, fmt.Errorf("snakec: fixture kind \"var\" missing \"name\"")
		}
		return &ast.VarExpr{Name: n.Name}, nil

	case "prim":
		op, ok := ast.ParsePrim(n.Op)
		if !ok {
			return nil, fmt.Errorf("snakec: fixture: unknown prim operator %q", n.Op)
		}
		args := make([]ast.Expr, len(n.Args))
		for i := range n.Args {
			a, err := buildExpr(&n.Args[i])
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &ast.PrimExpr{Op: op, Args: args}, nil

	case "let":
		bindings := make([]ast.Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			v, err := buildExpr(&b.Value)
			if err != nil {
				return nil, err
			}
			bindings[i] = ast.Binding{Name: b.Name, Value: v}
		}
		if n.Body == nil {
			return nil, fmt.Errorf("snakec: fixture kind \"let\" missing \"body\"")
		}
		body, err := buildExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.LetExpr{Bindings: bindings, Body: body}, nil

	case "if":
		if n.Cond == nil || n.Then == nil || n.Else == nil {
			return nil, fmt.Errorf("snakec: fixture kind \"if\" requires \"cond\", \"then\", and \"else\"")
		}
		cond, err := buildExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		thn, err := buildExpr(n.Then)
		if err != nil {
			return nil, err
		}
		els, err := buildExpr(n.Else)
		if err != nil {
			return nil, err
		}
		return &ast.IfExpr{Cond: cond, Then: thn, Else: els}, nil

	case "fundefs":
		decls := make([]*ast.FunDecl, len(n.Decls))
		for i, d := range n.Decls {
			body, err := buildExpr(&d.Body)
			if err != nil {
				return nil, err
			}
			decls[i] = &ast.FunDecl{Name: d.Name, Parameters: d.Parameters, Body: body}
		}
		if n.Body == nil {
			return nil, fmt.Errorf("snakec: fixture kind \"fundefs\" missing \"body\"")
		}
		body, err := buildExpr(n.Body)
		if err != nil {
			return nil, err
		}
		return &ast.FunDefsExpr{Decls: decls, Body: body}, nil

	case "call":
		if n.FunName == "" {
			return nil, fmt.Errorf("snakec: fixture kind \"call\" missing \"fun\"")
		}
		args := make([]ast.Expr, len(n.CallArgs))
		for i := range n.CallArgs {
			a, err := buildExpr(&n.CallArgs[i])
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return &ast.CallExpr{FunName: n.FunName, Args: args}, nil

	default:
		return nil, fmt.Errorf("snakec: fixture: unknown node kind %q", n.Kind)
	}
}
