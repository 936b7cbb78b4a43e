// Package seq sequentializes a tagged surface tree into ANF: every
// primitive application, call, and if-condition is rewritten so it
// only ever operates on immediates, introducing fresh "#prim2_1_N"
// style let-bindings to hold the intermediate values.
package seq

import (
	"fmt"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/seqir"
	"github.com/snakelang/snakec/internal/tagger"
)

// Exp sequentializes a single already-tagged expression tree (every
// node's Tag must be populated, e.g. by tagger.Tag) into ANF.
func Exp(e ast.Expr) seqir.SeqExpr {
	switch n := e.(type) {
	case *ast.VarExpr:
		return &seqir.ImmSeqExpr{Value: seqir.VarImm{Name: n.Name}}
	case *ast.NumExpr:
		return &seqir.ImmSeqExpr{Value: seqir.NumImm{Value: n.Value}}
	case *ast.BoolExpr:
		return &seqir.ImmSeqExpr{Value: seqir.BoolImm{Value: n.Value}}
	case *ast.FloatExpr:
		return &seqir.ImmSeqExpr{Value: seqir.FloatImm{Value: n.Value}}

	case *ast.PrimExpr:
		tag := n.GetTag()
		if n.Op.Arity() == 2 {
			n1 := fmt.Sprintf("#prim2_1_%d", tag)
			n2 := fmt.Sprintf("#prim2_2_%d", tag)
			s1 := Exp(n.Args[0])
			s2 := Exp(n.Args[1])
			return &seqir.LetSeqExpr{
				Var:      n1,
				BoundExp: s1,
				Body: &seqir.LetSeqExpr{
					Var:      n2,
					BoundExp: s2,
					Body: &seqir.PrimSeqExpr{
						Op:   n.Op,
						Args: []seqir.Imm{seqir.VarImm{Name: n1}, seqir.VarImm{Name: n2}},
					},
				},
			}
		}
		n1 := fmt.Sprintf("#prim1_1_%d", tag)
		s1 := Exp(n.Args[0])
		return &seqir.LetSeqExpr{
			Var:      n1,
			BoundExp: s1,
			Body: &seqir.PrimSeqExpr{
				Op:   n.Op,
				Args: []seqir.Imm{seqir.VarImm{Name: n1}},
			},
		}

	case *ast.LetExpr:
		body := Exp(n.Body)
		for i := len(n.Bindings) - 1; i >= 0; i-- {
			b := n.Bindings[i]
			body = &seqir.LetSeqExpr{
				Var:      b.Name,
				BoundExp: Exp(b.Value),
				Body:     body,
			}
		}
		return body

	case *ast.IfExpr:
		name := fmt.Sprintf("if_%d", n.GetTag())
		boundExp := Exp(n.Cond)
		body := &seqir.IfSeqExpr{
			Cond: seqir.VarImm{Name: name},
			Then: Exp(n.Then),
			Else: Exp(n.Else),
		}
		return &seqir.LetSeqExpr{Var: name, BoundExp: boundExp, Body: body}

	case *ast.FunDefsExpr:
		newDecls := make([]*seqir.SeqFunDecl, len(n.Decls))
		for i, decl := range n.Decls {
			newDecls[i] = &seqir.SeqFunDecl{
				Name:       decl.Name,
				Parameters: decl.Parameters,
				Body:       Exp(decl.Body),
			}
		}
		return &seqir.FunDefsSeqExpr{Decls: newDecls, Body: Exp(n.Body)}

	case *ast.InternalTailCallExpr:
		if len(n.Args) == 0 {
			return &seqir.InternalTailCallSeqExpr{FunName: n.FunName, Args: nil}
		}
		newNames := make([]string, len(n.Args))
		newArgs := make([]seqir.Imm, len(n.Args))
		for i := range n.Args {
			newNames[i] = fmt.Sprintf("#arg_%d_%d", n.GetTag(), i)
			newArgs[i] = seqir.VarImm{Name: newNames[i]}
		}
		var body seqir.SeqExpr = &seqir.InternalTailCallSeqExpr{FunName: n.FunName, Args: newArgs}
		for i := len(n.Args) - 1; i >= 0; i-- {
			body = &seqir.LetSeqExpr{
				Var:      newNames[i],
				BoundExp: Exp(n.Args[i]),
				Body:     body,
			}
		}
		return body

	case *ast.ExternalCallExpr:
		if len(n.Args) == 0 {
			return &seqir.ExternalCallSeqExpr{FunName: n.FunName, Args: nil, IsTail: n.IsTail}
		}
		newNames := make([]string, len(n.Args))
		newArgs := make([]seqir.Imm, len(n.Args))
		for i := range n.Args {
			newNames[i] = fmt.Sprintf("#arg_%d_%d", n.GetTag(), i)
			newArgs[i] = seqir.VarImm{Name: newNames[i]}
		}
		var body seqir.SeqExpr = &seqir.ExternalCallSeqExpr{FunName: n.FunName, Args: newArgs, IsTail: n.IsTail}
		for i := len(n.Args) - 1; i >= 0; i-- {
			body = &seqir.LetSeqExpr{
				Var:      newNames[i],
				BoundExp: Exp(n.Args[i]),
				Body:     body,
			}
		}
		return body

	default:
		panic("seq: cannot sequentialize expression variant")
	}
}

// Decls sequentializes the lifted top-level declarations: each body is
// first re-tagged from a fresh zero-based counter (the declarations
// were rewritten by the lambda lifter and no longer carry meaningful
// tags of their own), then lowered to ANF.
func Decls(decls []*ast.FunDecl) []*seqir.SeqFunDecl {
	out := make([]*seqir.SeqFunDecl, len(decls))
	for i, decl := range decls {
		counter := tagger.NewSupply(0)
		tagged := tagger.Tag(decl.Body, counter)
		out[i] = &seqir.SeqFunDecl{
			Name:       decl.Name,
			Parameters: decl.Parameters,
			Body:       Exp(tagged),
		}
	}
	return out
}
