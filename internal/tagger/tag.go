// Package tagger implements the two tree walks that assign dense tags
// (used for label generation) and, in uniquify mode, rewrite binder
// names to globally unique strings. Both are ports of tag_exp/tag_seq/
// tag_funs: a single monotonic Supply is threaded through the whole
// walk, and every node's tag is read *after* its children have run so
// parents always carry a larger tag than anything beneath them.
package tagger

import (
	"fmt"

	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/seqir"
)

// funMap is the name-rewrite table used only by the uniquify pass. It
// is a single mutable map shared across the whole walk (not cloned per
// branch) except where FunDefs explicitly scopes parameter renames to
// one decl's body.
type funMap map[string]string

func (m funMap) clone() funMap {
	out := make(funMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Uniquify renames every binder to a fresh globally-unique name and
// assigns a tag to every node, in one pass.
func Uniquify(e ast.Expr, counter *Supply) ast.Expr {
	return tagExp(e, counter, funMap{}, true)
}

// Tag re-tags a tree with no renaming (used for the post-lift pass
// over an Exp<()> tree that no longer needs uniquification).
func Tag(e ast.Expr, counter *Supply) ast.Expr {
	return tagExp(e, counter, funMap{}, false)
}

func tagExp(e ast.Expr, counter *Supply, fm funMap, isUniquify bool) ast.Expr {
	switch n := e.(type) {
	case *ast.NumExpr:
		tag := counter.Next()
		return &ast.NumExpr{Value: n.Value, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.BoolExpr:
		tag := counter.Next()
		return &ast.BoolExpr{Value: n.Value, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.FloatExpr:
		tag := counter.Next()
		return &ast.FloatExpr{Value: n.Value, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.VarExpr:
		name := n.Name
		if isUniquify {
			if v, ok := fm[n.Name]; ok {
				name = v
			}
		}
		tag := counter.Next()
		return &ast.VarExpr{Name: name, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.PrimExpr:
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = tagExp(a, counter, fm, isUniquify)
		}
		tag := counter.Next()
		return &ast.PrimExpr{Op: n.Op, Args: newArgs, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.LetExpr:
		newBindings := make([]ast.Binding, len(n.Bindings))
		for i, b := range n.Bindings {
			newExp := tagExp(b.Value, counter, fm, isUniquify)
			newName := fmt.Sprintf("%s_%d", b.Name, counter.Peek())
			fm[b.Name] = newName
			name := b.Name
			if isUniquify {
				name = newName
			}
			newBindings[i] = ast.Binding{Name: name, Value: newExp}
		}
		newBody := tagExp(n.Body, counter, fm, isUniquify)
		tag := counter.Next()
		return &ast.LetExpr{Bindings: newBindings, Body: newBody, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.IfExpr:
		newCond := tagExp(n.Cond, counter, fm, isUniquify)
		newThen := tagExp(n.Then, counter, fm, isUniquify)
		newElse := tagExp(n.Else, counter, fm, isUniquify)
		tag := counter.Next()
		return &ast.IfExpr{Cond: newCond, Then: newThen, Else: newElse, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.FunDefsExpr:
		newNames := make([]string, len(n.Decls))
		for i, decl := range n.Decls {
			newName := fmt.Sprintf("fun_%s_%d", decl.Name, counter.Peek())
			counter.Next()
			newNames[i] = newName
			fm[decl.Name] = newName
		}
		newDecls := make([]*ast.FunDecl, len(n.Decls))
		for i, decl := range n.Decls {
			declFm := fm.clone()
			newParams := make([]string, len(decl.Parameters))
			for j, p := range decl.Parameters {
				newP := fmt.Sprintf("%s_%d", p, counter.Peek())
				counter.Next()
				declFm[p] = newP
				newParams[j] = newP
			}
			name := decl.Name
			params := decl.Parameters
			if isUniquify {
				name = newNames[i]
				params = newParams
			}
			newBody := tagExp(decl.Body, counter, declFm, isUniquify)
			tag := counter.Next()
			newDecls[i] = &ast.FunDecl{Name: name, Parameters: params, Body: newBody, Ann: ast.Ann{Sp: decl.Span(), Tag: tag}}
		}
		newBody := tagExp(n.Body, counter, fm, isUniquify)
		tag := counter.Next()
		return &ast.FunDefsExpr{Decls: newDecls, Body: newBody, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.CallExpr:
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = tagExp(a, counter, fm, isUniquify)
		}
		tag := counter.Next()
		name := n.FunName
		if isUniquify {
			v, ok := fm[n.FunName]
			if !ok {
				panic("tagger: uniquify could not resolve call target " + n.FunName)
			}
			name = v
		}
		return &ast.CallExpr{FunName: name, Args: newArgs, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.InternalTailCallExpr:
		if isUniquify {
			panic("tagger: uniquify pass cannot encounter InternalTailCall")
		}
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = tagExp(a, counter, fm, isUniquify)
		}
		tag := counter.Next()
		return &ast.InternalTailCallExpr{FunName: n.FunName, Args: newArgs, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	case *ast.ExternalCallExpr:
		if isUniquify {
			panic("tagger: uniquify pass cannot encounter ExternalCall")
		}
		newArgs := make([]ast.Expr, len(n.Args))
		for i, a := range n.Args {
			newArgs[i] = tagExp(a, counter, fm, isUniquify)
		}
		tag := counter.Next()
		return &ast.ExternalCallExpr{FunName: n.FunName, Args: newArgs, IsTail: n.IsTail, Ann: ast.Ann{Sp: n.Span(), Tag: tag}}

	default:
		panic("tagger: unhandled expression variant")
	}
}

// TagSeq re-tags a SeqExpr tree (post-sequentialization), assigning
// every node a fresh tag with the same post-order discipline as tagExp.
func TagSeq(e seqir.SeqExpr, counter *Supply) seqir.SeqExpr {
	switch n := e.(type) {
	case *seqir.ImmSeqExpr:
		tag := counter.Next()
		return &seqir.ImmSeqExpr{Value: n.Value, Tag: tag}

	case *seqir.PrimSeqExpr:
		tag := counter.Next()
		return &seqir.PrimSeqExpr{Op: n.Op, Args: n.Args, Tag: tag}

	case *seqir.IfSeqExpr:
		newThen := TagSeq(n.Then, counter)
		newElse := TagSeq(n.Else, counter)
		tag := counter.Next()
		return &seqir.IfSeqExpr{Cond: n.Cond, Then: newThen, Else: newElse, Tag: tag}

	case *seqir.LetSeqExpr:
		newBound := TagSeq(n.BoundExp, counter)
		newBody := TagSeq(n.Body, counter)
		tag := counter.Next()
		return &seqir.LetSeqExpr{Var: n.Var, BoundExp: newBound, Body: newBody, Tag: tag}

	case *seqir.FunDefsSeqExpr:
		newDecls := make([]*seqir.SeqFunDecl, len(n.Decls))
		for i, decl := range n.Decls {
			newBody := TagSeq(decl.Body, counter)
			tag := counter.Next()
			newDecls[i] = &seqir.SeqFunDecl{Name: decl.Name, Parameters: decl.Parameters, Body: newBody, Tag: tag}
		}
		newBody := TagSeq(n.Body, counter)
		tag := counter.Next()
		return &seqir.FunDefsSeqExpr{Decls: newDecls, Body: newBody, Tag: tag}

	case *seqir.InternalTailCallSeqExpr:
		tag := counter.Next()
		return &seqir.InternalTailCallSeqExpr{FunName: n.FunName, Args: n.Args, Tag: tag}

	case *seqir.ExternalCallSeqExpr:
		tag := counter.Next()
		return &seqir.ExternalCallSeqExpr{FunName: n.FunName, Args: n.Args, IsTail: n.IsTail, Tag: tag}

	default:
		panic("tagger: unhandled SeqExpr variant")
	}
}

// TagFuns re-tags a list of top-level function declarations.
func TagFuns(funs []*seqir.SeqFunDecl, counter *Supply) []*seqir.SeqFunDecl {
	out := make([]*seqir.SeqFunDecl, len(funs))
	for i, f := range funs {
		newBody := TagSeq(f.Body, counter)
		tag := counter.Next()
		out[i] = &seqir.SeqFunDecl{Name: f.Name, Parameters: f.Parameters, Body: newBody, Tag: tag}
	}
	return out
}
