package codegen

import (
	"fmt"

	"github.com/snakelang/snakec/internal/seqir"
	"github.com/snakelang/snakec/internal/tagger"
)

// SpaceNeeded computes an upper bound on the number of 8-byte stack
// slots an expression's subtree will need beyond its incoming
// environment, so the caller can size one frame large enough for
// every Let-introduced temporary and every nested function's own
// frame.
func SpaceNeeded(e seqir.SeqExpr) int32 {
	switch n := e.(type) {
	case *seqir.LetSeqExpr:
		a := 1 + SpaceNeeded(n.Body)
		b := SpaceNeeded(n.BoundExp)
		if a > b {
			return a
		}
		return b
	case *seqir.IfSeqExpr:
		a := SpaceNeeded(n.Then)
		b := SpaceNeeded(n.Else)
		if a > b {
			return a
		}
		return b
	case *seqir.FunDefsSeqExpr:
		var max int32
		for _, decl := range n.Decls {
			v := SpaceNeeded(decl.Body) + int32(len(decl.Parameters))
			if v > max {
				max = v
			}
		}
		body := SpaceNeeded(n.Body)
		if body > max {
			return body
		}
		return max
	default:
		return 0
	}
}

// Program is the fully-lowered output of the pipeline: the lifted
// top-level function declarations and the sequentialized main body,
// both still carrying pre-final tags that CompileToInstrs re-numbers
// from a fresh counter so labels never collide across funs and main.
type Program struct {
	Funs []*seqir.SeqFunDecl
	Main seqir.SeqExpr
}

// CompileToInstrs re-tags the program from a fresh counter starting at
// 1, computes the single shared frame size for every function and
// main, and emits: one Label+body+Ret per top-level function, a
// funend_0 sentinel, then the main body followed by main's own Ret (the
// caller wraps everything with the fixed preamble/epilogue text).
func CompileToInstrs(prog *Program, funToEnv map[string][]string) (funsInstrs, mainInstrs []Instr) {
	counter := tagger.NewSupply(1)
	funs := tagger.TagFuns(prog.Funs, counter)
	main := tagger.TagSeq(prog.Main, counter)

	var space int32
	for _, fun := range funs {
		v := SpaceNeeded(fun.Body) + int32(len(fun.Parameters))
		if v > space {
			space = v
		}
	}
	if v := SpaceNeeded(main); v > space {
		space = v
	}
	if space%2 == 0 {
		space++
	}

	for _, decl := range funs {
		funsInstrs = append(funsInstrs, Label(decl.Name))
		funsInstrs = append(funsInstrs, CompileWithEnv(decl.Body, decl.Parameters, space, funToEnv)...)
		funsInstrs = append(funsInstrs, Ret())
	}
	funsInstrs = append(funsInstrs, Label(fmt.Sprintf("funend_%d", 0)))

	mainInstrs = CompileWithEnv(main, nil, space, funToEnv)
	mainInstrs = append(mainInstrs, Ret())
	return funsInstrs, mainInstrs
}
