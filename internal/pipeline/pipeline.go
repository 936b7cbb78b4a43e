// Package pipeline threads a program through the compiler's fixed
// sequence of stages (check, uniquify, lift, sequentialize, codegen),
// collecting the artifacts each stage produces on a shared Context;
// rendering the result is left to internal/backend. Unlike a long-running language-server pipeline that keeps
// going after an error to gather every available diagnostic, this
// compiler aborts at the first failing stage: spec behavior is "the
// first error encountered aborts compilation; no partial output is
// emitted."
package pipeline

import (
	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/checker"
	"github.com/snakelang/snakec/internal/codegen"
	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/internal/lift"
	"github.com/snakelang/snakec/internal/seq"
	"github.com/snakelang/snakec/internal/seqir"
	"github.com/snakelang/snakec/internal/tagger"
)

// Context carries the evolving compilation state from stage to stage.
type Context struct {
	Source string
	Prog   ast.Expr

	Err diagnostics.CompileError

	Uniquified ast.Expr
	Lifted     []*ast.FunDecl
	FunToEnv   map[string][]string

	SeqProgram *codegen.Program

	FunsInstrs []codegen.Instr
	MainInstrs []codegen.Instr
}

// NewContext seeds a pipeline run from a parsed program.
func NewContext(source string, prog ast.Expr) *Context {
	return &Context{Source: source, Prog: prog}
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs an ordered list of stages, stopping as soon as one of
// them records an error.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Run(ctx *Context) (out *Context) {
	defer func() {
		if r := recover(); r != nil {
			ctx.Err = diagnostics.NewInternalError("pipeline: compiler invariant violated", r)
			out = ctx
		}
	}()
	for _, stage := range p.stages {
		if ctx.Err != nil {
			return ctx
		}
		ctx = stage.Process(ctx)
	}
	return ctx
}

// Standard returns the fixed five-stage pipeline spec.md describes.
func Standard() *Pipeline {
	return New(
		CheckStage{},
		UniquifyStage{},
		LiftStage{},
		SeqStage{},
		CodegenStage{},
	)
}

type CheckStage struct{}

func (CheckStage) Process(ctx *Context) *Context {
	if err := checker.Check(ctx.Prog); err != nil {
		ctx.Err = err
	}
	return ctx
}

type UniquifyStage struct{}

func (UniquifyStage) Process(ctx *Context) *Context {
	ctx.Uniquified = tagger.Uniquify(ctx.Prog, tagger.NewSupply(0))
	return ctx
}

type LiftStage struct{}

func (LiftStage) Process(ctx *Context) *Context {
	lifted, body, funToEnv := lift.Lift(ctx.Uniquified)
	ctx.Lifted = lifted
	ctx.Uniquified = body
	ctx.FunToEnv = funToEnv
	return ctx
}

type SeqStage struct{}

func (SeqStage) Process(ctx *Context) *Context {
	funs := seq.Decls(ctx.Lifted)
	counter := tagger.NewSupply(0)
	tagged := tagger.Tag(ctx.Uniquified, counter)
	main := seq.Exp(tagged)
	ctx.SeqProgram = &codegen.Program{Funs: funs, Main: main}
	return ctx
}

type CodegenStage struct{}

func (CodegenStage) Process(ctx *Context) *Context {
	funsInstrs, mainInstrs := codegen.CompileToInstrs(ctx.SeqProgram, ctx.FunToEnv)
	ctx.FunsInstrs = funsInstrs
	ctx.MainInstrs = mainInstrs
	return ctx
}

// MainBody exposes the sequentialized main expression for tooling
// that wants to inspect a program's ANF directly instead of its
// emitted assembly.
func (ctx *Context) MainBody() seqir.SeqExpr {
	if ctx.SeqProgram == nil {
		return nil
	}
	return ctx.SeqProgram.Main
}
