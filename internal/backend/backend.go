// Package backend turns a completed pipeline run into an output
// artifact. It exists as an interface (mirroring the teacher's own
// tree-walk/VM backend split) with two implementations: TextBackend,
// which renders stamped NASM text, and InstrBackend, which exposes the
// structured instruction streams.
package backend

import (
	"github.com/snakelang/snakec/internal/asmprint"
	"github.com/snakelang/snakec/internal/buildinfo"
	"github.com/snakelang/snakec/internal/codegen"
	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/internal/pipeline"
)

// Backend renders a finished pipeline.Context into a textual artifact.
type Backend interface {
	Render(ctx *pipeline.Context) (string, error)
	Name() string
}

// TextBackend renders the full NASM translation unit described by
// spec.md §6, stamped with a fresh build comment.
type TextBackend struct{}

func (TextBackend) Name() string { return "nasm" }

func (TextBackend) Render(ctx *pipeline.Context) (string, error) {
	if ctx.Err != nil {
		return "", ctx.Err
	}
	if ctx.FunsInstrs == nil && ctx.MainInstrs == nil {
		return "", diagnostics.NewInternalError("backend: pipeline context has no compiled instructions", nil)
	}
	id := buildinfo.NewBuildID()
	return buildinfo.Comment(id) + asmprint.Render(ctx.FunsInstrs, ctx.MainInstrs), nil
}

// InstrBackend stops at the structured-instruction stage instead of
// rendering text, so tests can assert on codegen's decisions (which
// branch, which error code, which tag bits) without parsing NASM text
// back out of a string.
type InstrBackend struct{}

func (InstrBackend) Name() string { return "instr" }

// Instrs returns the raw per-function and main instruction streams, or
// the pipeline's recorded error.
func (InstrBackend) Instrs(ctx *pipeline.Context) (funsInstrs, mainInstrs []codegen.Instr, err error) {
	if ctx.Err != nil {
		return nil, nil, ctx.Err
	}
	if ctx.FunsInstrs == nil && ctx.MainInstrs == nil {
		return nil, nil, diagnostics.NewInternalError("backend: pipeline context has no compiled instructions", nil)
	}
	return ctx.FunsInstrs, ctx.MainInstrs, nil
}

// Render satisfies Backend by rendering instructions without a build
// comment, so InstrBackend can also be used wherever a plain Backend
// is expected.
func (InstrBackend) Render(ctx *pipeline.Context) (string, error) {
	funsInstrs, mainInstrs, err := InstrBackend{}.Instrs(ctx)
	if err != nil {
		return "", err
	}
	return asmprint.Render(funsInstrs, mainInstrs), nil
}
