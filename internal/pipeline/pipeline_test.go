package pipeline_test

import (
	"testing"

	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/internal/pipeline"
	"github.com/snakelang/snakec/internal/token"
	"github.com/snakelang/snakec/pkg/snakec"
)

func decode(t *testing.T, fixture string) *pipeline.Context {
	t.Helper()
	prog, err := snakec.DecodeFixture([]byte(fixture))
	if err != nil {
		t.Fatalf("decoding fixture: %s", err)
	}
	return pipeline.NewContext("", prog)
}

func TestPipeline_StandardRunSucceedsOnValidProgram(t *testing.T) {
	ctx := decode(t, `{"kind":"prim","op":"+","args":[{"kind":"num","num":1},{"kind":"num","num":2}]}`)
	ctx = pipeline.Standard().Run(ctx)
	if ctx.Err != nil {
		t.Fatalf("unexpected pipeline error: %s", ctx.Err)
	}
	if ctx.MainInstrs == nil {
		t.Fatalf("expected MainInstrs to be populated")
	}
	if ctx.MainBody() == nil {
		t.Fatalf("expected MainBody() to expose the sequentialized main expression")
	}
}

// stubStage lets the test observe whether a later stage ran.
type stubStage struct {
	ran *bool
}

func (s stubStage) Process(ctx *pipeline.Context) *pipeline.Context {
	*s.ran = true
	return ctx
}

func TestPipeline_AbortsAtFirstError(t *testing.T) {
	var secondRan bool
	errStage := failingStage{}
	p := pipeline.New(errStage, stubStage{ran: &secondRan})

	ctx := decode(t, `{"kind":"num","num":1}`)
	ctx = p.Run(ctx)

	if ctx.Err == nil {
		t.Fatalf("expected the pipeline to record an error")
	}
	if secondRan {
		t.Fatalf("expected the pipeline to stop before running the stage after the failing one")
	}
}

type failingStage struct{}

func (failingStage) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.Err = diagnostics.NewUnboundVariable("boom", token.Synthetic)
	return ctx
}

func TestPipeline_StandardRunStopsAtCheck(t *testing.T) {
	// An unbound variable must fail at CheckStage, leaving every later
	// artifact (Lifted, SeqProgram, instructions) untouched.
	ctx := decode(t, `{"kind":"var","name":"nope"}`)
	ctx = pipeline.Standard().Run(ctx)

	if ctx.Err == nil {
		t.Fatalf("expected a check error")
	}
	if _, ok := ctx.Err.(*diagnostics.UnboundVariable); !ok {
		t.Fatalf("expected *UnboundVariable, got %T", ctx.Err)
	}
	if ctx.SeqProgram != nil {
		t.Fatalf("expected no sequentialized program after a check failure")
	}
	if ctx.MainInstrs != nil {
		t.Fatalf("expected no instructions after a check failure")
	}
}

func TestContext_MainBodyNilBeforeSeqStage(t *testing.T) {
	ctx := decode(t, `{"kind":"num","num":1}`)
	if ctx.MainBody() != nil {
		t.Fatalf("expected MainBody() to be nil before the pipeline has run")
	}
}
