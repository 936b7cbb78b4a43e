package snakec

import (
	"github.com/snakelang/snakec/internal/ast"
	"github.com/snakelang/snakec/internal/backend"
	"github.com/snakelang/snakec/internal/buildinfo"
	"github.com/snakelang/snakec/internal/cache"
	"github.com/snakelang/snakec/internal/diagnostics"
	"github.com/snakelang/snakec/internal/pipeline"
	"github.com/snakelang/snakec/internal/tagger"
)

// Result is a completed compilation: the rendered NASM text, a build
// ID, and whether it was served from cache. BuildID is the ID recorded
// with the cache entry; it is generated separately from the one the
// backend stamps into the assembly's build comment, so the two differ.
// On a cache hit BuildID is empty.
type Result struct {
	Assembly string
	BuildID  string
	Cached   bool
}

// Cache is the subset of internal/cache.Cache the facade needs.
type Cache interface {
	Lookup(key string) (assembly string, ok bool, err error)
	Store(key, assembly, buildID string) error
}

// Compiler runs the fixed pipeline over a decoded program and renders
// it with a Backend, optionally consulting a Cache first.
type Compiler struct {
	pipeline *pipeline.Pipeline
	backend  backend.Backend
	cache    Cache
}

// New returns a Compiler using the standard pipeline and the NASM
// text backend. cache may be left nil to disable caching.
func New(cache Cache) *Compiler {
	return &Compiler{
		pipeline: pipeline.Standard(),
		backend:  backend.TextBackend{},
		cache:    cache,
	}
}

// CacheKey fingerprints a program the way internal/cache keys
// artifacts: by the uniquified surface AST, so two fixtures that
// differ only in their original variable spelling share a cache
// entry (the same program).
func CacheKey(prog ast.Expr) string {
	uniquified := tagger.Uniquify(prog, tagger.NewSupply(0))
	return cache.Key(ast.Dump(uniquified))
}

// Compile runs prog through the pipeline, rendering NASM text. On a
// cache hit it skips the pipeline entirely.
func (c *Compiler) Compile(prog ast.Expr) (Result, diagnostics.CompileError) {
	key := CacheKey(prog)
	if c.cache != nil {
		if asm, ok, err := c.cache.Lookup(key); err == nil && ok {
			return Result{Assembly: asm, Cached: true}, nil
		}
	}

	ctx := c.pipeline.Run(pipeline.NewContext("", prog))
	asm, err := c.backend.Render(ctx)
	if err != nil {
		ce, ok := err.(diagnostics.CompileError)
		if !ok {
			ce = diagnostics.NewInternalError(err.Error(), nil)
		}
		return Result{}, ce
	}

	id := buildinfo.NewBuildID()
	if c.cache != nil {
		_ = c.cache.Store(key, asm, id)
	}
	return Result{Assembly: asm, BuildID: id}, nil
}

// CompileFixture decodes a JSON fixture and compiles it in one step,
// the shape both cmd/snakec and internal/rpcserver use.
func (c *Compiler) CompileFixture(data []byte) (Result, error) {
	prog, err := DecodeFixture(data)
	if err != nil {
		return Result{}, err
	}
	res, cerr := c.Compile(prog)
	if cerr != nil {
		return Result{}, cerr
	}
	return res, nil
}
