package rpcserver_test

import (
	"context"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/snakelang/snakec/internal/rpcserver"
)

type memCache struct {
	entries map[string]string
}

func newMemCache() *memCache { return &memCache{entries: map[string]string{}} }

func (c *memCache) Lookup(key string) (string, bool, error) {
	asm, ok := c.entries[key]
	return asm, ok, nil
}

func (c *memCache) Store(key, assembly, buildID string) error {
	c.entries[key] = assembly
	return nil
}

func TestServer_CompileValidFixtureSucceeds(t *testing.T) {
	srv := rpcserver.New(nil)
	req := wrapperspb.Bytes([]byte(`{"kind":"prim","op":"+","args":[{"kind":"num","num":1},{"kind":"num","num":2}]}`))
	resp, err := srv.Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if resp.GetValue() == "" {
		t.Fatalf("expected non-empty rendered assembly")
	}
}

func TestServer_CompileMalformedFixtureReturnsInvalidArgument(t *testing.T) {
	srv := rpcserver.New(nil)
	req := wrapperspb.Bytes([]byte(`{not json`))
	_, err := srv.Compile(context.Background(), req)
	if err == nil {
		t.Fatalf("expected an error for a malformed fixture")
	}
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a gRPC status error, got %T", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("expected codes.InvalidArgument, got %v", st.Code())
	}
}

func TestServer_CompileUsesProvidedCache(t *testing.T) {
	c := newMemCache()
	srv := rpcserver.New(c)
	req := wrapperspb.Bytes([]byte(`{"kind":"num","num":1}`))

	if _, err := srv.Compile(context.Background(), req); err != nil {
		t.Fatalf("first compile: %s", err)
	}
	if len(c.entries) != 1 {
		t.Fatalf("expected the compile to populate the cache, got %d entries", len(c.entries))
	}

	resp, err := srv.Compile(context.Background(), req)
	if err != nil {
		t.Fatalf("second compile: %s", err)
	}
	if resp.GetValue() == "" {
		t.Fatalf("expected a cached result to still render assembly text")
	}
}

func TestServiceDesc_NamesTheCompileMethod(t *testing.T) {
	if rpcserver.ServiceDesc.ServiceName != "snakec.Compiler" {
		t.Fatalf("unexpected service name %q", rpcserver.ServiceDesc.ServiceName)
	}
	if len(rpcserver.ServiceDesc.Methods) != 1 || rpcserver.ServiceDesc.Methods[0].MethodName != "Compile" {
		t.Fatalf("unexpected methods %+v", rpcserver.ServiceDesc.Methods)
	}
}
