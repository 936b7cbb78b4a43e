// Package rpcserver exposes the compiler as a single-method gRPC
// service: send a JSON fixture's bytes, receive the rendered NASM
// translation unit or a gRPC status built from the compiler's
// diagnostic. It uses the well-known wrapperspb message types as the
// request/response envelope instead of a hand-generated .proto stub,
// since there is no protoc step in this build.
package rpcserver

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/snakelang/snakec/pkg/snakec"
)

// Cache is the subset of internal/cache.Cache the server needs;
// accepting an interface here keeps rpcserver independent of the
// concrete cache backend (and trivially testable with a stub).
type Cache interface {
	Lookup(key string) (assembly string, ok bool, err error)
	Store(key, assembly, buildID string) error
}

// Server compiles incoming fixtures using pkg/snakec.
type Server struct {
	compiler *snakec.Compiler
}

// New returns a Server. cache may be nil to disable caching.
func New(cache Cache) *Server {
	var c snakec.Cache
	if cache != nil {
		c = cache
	}
	return &Server{compiler: snakec.New(c)}
}

// Compile decodes req as a JSON-serialized ast.Expr fixture, runs it
// through the pipeline, and returns the NASM text.
func (s *Server) Compile(ctx context.Context, req *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	result, err := s.compiler.CompileFixture(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return wrapperspb.String(result.Assembly), nil
}

func compileHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	req := new(wrapperspb.BytesValue)
	if err := dec(req); err != nil {
		return nil, err
	}
	s := srv.(*Server)
	if interceptor == nil {
		return s.Compile(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/snakec.Compiler/Compile"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.Compile(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, req, info, handler)
}

// ServiceDesc is the hand-authored equivalent of what
// protoc-gen-go-grpc would otherwise generate from a Compiler service
// with one Compile RPC.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "snakec.Compiler",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compile", Handler: compileHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "snakec/compiler.proto",
}

// Serve registers the compiler service on a fresh grpc.Server and
// blocks serving lis until it errors or is closed.
func Serve(lis net.Listener, cache Cache) error {
	srv := grpc.NewServer()
	srv.RegisterService(&ServiceDesc, New(cache))
	if err := srv.Serve(lis); err != nil {
		return fmt.Errorf("rpcserver: serve: %w", err)
	}
	return nil
}
