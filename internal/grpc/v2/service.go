package v2

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName полное имя gRPC-сервиса.
const ServiceName = "research.v2.Researcher"

const (
	methodResearch = "/" + ServiceName + "/Research"
	methodHealth   = "/" + ServiceName + "/Health"
)

// ResearcherServer реализует research.v2.Researcher.
// Запросы и ответы передаются как google.protobuf.Struct.
type ResearcherServer interface {
	Research(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Health(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// ResearcherServiceDesc описывает сервис для grpc.Server.RegisterService.
var ResearcherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResearcherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Research", Handler: researchHandler},
		{MethodName: "Health", Handler: healthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "research/v2/researcher.proto",
}

// RegisterResearcherServer регистрирует srv на s.
func RegisterResearcherServer(s grpc.ServiceRegistrar, srv ResearcherServer) {
	s.RegisterService(&ResearcherServiceDesc, srv)
}

func researchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResearcherServer).Research(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodResearch}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResearcherServer).Research(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func healthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResearcherServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodHealth}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResearcherServer).Health(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ResearcherClient вызывает research.v2.Researcher.
type ResearcherClient struct {
	cc grpc.ClientConnInterface
}

func NewResearcherClient(cc grpc.ClientConnInterface) *ResearcherClient {
	return &ResearcherClient{cc: cc}
}

func (c *ResearcherClient) Research(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodResearch, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ResearcherClient) Health(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodHealth, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
