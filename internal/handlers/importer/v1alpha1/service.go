package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "creatureimport.v1alpha1.ImportService"

// Full method names
const (
	ImportCreatureMethod = "/" + ServiceName + "/ImportCreature"
	PresentNextMethod    = "/" + ServiceName + "/PresentNext"
	RequeryMethod        = "/" + ServiceName + "/Requery"
	DecideMethod         = "/" + ServiceName + "/Decide"
	GetSessionMethod     = "/" + ServiceName + "/GetSession"
)

// ImportServiceServer is the server API for the import service. Requests
// and responses are JSON-shaped structs.
type ImportServiceServer interface {
	ImportCreature(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PresentNext(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Requery(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decide(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterImportServiceServer registers srv on s
func RegisterImportServiceServer(s grpc.ServiceRegistrar, srv ImportServiceServer) {
	s.RegisterService(&ImportServiceDesc, srv)
}

type unaryMethod func(ImportServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ImportServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ImportServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ImportServiceDesc describes the import service for grpc.Server
var ImportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ImportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ImportCreature", Handler: unaryHandler(ImportCreatureMethod, ImportServiceServer.ImportCreature)},
		{MethodName: "PresentNext", Handler: unaryHandler(PresentNextMethod, ImportServiceServer.PresentNext)},
		{MethodName: "Requery", Handler: unaryHandler(RequeryMethod, ImportServiceServer.Requery)},
		{MethodName: "Decide", Handler: unaryHandler(DecideMethod, ImportServiceServer.Decide)},
		{MethodName: "GetSession", Handler: unaryHandler(GetSessionMethod, ImportServiceServer.GetSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "creatureimport/v1alpha1/import_service",
}

// ImportServiceClient is the client API for the import service
type ImportServiceClient interface {
	ImportCreature(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PresentNext(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Requery(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Decide(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type importServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewImportServiceClient creates a client on cc
func NewImportServiceClient(cc grpc.ClientConnInterface) ImportServiceClient {
	return &importServiceClient{cc: cc}
}

func (c *importServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *importServiceClient) ImportCreature(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ImportCreatureMethod, in, opts)
}

func (c *importServiceClient) PresentNext(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PresentNextMethod, in, opts)
}

func (c *importServiceClient) Requery(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, RequeryMethod, in, opts)
}

func (c *importServiceClient) Decide(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, DecideMethod, in, opts)
}

func (c *importServiceClient) GetSession(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetSessionMethod, in, opts)
}
