package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name. Messages are
// google.protobuf.Struct values keyed like the JSON invoice record.
const ServiceName = "einvoice.v1.InvoiceService"

const (
	ExtractMethod      = "/" + ServiceName + "/Extract"
	SerializeMethod    = "/" + ServiceName + "/Serialize"
	RequirementsMethod = "/" + ServiceName + "/Requirements"
	GetJobMethod       = "/" + ServiceName + "/GetJob"
	ListJobsMethod     = "/" + ServiceName + "/ListJobs"
)

// InvoiceServiceServer is the server API for the invoice service.
type InvoiceServiceServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Serialize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Requirements(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(InvoiceServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InvoiceServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InvoiceServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// InvoiceServiceDesc describes the service for grpc.Server.RegisterService.
var InvoiceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InvoiceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unary(ExtractMethod, InvoiceServiceServer.Extract)},
		{MethodName: "Serialize", Handler: unary(SerializeMethod, InvoiceServiceServer.Serialize)},
		{MethodName: "Requirements", Handler: unary(RequirementsMethod, InvoiceServiceServer.Requirements)},
		{MethodName: "GetJob", Handler: unary(GetJobMethod, InvoiceServiceServer.GetJob)},
		{MethodName: "ListJobs", Handler: unary(ListJobsMethod, InvoiceServiceServer.ListJobs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "einvoice/v1/invoice.proto",
}

func RegisterInvoiceServiceServer(s grpc.ServiceRegistrar, srv InvoiceServiceServer) {
	s.RegisterService(&InvoiceServiceDesc, srv)
}

// InvoiceClient is a thin client for the invoice service.
type InvoiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInvoiceClient(cc grpc.ClientConnInterface) *InvoiceClient {
	return &InvoiceClient{cc: cc}
}

func (c *InvoiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
