package tgatev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	GateService_AuthorizeTransfer_FullMethodName = "/tgate.v1.GateService/AuthorizeTransfer"
)

// GateServiceServer is the server API for tgate.v1.GateService.
type GateServiceServer interface {
	AuthorizeTransfer(context.Context, *AuthorizeTransferRequest) (*AuthorizeTransferResponse, error)
}

// UnimplementedGateServiceServer returns Unimplemented for every method.
type UnimplementedGateServiceServer struct{}

func (UnimplementedGateServiceServer) AuthorizeTransfer(context.Context, *AuthorizeTransferRequest) (*AuthorizeTransferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AuthorizeTransfer not implemented")
}

func RegisterGateServiceServer(s grpc.ServiceRegistrar, srv GateServiceServer) {
	s.RegisterService(&GateService_ServiceDesc, srv)
}

func _GateService_AuthorizeTransfer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AuthorizeTransferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GateServiceServer).AuthorizeTransfer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GateService_AuthorizeTransfer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GateServiceServer).AuthorizeTransfer(ctx, req.(*AuthorizeTransferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// GateService_ServiceDesc describes tgate.v1.GateService for grpc.Server.RegisterService.
var GateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tgate.v1.GateService",
	HandlerType: (*GateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AuthorizeTransfer", Handler: _GateService_AuthorizeTransfer_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tgate/v1/gate.json",
}

// GateServiceClient is the client API for tgate.v1.GateService.
type GateServiceClient interface {
	AuthorizeTransfer(ctx context.Context, in *AuthorizeTransferRequest, opts ...grpc.CallOption) (*AuthorizeTransferResponse, error)
}

type gateServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewGateServiceClient(cc grpc.ClientConnInterface) GateServiceClient {
	return &gateServiceClient{cc}
}

func (c *gateServiceClient) AuthorizeTransfer(ctx context.Context, in *AuthorizeTransferRequest, opts ...grpc.CallOption) (*AuthorizeTransferResponse, error) {
	out := new(AuthorizeTransferResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, GateService_AuthorizeTransfer_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
