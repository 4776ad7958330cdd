package tgatev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RecoveryService_InitializeRecovery_FullMethodName = "/tgate.v1.RecoveryService/InitializeRecovery"
	RecoveryService_RecoverAccount_FullMethodName     = "/tgate.v1.RecoveryService/RecoverAccount"
)

// RecoveryServiceServer is the server API for tgate.v1.RecoveryService.
type RecoveryServiceServer interface {
	InitializeRecovery(context.Context, *InitializeRecoveryRequest) (*InitializeRecoveryResponse, error)
	RecoverAccount(context.Context, *RecoverAccountRequest) (*RecoverAccountResponse, error)
}

// UnimplementedRecoveryServiceServer returns Unimplemented for every method.
type UnimplementedRecoveryServiceServer struct{}

func (UnimplementedRecoveryServiceServer) InitializeRecovery(context.Context, *InitializeRecoveryRequest) (*InitializeRecoveryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method InitializeRecovery not implemented")
}

func (UnimplementedRecoveryServiceServer) RecoverAccount(context.Context, *RecoverAccountRequest) (*RecoverAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecoverAccount not implemented")
}

func RegisterRecoveryServiceServer(s grpc.ServiceRegistrar, srv RecoveryServiceServer) {
	s.RegisterService(&RecoveryService_ServiceDesc, srv)
}

func _RecoveryService_InitializeRecovery_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InitializeRecoveryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecoveryServiceServer).InitializeRecovery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecoveryService_InitializeRecovery_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecoveryServiceServer).InitializeRecovery(ctx, req.(*InitializeRecoveryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RecoveryService_RecoverAccount_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RecoverAccountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecoveryServiceServer).RecoverAccount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RecoveryService_RecoverAccount_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecoveryServiceServer).RecoverAccount(ctx, req.(*RecoverAccountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RecoveryService_ServiceDesc describes tgate.v1.RecoveryService for grpc.Server.RegisterService.
var RecoveryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tgate.v1.RecoveryService",
	HandlerType: (*RecoveryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "InitializeRecovery", Handler: _RecoveryService_InitializeRecovery_Handler},
		{MethodName: "RecoverAccount", Handler: _RecoveryService_RecoverAccount_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tgate/v1/recovery.json",
}

// RecoveryServiceClient is the client API for tgate.v1.RecoveryService.
type RecoveryServiceClient interface {
	InitializeRecovery(ctx context.Context, in *InitializeRecoveryRequest, opts ...grpc.CallOption) (*InitializeRecoveryResponse, error)
	RecoverAccount(ctx context.Context, in *RecoverAccountRequest, opts ...grpc.CallOption) (*RecoverAccountResponse, error)
}

type recoveryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRecoveryServiceClient(cc grpc.ClientConnInterface) RecoveryServiceClient {
	return &recoveryServiceClient{cc}
}

func (c *recoveryServiceClient) InitializeRecovery(ctx context.Context, in *InitializeRecoveryRequest, opts ...grpc.CallOption) (*InitializeRecoveryResponse, error) {
	out := new(InitializeRecoveryResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, RecoveryService_InitializeRecovery_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *recoveryServiceClient) RecoverAccount(ctx context.Context, in *RecoverAccountRequest, opts ...grpc.CallOption) (*RecoverAccountResponse, error) {
	out := new(RecoverAccountResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, RecoveryService_RecoverAccount_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
