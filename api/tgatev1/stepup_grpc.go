package tgatev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	StepUpService_InitializeStepUp_FullMethodName   = "/tgate.v1.StepUpService/InitializeStepUp"
	StepUpService_ApproveTransaction_FullMethodName = "/tgate.v1.StepUpService/ApproveTransaction"
	StepUpService_GetApproval_FullMethodName        = "/tgate.v1.StepUpService/GetApproval"
)

// StepUpServiceServer is the server API for tgate.v1.StepUpService.
type StepUpServiceServer interface {
	InitializeStepUp(context.Context, *InitializeStepUpRequest) (*StepUpParameters, error)
	ApproveTransaction(context.Context, *ApproveTransactionRequest) (*Approval, error)
	GetApproval(context.Context, *GetApprovalRequest) (*Approval, error)
}

// UnimplementedStepUpServiceServer returns Unimplemented for every method.
type UnimplementedStepUpServiceServer struct{}

func (UnimplementedStepUpServiceServer) InitializeStepUp(context.Context, *InitializeStepUpRequest) (*StepUpParameters, error) {
	return nil, status.Error(codes.Unimplemented, "method InitializeStepUp not implemented")
}

func (UnimplementedStepUpServiceServer) ApproveTransaction(context.Context, *ApproveTransactionRequest) (*Approval, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveTransaction not implemented")
}

func (UnimplementedStepUpServiceServer) GetApproval(context.Context, *GetApprovalRequest) (*Approval, error) {
	return nil, status.Error(codes.Unimplemented, "method GetApproval not implemented")
}

func RegisterStepUpServiceServer(s grpc.ServiceRegistrar, srv StepUpServiceServer) {
	s.RegisterService(&StepUpService_ServiceDesc, srv)
}

func _StepUpService_InitializeStepUp_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InitializeStepUpRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StepUpServiceServer).InitializeStepUp(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StepUpService_InitializeStepUp_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StepUpServiceServer).InitializeStepUp(ctx, req.(*InitializeStepUpRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StepUpService_ApproveTransaction_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ApproveTransactionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StepUpServiceServer).ApproveTransaction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StepUpService_ApproveTransaction_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StepUpServiceServer).ApproveTransaction(ctx, req.(*ApproveTransactionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StepUpService_GetApproval_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetApprovalRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StepUpServiceServer).GetApproval(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StepUpService_GetApproval_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StepUpServiceServer).GetApproval(ctx, req.(*GetApprovalRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// StepUpService_ServiceDesc describes tgate.v1.StepUpService for grpc.Server.RegisterService.
var StepUpService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tgate.v1.StepUpService",
	HandlerType: (*StepUpServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "InitializeStepUp", Handler: _StepUpService_InitializeStepUp_Handler},
		{MethodName: "ApproveTransaction", Handler: _StepUpService_ApproveTransaction_Handler},
		{MethodName: "GetApproval", Handler: _StepUpService_GetApproval_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tgate/v1/stepup.json",
}

// StepUpServiceClient is the client API for tgate.v1.StepUpService.
type StepUpServiceClient interface {
	InitializeStepUp(ctx context.Context, in *InitializeStepUpRequest, opts ...grpc.CallOption) (*StepUpParameters, error)
	ApproveTransaction(ctx context.Context, in *ApproveTransactionRequest, opts ...grpc.CallOption) (*Approval, error)
	GetApproval(ctx context.Context, in *GetApprovalRequest, opts ...grpc.CallOption) (*Approval, error)
}

type stepUpServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStepUpServiceClient(cc grpc.ClientConnInterface) StepUpServiceClient {
	return &stepUpServiceClient{cc}
}

func (c *stepUpServiceClient) InitializeStepUp(ctx context.Context, in *InitializeStepUpRequest, opts ...grpc.CallOption) (*StepUpParameters, error) {
	out := new(StepUpParameters)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, StepUpService_InitializeStepUp_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stepUpServiceClient) ApproveTransaction(ctx context.Context, in *ApproveTransactionRequest, opts ...grpc.CallOption) (*Approval, error) {
	out := new(Approval)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, StepUpService_ApproveTransaction_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *stepUpServiceClient) GetApproval(ctx context.Context, in *GetApprovalRequest, opts ...grpc.CallOption) (*Approval, error) {
	out := new(Approval)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, StepUpService_GetApproval_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
