package tgatev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	IdentityService_IssueIdentity_FullMethodName = "/tgate.v1.IdentityService/IssueIdentity"
	IdentityService_AddIssuer_FullMethodName     = "/tgate.v1.IdentityService/AddIssuer"
	IdentityService_GetIdentity_FullMethodName   = "/tgate.v1.IdentityService/GetIdentity"
)

// IdentityServiceServer is the server API for tgate.v1.IdentityService.
type IdentityServiceServer interface {
	IssueIdentity(context.Context, *IssueIdentityRequest) (*IdentityResponse, error)
	AddIssuer(context.Context, *AddIssuerRequest) (*IdentityResponse, error)
	GetIdentity(context.Context, *GetIdentityRequest) (*IdentityResponse, error)
}

// UnimplementedIdentityServiceServer returns Unimplemented for every method.
type UnimplementedIdentityServiceServer struct{}

func (UnimplementedIdentityServiceServer) IssueIdentity(context.Context, *IssueIdentityRequest) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method IssueIdentity not implemented")
}

func (UnimplementedIdentityServiceServer) AddIssuer(context.Context, *AddIssuerRequest) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddIssuer not implemented")
}

func (UnimplementedIdentityServiceServer) GetIdentity(context.Context, *GetIdentityRequest) (*IdentityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetIdentity not implemented")
}

func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&IdentityService_ServiceDesc, srv)
}

func _IdentityService_IssueIdentity_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(IssueIdentityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).IssueIdentity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityService_IssueIdentity_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).IssueIdentity(ctx, req.(*IssueIdentityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _IdentityService_AddIssuer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddIssuerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).AddIssuer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityService_AddIssuer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).AddIssuer(ctx, req.(*AddIssuerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _IdentityService_GetIdentity_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetIdentityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServiceServer).GetIdentity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityService_GetIdentity_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServiceServer).GetIdentity(ctx, req.(*GetIdentityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// IdentityService_ServiceDesc describes tgate.v1.IdentityService for grpc.Server.RegisterService.
var IdentityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tgate.v1.IdentityService",
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "IssueIdentity", Handler: _IdentityService_IssueIdentity_Handler},
		{MethodName: "AddIssuer", Handler: _IdentityService_AddIssuer_Handler},
		{MethodName: "GetIdentity", Handler: _IdentityService_GetIdentity_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tgate/v1/identity.json",
}

// IdentityServiceClient is the client API for tgate.v1.IdentityService.
type IdentityServiceClient interface {
	IssueIdentity(ctx context.Context, in *IssueIdentityRequest, opts ...grpc.CallOption) (*IdentityResponse, error)
	AddIssuer(ctx context.Context, in *AddIssuerRequest, opts ...grpc.CallOption) (*IdentityResponse, error)
	GetIdentity(ctx context.Context, in *GetIdentityRequest, opts ...grpc.CallOption) (*IdentityResponse, error)
}

type identityServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityServiceClient(cc grpc.ClientConnInterface) IdentityServiceClient {
	return &identityServiceClient{cc}
}

func (c *identityServiceClient) IssueIdentity(ctx context.Context, in *IssueIdentityRequest, opts ...grpc.CallOption) (*IdentityResponse, error) {
	out := new(IdentityResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, IdentityService_IssueIdentity_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityServiceClient) AddIssuer(ctx context.Context, in *AddIssuerRequest, opts ...grpc.CallOption) (*IdentityResponse, error) {
	out := new(IdentityResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, IdentityService_AddIssuer_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *identityServiceClient) GetIdentity(ctx context.Context, in *GetIdentityRequest, opts ...grpc.CallOption) (*IdentityResponse, error) {
	out := new(IdentityResponse)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, IdentityService_GetIdentity_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
