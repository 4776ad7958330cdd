package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/identity/domain"
	"transfer-gate/internal/identity/service"
	"transfer-gate/internal/platform/rbac"
	"transfer-gate/internal/platform/rpcerr"
)

// Server implements IdentityService: issuance, issuer attestations and lookups.
type Server struct {
	tgatev1.UnimplementedIdentityServiceServer
	registry *service.Registry
}

// NewServer returns a new Identity gRPC server. If registry is nil, all RPCs return Unimplemented.
func NewServer(registry *service.Registry) *Server {
	return &Server{registry: registry}
}

// IssueIdentity creates the identity of an asset account. The caller is the issuer.
func (s *Server) IssueIdentity(ctx context.Context, req *tgatev1.IssueIdentityRequest) (*tgatev1.IdentityResponse, error) {
	if s.registry == nil {
		return nil, status.Error(codes.Unimplemented, "method IssueIdentity not implemented")
	}
	issuer, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := rpcerr.Address("owner", req.Owner)
	if err != nil {
		return nil, err
	}
	account, err := rpcerr.Address("account", req.Account)
	if err != nil {
		return nil, err
	}
	if req.ValiditySeconds <= 0 {
		return nil, rpcerr.InvalidArgument("validitySeconds must be positive")
	}
	rec, err := s.registry.Issue(ctx, issuer, owner, account, time.Duration(req.ValiditySeconds)*time.Second)
	if err != nil {
		return nil, rpcerr.FromError("issue identity", err)
	}
	return &tgatev1.IdentityResponse{Identity: recordToAPI(rec)}, nil
}

// AddIssuer appends the caller's attestation to an existing identity.
func (s *Server) AddIssuer(ctx context.Context, req *tgatev1.AddIssuerRequest) (*tgatev1.IdentityResponse, error) {
	if s.registry == nil {
		return nil, status.Error(codes.Unimplemented, "method AddIssuer not implemented")
	}
	issuer, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	account, err := rpcerr.Address("account", req.Account)
	if err != nil {
		return nil, err
	}
	if req.ValiditySeconds <= 0 {
		return nil, rpcerr.InvalidArgument("validitySeconds must be positive")
	}
	rec, err := s.registry.AddIssuer(ctx, issuer, account, time.Duration(req.ValiditySeconds)*time.Second)
	if err != nil {
		return nil, rpcerr.FromError("add issuer", err)
	}
	return &tgatev1.IdentityResponse{Identity: recordToAPI(rec)}, nil
}

// GetIdentity returns the identity of an asset account.
func (s *Server) GetIdentity(ctx context.Context, req *tgatev1.GetIdentityRequest) (*tgatev1.IdentityResponse, error) {
	if s.registry == nil {
		return nil, status.Error(codes.Unimplemented, "method GetIdentity not implemented")
	}
	if _, err := rbac.RequireCaller(ctx); err != nil {
		return nil, err
	}
	account, err := rpcerr.Address("account", req.Account)
	if err != nil {
		return nil, err
	}
	rec, err := s.registry.Get(ctx, account)
	if err != nil {
		return nil, rpcerr.FromError("get identity", err)
	}
	return &tgatev1.IdentityResponse{Identity: recordToAPI(rec)}, nil
}

func recordToAPI(rec *domain.Record) *tgatev1.Identity {
	out := &tgatev1.Identity{
		Owner:   rec.Owner.String(),
		Account: rec.Account.String(),
		Issuers: make([]tgatev1.Issuer, len(rec.Issuers)),
	}
	for i, iss := range rec.Issuers {
		out.Issuers[i] = tgatev1.Issuer{
			Key:          iss.Key.String(),
			LastModified: iss.LastModified,
			ExpiresAt:    iss.ExpiresAt,
			Active:       iss.Active,
		}
	}
	if dest, ok := rec.Redirect(); ok {
		out.RecoveredTo = dest.String()
	}
	return out
}
