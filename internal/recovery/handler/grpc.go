package handler

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/platform/rbac"
	"transfer-gate/internal/platform/rpcerr"
	"transfer-gate/internal/recovery/domain"
	"transfer-gate/internal/recovery/service"
	"transfer-gate/internal/security"
	"transfer-gate/internal/telemetry"
	telemetrydomain "transfer-gate/internal/telemetry/domain"
)

// Server implements RecoveryService: quorum setup and account recovery.
type Server struct {
	tgatev1.UnimplementedRecoveryServiceServer
	svc     *service.Service
	tokens  *security.TokenProvider
	emitter telemetry.EventEmitter
}

// NewServer returns a new Recovery gRPC server. If svc or tokens is nil, all RPCs return Unimplemented.
// emitter may be nil.
func NewServer(svc *service.Service, tokens *security.TokenProvider, emitter telemetry.EventEmitter) *Server {
	return &Server{svc: svc, tokens: tokens, emitter: emitter}
}

// InitializeRecovery records the caller's recovery quorum.
func (s *Server) InitializeRecovery(ctx context.Context, req *tgatev1.InitializeRecoveryRequest) (*tgatev1.InitializeRecoveryResponse, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method InitializeRecovery not implemented")
	}
	owner, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	authorities, err := rpcerr.Addresses("authorities", req.Authorities)
	if err != nil {
		return nil, err
	}
	auth, err := s.svc.Initialize(ctx, owner, authorities, int(req.MinSignatures))
	if err != nil {
		return nil, rpcerr.FromError("initialize recovery", err)
	}
	resp := &tgatev1.InitializeRecoveryResponse{
		Owner:         owner.String(),
		Authorities:   make([]string, len(auth.Authorities)),
		MinSignatures: uint32(auth.MinSignatures),
	}
	for i, a := range auth.Authorities {
		resp.Authorities[i] = a.String()
	}
	return resp, nil
}

// RecoverAccount moves a quarantined account to a new account. Authority comes
// from the recovery signers' signature tokens, not from a bearer token.
func (s *Server) RecoverAccount(ctx context.Context, req *tgatev1.RecoverAccountRequest) (*tgatev1.RecoverAccountResponse, error) {
	if s.svc == nil || s.tokens == nil {
		return nil, status.Error(codes.Unimplemented, "method RecoverAccount not implemented")
	}
	var r service.RecoverRequest
	var err error
	if r.Owner, err = rpcerr.Address("owner", req.Owner); err != nil {
		return nil, err
	}
	if r.SourceAccount, err = rpcerr.Address("sourceAccount", req.SourceAccount); err != nil {
		return nil, err
	}
	if r.NewOwner, err = rpcerr.Address("newOwner", req.NewOwner); err != nil {
		return nil, err
	}
	if r.NewAccount, err = rpcerr.Address("newAccount", req.NewAccount); err != nil {
		return nil, err
	}
	binding := security.RecoverBinding(r.Owner, r.SourceAccount, r.NewOwner, r.NewAccount)
	r.Signers, err = s.tokens.ValidateSignatures(req.Signatures, security.PurposeRecover, binding)
	if err != nil {
		log.Printf("recovery: rejected signature set for %s: %v", r.SourceAccount, err)
		return nil, rpcerr.FromError("recover account", domain.ErrNotEnoughSignatures)
	}
	res, err := s.svc.Recover(ctx, r)
	if err != nil {
		return nil, rpcerr.FromError("recover account", err)
	}
	event := telemetrydomain.NewEvent(telemetrydomain.EventRecoveryCompleted, "recovery", res.RecoveredAt)
	event.Owner = r.Owner.String()
	event.Account = res.SourceAccount.String()
	event.Destination = res.NewAccount.String()
	event.Amount = res.Amount
	telemetry.EmitAsync(s.emitter, ctx, event)
	return &tgatev1.RecoverAccountResponse{
		SourceAccount: res.SourceAccount.String(),
		NewAccount:    res.NewAccount.String(),
		Amount:        res.Amount,
		RecoveredAt:   res.RecoveredAt,
	}, nil
}
