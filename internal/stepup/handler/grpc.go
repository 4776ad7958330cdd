package handler

import (
	"context"
	"log"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/address"
	"transfer-gate/internal/platform/rbac"
	"transfer-gate/internal/platform/rpcerr"
	"transfer-gate/internal/security"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/stepup/service"
	"transfer-gate/internal/telemetry"
	telemetrydomain "transfer-gate/internal/telemetry/domain"
)

// Server implements StepUpService: policy setup and approver sign-off.
type Server struct {
	tgatev1.UnimplementedStepUpServiceServer
	svc     *service.Service
	tokens  *security.TokenProvider
	emitter telemetry.EventEmitter
}

// NewServer returns a new StepUp gRPC server. If svc is nil, all RPCs return Unimplemented.
// tokens verifies the approver's consent on InitializeStepUp; emitter may be nil.
func NewServer(svc *service.Service, tokens *security.TokenProvider, emitter telemetry.EventEmitter) *Server {
	return &Server{svc: svc, tokens: tokens, emitter: emitter}
}

// InitializeStepUp stores the step-up policy of one of the caller's accounts.
// The approver consents with a two_auth signature token bound to owner and account.
func (s *Server) InitializeStepUp(ctx context.Context, req *tgatev1.InitializeStepUpRequest) (*tgatev1.StepUpParameters, error) {
	if s.svc == nil || s.tokens == nil {
		return nil, status.Error(codes.Unimplemented, "method InitializeStepUp not implemented")
	}
	owner, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	account, err := rpcerr.Address("account", req.Account)
	if err != nil {
		return nil, err
	}
	approver, err := rpcerr.Address("approver", req.Approver)
	if err != nil {
		return nil, err
	}
	allowed, err := rpcerr.Addresses("allowedIssuers", req.AllowedIssuers)
	if err != nil {
		return nil, err
	}
	functions, err := functionsFromAPI(req.Functions)
	if err != nil {
		return nil, rpcerr.FromError("initialize step-up", err)
	}
	signer, err := s.tokens.ValidateSignature(req.ApproverSignature, security.PurposeTwoAuth, security.TwoAuthBinding(owner, account))
	if err != nil || signer != approver {
		log.Printf("stepup: approver consent for %s not verified: %v", account, err)
		return nil, rpcerr.FromError("initialize step-up", domain.ErrNotAuthorized)
	}
	params, err := s.svc.Initialize(ctx, owner, account, functions, approver, allowed)
	if err != nil {
		return nil, rpcerr.FromError("initialize step-up", err)
	}
	return paramsToAPI(account, params), nil
}

// ApproveTransaction records the caller's sign-off on a transfer out of an account it approves for.
func (s *Server) ApproveTransaction(ctx context.Context, req *tgatev1.ApproveTransactionRequest) (*tgatev1.Approval, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method ApproveTransaction not implemented")
	}
	approver, err := rbac.RequireCaller(ctx)
	if err != nil {
		return nil, err
	}
	tx := domain.Transaction{Amount: req.Amount, Time: req.Time}
	if tx.Source, err = rpcerr.Address("source", req.Source); err != nil {
		return nil, err
	}
	if tx.Destination, err = rpcerr.Address("destination", req.Destination); err != nil {
		return nil, err
	}
	approval, err := s.svc.Approve(ctx, approver, tx, req.Code)
	if err != nil {
		return nil, rpcerr.FromError("approve transaction", err)
	}
	event := telemetrydomain.NewEvent(telemetrydomain.EventStepUpApproved, "stepup", approval.Transaction.Time)
	event.Owner = approver.String()
	event.Account = tx.Source.String()
	event.Destination = tx.Destination.String()
	event.Amount = tx.Amount
	telemetry.EmitAsync(s.emitter, ctx, event)
	return approvalToAPI(approval), nil
}

// GetApproval returns the pending approval slot of an owner.
func (s *Server) GetApproval(ctx context.Context, req *tgatev1.GetApprovalRequest) (*tgatev1.Approval, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "method GetApproval not implemented")
	}
	if _, err := rbac.RequireCaller(ctx); err != nil {
		return nil, err
	}
	owner, err := rpcerr.Address("owner", req.Owner)
	if err != nil {
		return nil, err
	}
	approval, err := s.svc.GetApproval(ctx, owner)
	if err != nil {
		return nil, rpcerr.FromError("get approval", err)
	}
	return approvalToAPI(approval), nil
}

func functionsFromAPI(in []tgatev1.Function) ([]domain.Function, error) {
	out := make([]domain.Function, len(in))
	for i, f := range in {
		if err := out[i].Kind.UnmarshalText([]byte(f.Kind)); err != nil {
			return nil, err
		}
		out[i].Max = f.Max
		if f.Window != nil {
			if err := out[i].Window.Unit.UnmarshalText([]byte(f.Window.Unit)); err != nil {
				return nil, err
			}
			out[i].Window.Value = f.Window.Value
		}
	}
	return out, nil
}

func functionsToAPI(in []domain.Function) []tgatev1.Function {
	out := make([]tgatev1.Function, len(in))
	for i, f := range in {
		out[i] = tgatev1.Function{Kind: f.Kind.String(), Max: f.Max}
		if f.Window.Value > 0 {
			out[i].Window = &tgatev1.Window{Unit: f.Window.Unit.String(), Value: f.Window.Value}
		}
	}
	return out
}

func paramsToAPI(account address.Address, p *domain.Parameters) *tgatev1.StepUpParameters {
	out := &tgatev1.StepUpParameters{
		Owner:     p.Owner.String(),
		Account:   account.String(),
		Functions: functionsToAPI(p.Functions),
		Approver:  p.Approver.String(),
	}
	for _, a := range p.AllowedIssuers {
		out.AllowedIssuers = append(out.AllowedIssuers, a.String())
	}
	return out
}

func approvalToAPI(a *domain.Approval) *tgatev1.Approval {
	return &tgatev1.Approval{
		Source:      a.Transaction.Source.String(),
		Destination: a.Transaction.Destination.String(),
		Amount:      a.Transaction.Amount,
		Time:        a.Transaction.Time,
		Active:      a.Active,
	}
}
