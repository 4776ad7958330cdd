package handler

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/address"
	"transfer-gate/internal/gate"
	"transfer-gate/internal/platform/rbac"
	"transfer-gate/internal/platform/rpcerr"
)

// Server implements GateService for settlement layers that run outside this process.
type Server struct {
	tgatev1.UnimplementedGateServiceServer
	gate      *gate.Gate
	authority address.Address
}

// NewServer returns a new Gate gRPC server. authority is the only caller allowed to
// ask for authorizations; a zero authority admits any authenticated caller.
// If g is nil, AuthorizeTransfer returns Unimplemented.
func NewServer(g *gate.Gate, authority address.Address) *Server {
	return &Server{gate: g, authority: authority}
}

// AuthorizeTransfer decides one transfer. A rejection is returned as a status
// error whose ErrorInfo reason names the failure kind.
func (s *Server) AuthorizeTransfer(ctx context.Context, req *tgatev1.AuthorizeTransferRequest) (*tgatev1.AuthorizeTransferResponse, error) {
	if s.gate == nil {
		return nil, status.Error(codes.Unimplemented, "method AuthorizeTransfer not implemented")
	}
	if _, err := rbac.RequireRole(ctx, s.authority, "settlement authority"); err != nil {
		return nil, err
	}
	var r gate.Request
	var err error
	if r.Source, err = rpcerr.Address("source", req.Source); err != nil {
		return nil, err
	}
	if r.Destination, err = rpcerr.Address("destination", req.Destination); err != nil {
		return nil, err
	}
	if r.Owner, err = rpcerr.Address("owner", req.Owner); err != nil {
		return nil, err
	}
	r.Amount = req.Amount
	if err := s.gate.Authorize(ctx, r); err != nil {
		return nil, rpcerr.FromError("authorize transfer", err)
	}
	return &tgatev1.AuthorizeTransferResponse{Authorized: true}, nil
}
