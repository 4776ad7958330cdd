package handler

import (
	"context"
	"log"

	tgatev1 "transfer-gate/api/tgatev1"
)

// Pinger checks store connectivity (sqlstore and redisstore implement it).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the identity acceptance policy evaluates.
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server implements HealthService for readiness/liveness.
type Server struct {
	tgatev1.UnimplementedHealthServiceServer
	pinger        Pinger
	policyChecker PolicyChecker
}

// NewServer returns a new Health gRPC server. Either check may be nil and is then skipped.
func NewServer(pinger Pinger, policyChecker PolicyChecker) *Server {
	return &Server{pinger: pinger, policyChecker: policyChecker}
}

// HealthCheck reports NOT_SERVING when a dependency check fails; it never returns an error.
func (s *Server) HealthCheck(ctx context.Context, _ *tgatev1.HealthCheckRequest) (*tgatev1.HealthCheckResponse, error) {
	if s.pinger != nil {
		if err := s.pinger.PingContext(ctx); err != nil {
			log.Printf("health: store ping failed: %v", err)
			return &tgatev1.HealthCheckResponse{Status: tgatev1.StatusNotServing}, nil
		}
	}
	if s.policyChecker != nil {
		if err := s.policyChecker.HealthCheck(ctx); err != nil {
			log.Printf("health: policy check failed: %v", err)
			return &tgatev1.HealthCheckResponse{Status: tgatev1.StatusNotServing}, nil
		}
	}
	return &tgatev1.HealthCheckResponse{Status: tgatev1.StatusServing}, nil
}
