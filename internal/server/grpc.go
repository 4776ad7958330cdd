package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	tgatev1 "transfer-gate/api/tgatev1"
	"transfer-gate/internal/address"
	"transfer-gate/internal/audit"
	audithandler "transfer-gate/internal/audit/handler"
	auditrepo "transfer-gate/internal/audit/repository"
	"transfer-gate/internal/gate"
	gatehandler "transfer-gate/internal/gate/handler"
	healthhandler "transfer-gate/internal/health/handler"
	identityhandler "transfer-gate/internal/identity/handler"
	identityservice "transfer-gate/internal/identity/service"
	recoveryhandler "transfer-gate/internal/recovery/handler"
	recoveryservice "transfer-gate/internal/recovery/service"
	"transfer-gate/internal/security"
	"transfer-gate/internal/server/interceptors"
	stepuphandler "transfer-gate/internal/stepup/handler"
	stepupservice "transfer-gate/internal/stepup/service"
	"transfer-gate/internal/telemetry"
)

// Deps holds optional service dependencies for gRPC handlers.
type Deps struct {
	// Registry backs IdentityService. If nil, identity RPCs return Unimplemented.
	Registry *identityservice.Registry
	// Recovery backs RecoveryService. If nil, recovery RPCs return Unimplemented.
	Recovery *recoveryservice.Service
	// StepUp backs StepUpService. If nil, step-up RPCs return Unimplemented.
	StepUp *stepupservice.Service
	// Gate backs GateService. If nil, AuthorizeTransfer returns Unimplemented.
	Gate *gate.Gate
	// SettlementAuthority is the only caller allowed to use GateService. Zero admits any authenticated caller.
	SettlementAuthority address.Address
	// Tokens validates bearer and signature tokens.
	Tokens *security.TokenProvider
	// Emitter receives recovery, approval and RPC events. May be nil.
	Emitter telemetry.EventEmitter
	// AuditRepo is the audit log repository for AuditService and the audit interceptor. If nil, ListAuditLogs returns Unimplemented and no RPCs are audited.
	AuditRepo auditrepo.Repository
	// HealthPinger is used by HealthService for readiness (sqlstore or redisstore). If nil, HealthCheck skips the store ping.
	HealthPinger healthhandler.Pinger
	// HealthPolicyChecker is used by HealthService for readiness (OPA acceptor). If nil, HealthCheck skips the policy check.
	HealthPolicyChecker healthhandler.PolicyChecker
}

// PublicMethods do not require a bearer token. RecoverAccount is authorized by
// the recovery signers' signature tokens instead.
var PublicMethods = map[string]bool{
	tgatev1.HealthService_HealthCheck_FullMethodName:      true,
	tgatev1.RecoveryService_RecoverAccount_FullMethodName: true,
}

// QuietMethods are neither audited nor emitted as telemetry.
var QuietMethods = map[string]bool{
	tgatev1.HealthService_HealthCheck_FullMethodName:  true,
	tgatev1.AuditService_ListAuditLogs_FullMethodName: true,
}

// NewServer returns a gRPC server with authentication, audit and telemetry
// interceptors, OTel instrumentation and every service registered.
func NewServer(deps Deps, opts ...grpc.ServerOption) *grpc.Server {
	unary := []grpc.UnaryServerInterceptor{interceptors.AuthUnary(deps.Tokens, PublicMethods)}
	if deps.AuditRepo != nil {
		logger := audit.NewLogger(deps.AuditRepo, interceptors.ClientIP)
		unary = append(unary, interceptors.AuditUnary(logger, QuietMethods))
	}
	if deps.Emitter != nil {
		unary = append(unary, interceptors.TelemetryUnary(deps.Emitter, QuietMethods))
	}
	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(unary...),
	}, opts...)
	s := grpc.NewServer(opts...)
	RegisterServices(s, deps)
	return s
}

// RegisterServices registers all tgate.v1 services with the given server.
//
// Service → handler mapping:
//   - IdentityService → internal/identity/handler
//   - RecoveryService → internal/recovery/handler
//   - StepUpService   → internal/stepup/handler
//   - GateService     → internal/gate/handler
//   - AuditService    → internal/audit/handler
//   - HealthService   → internal/health/handler
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	tgatev1.RegisterIdentityServiceServer(s, identityhandler.NewServer(deps.Registry))
	tgatev1.RegisterRecoveryServiceServer(s, recoveryhandler.NewServer(deps.Recovery, deps.Tokens, deps.Emitter))
	tgatev1.RegisterStepUpServiceServer(s, stepuphandler.NewServer(deps.StepUp, deps.Tokens, deps.Emitter))
	tgatev1.RegisterGateServiceServer(s, gatehandler.NewServer(deps.Gate, deps.SettlementAuthority))
	tgatev1.RegisterAuditServiceServer(s, audithandler.NewServer(deps.AuditRepo))
	tgatev1.RegisterHealthServiceServer(s, healthhandler.NewServer(deps.HealthPinger, deps.HealthPolicyChecker))
}
