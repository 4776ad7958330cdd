package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditrepo "transfer-gate/internal/audit/repository"
	"transfer-gate/internal/config"
	"transfer-gate/internal/db/migrate"
	"transfer-gate/internal/gate"
	healthhandler "transfer-gate/internal/health/handler"
	identitydomain "transfer-gate/internal/identity/domain"
	identityrepo "transfer-gate/internal/identity/repository"
	identityservice "transfer-gate/internal/identity/service"
	"transfer-gate/internal/ledger"
	"transfer-gate/internal/mfa"
	"transfer-gate/internal/policy/engine"
	recoveryrepo "transfer-gate/internal/recovery/repository"
	recoveryservice "transfer-gate/internal/recovery/service"
	"transfer-gate/internal/security"
	"transfer-gate/internal/server"
	stepuprepo "transfer-gate/internal/stepup/repository"
	stepupservice "transfer-gate/internal/stepup/service"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/backend"
	"transfer-gate/internal/store/sqlstore"
	"transfer-gate/internal/telemetry"
	telemetryotel "transfer-gate/internal/telemetry/otel"
	"transfer-gate/internal/telemetry/producer"
)

const gracefulStopTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	providers, err := telemetryotel.NewProviders(ctx, telemetryotel.Settings{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel: shutdown: %v", err)
		}
	}()

	if backend.SQL(cfg.DatabaseURL) {
		if err := migrate.Run(cfg.DatabaseURL, migrate.Up); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}
	st, err := backend.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()
	if !backend.Persistent(cfg.DatabaseURL) {
		log.Println("store: DATABASE_URL not set; records are kept in memory and lost on restart")
	}

	signer, pub, err := security.LoadKeyPair(cfg.JWTPrivateKey, cfg.JWTPublicKey)
	if err != nil {
		if cfg.JWTPrivateKey != "" || cfg.JWTPublicKey == "" {
			log.Fatalf("jwt keys: %v (generate a pair with go run ./cmd/seed keygen)", err)
		}
		// Verify-only deployment: tokens are minted elsewhere.
		signer = nil
		if pub, err = security.ParsePublicKey(cfg.JWTPublicKey); err != nil {
			log.Fatalf("jwt public key: %v", err)
		}
	}
	tokens := security.NewTokenProvider(signer, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.SignatureTokenTTL())

	emitters := []telemetry.EventEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	if brokers := cfg.TelemetryKafkaBrokersList(); len(brokers) > 0 {
		kp := producer.NewKafkaProducer(brokers, cfg.TelemetryKafkaTopic)
		defer kp.Close()
		emitters = append(emitters, kp)
		log.Printf("telemetry: producing decision events to %s", cfg.TelemetryKafkaTopic)
	}
	emitter := telemetry.Multi(emitters...)

	acceptor, policyChecker, err := newAcceptor(ctx, cfg)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	authority := ledger.DeriveAuthority(cfg.LedgerAuthoritySeed)
	led := ledger.NewMemory(authority)
	if err := led.OpenGenesis(cfg.LedgerGenesis()); err != nil {
		log.Fatalf("ledger: %v", err)
	}

	identities := identityrepo.NewStoreRepository()
	recoveries := recoveryrepo.NewStoreRepository()
	stepups := stepuprepo.NewStoreRepository()

	if cfg.Cooldown() == 0 {
		log.Println("recovery: RECOVERY_COOLDOWN is 0; recovery is allowed immediately after a transfer")
	}
	g := gate.New(st, gate.Repositories{Identities: identities, Recovery: recoveries, StepUp: stepups}, acceptor, cfg.ApprovalWindow()).
		WithEmitter(emitter)
	led.SetHook(g.Hook())

	var totp stepupservice.CodeVerifier
	if secrets := cfg.ApproverSecrets(); len(secrets) > 0 {
		totp = mfa.NewTOTP(secrets)
	}

	deps := server.Deps{
		Registry:            identityservice.NewRegistry(st, identities, led, cfg.TrustedIssuerList()),
		Recovery:            recoveryservice.NewService(st, recoveries, identities, led, authority, cfg.Cooldown()),
		StepUp:              stepupservice.NewService(st, stepups, led, totp),
		Gate:                g,
		SettlementAuthority: cfg.Settlement(),
		Tokens:              tokens,
		Emitter:             emitter,
		AuditRepo:           newAuditRepo(st),
		HealthPolicyChecker: policyChecker,
	}
	if p, ok := st.(healthhandler.Pinger); ok {
		deps.HealthPinger = p
	}
	if deps.SettlementAuthority.IsZero() {
		log.Println("gate: SETTLEMENT_AUTHORITY not set; any authenticated caller may authorize transfers")
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	defer lis.Close()

	s := server.NewServer(deps)

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := s.Serve(lis); err != nil {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down gRPC server...")
	stopped := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(gracefulStopTimeout):
		log.Println("graceful stop timed out; forcing stop")
		s.Stop()
	}
	log.Println("gRPC server stopped")

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Drain(drainCtx); err != nil {
		log.Printf("telemetry: drain: %v", err)
	}
}

// newAcceptor builds the identity acceptor for IDENTITY_ACCEPTANCE. Only the
// rego acceptor has a health check.
func newAcceptor(ctx context.Context, cfg *config.Config) (identitydomain.Acceptor, healthhandler.PolicyChecker, error) {
	switch cfg.IdentityAcceptance {
	case config.AcceptanceAny:
		return identitydomain.AnyIssuer{}, nil, nil
	case config.AcceptanceRego:
		a, err := engine.LoadOPAAcceptor(ctx, cfg.IdentityPolicyFile)
		if err != nil {
			return nil, nil, err
		}
		return a, a, nil
	default:
		return identitydomain.PrimaryIssuer{}, nil, nil
	}
}

// newAuditRepo persists audit logs next to the records on SQL backends and keeps
// them in memory otherwise.
func newAuditRepo(st store.Store) auditrepo.Repository {
	if s, ok := st.(*sqlstore.Store); ok {
		conn, dialect := s.DB()
		return auditrepo.NewSQLRepository(conn, dialect)
	}
	return auditrepo.NewMemoryRepository()
}
