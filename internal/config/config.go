// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"transfer-gate/internal/address"
	"transfer-gate/internal/ledger"
	"transfer-gate/internal/mfa"
)

// Identity acceptance modes.
const (
	AcceptancePrimary = "primary"
	AcceptanceAny     = "any"
	AcceptanceRego    = "rego"
)

// EnvProduction is the APP_ENV value that requires a settlement authority.
const EnvProduction = "production"

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL selects the record store: postgres://, sqlite://, redis:// or empty for in-memory.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file. Empty on verify-only deployments.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; derived from JWT_PRIVATE_KEY when empty.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim of bearer and signature tokens.
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim of bearer and signature tokens.
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the bearer token lifetime issued by the dev issuer (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`
	// SignatureTTL is the lifetime of recover and two_auth signature tokens (e.g. "5m").
	SignatureTTL string `mapstructure:"SIGNATURE_TTL"`
	// StepUpApprovalWindow is how long an approval stays usable after its transaction time.
	StepUpApprovalWindow string `mapstructure:"STEPUP_APPROVAL_WINDOW"`
	// RecoveryCooldown is how long after the owner's last transfer a recovery is refused. 0 disables it.
	RecoveryCooldown string `mapstructure:"RECOVERY_COOLDOWN"`
	// IdentityAcceptance is primary, any or rego.
	IdentityAcceptance string `mapstructure:"IDENTITY_ACCEPTANCE"`
	// IdentityPolicyFile is the Rego policy used when IdentityAcceptance is rego; empty uses the built-in policy.
	IdentityPolicyFile string `mapstructure:"IDENTITY_POLICY_FILE"`
	// TrustedIssuers is a comma-separated list of issuer addresses; empty trusts every issuer.
	TrustedIssuers string `mapstructure:"TRUSTED_ISSUERS"`
	// SettlementAuthority is the only caller allowed to use GateService; empty admits any
	// authenticated caller and is refused in production.
	SettlementAuthority string `mapstructure:"SETTLEMENT_AUTHORITY"`
	// ApproverTOTPSecrets enrolls approvers for one-time codes ("addr=SECRET,addr=SECRET").
	ApproverTOTPSecrets string `mapstructure:"APPROVER_TOTP_SECRETS"`
	// LedgerAuthoritySeed derives the capability the gate moves balances under.
	LedgerAuthoritySeed string `mapstructure:"LEDGER_AUTHORITY_SEED"`
	// LedgerAccounts opens in-process ledger accounts at start ("account=owner:balance,...").
	LedgerAccounts string `mapstructure:"LEDGER_ACCOUNTS"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`

	// Telemetry (optional). When Kafka brokers are set, decision events are produced to Kafka.
	// TelemetryKafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	TelemetryKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// TelemetryKafkaTopic is the Kafka topic for decision events (default tgate-decisions).
	TelemetryKafkaTopic string `mapstructure:"TELEMETRY_KAFKA_TOPIC"`
	// OTLPEndpoint is the OTLP gRPC collector; empty keeps telemetry in process.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure disables TLS for https OTLP endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Worker-only: Loki URL for the telemetry worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the telemetry worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	signatureTTL     time.Duration
	accessTTL        time.Duration
	approvalWindow   time.Duration
	recoveryCooldown time.Duration
	trustedIssuers   []address.Address
	settlement       address.Address
	approverSecrets  map[address.Address]string
	genesis          []ledger.Genesis
}

var defaults = map[string]interface{}{
	"GRPC_ADDR":                   ":8080",
	"DATABASE_URL":                "",
	"JWT_PRIVATE_KEY":             "",
	"JWT_PUBLIC_KEY":              "",
	"JWT_ISSUER":                  "tgate-auth",
	"JWT_AUDIENCE":                "tgate-api",
	"JWT_ACCESS_TTL":              "15m",
	"SIGNATURE_TTL":               "5m",
	"STEPUP_APPROVAL_WINDOW":      "5000s",
	"RECOVERY_COOLDOWN":           "0s",
	"IDENTITY_ACCEPTANCE":         AcceptancePrimary,
	"IDENTITY_POLICY_FILE":        "",
	"TRUSTED_ISSUERS":             "",
	"SETTLEMENT_AUTHORITY":        "",
	"APPROVER_TOTP_SECRETS":       "",
	"LEDGER_AUTHORITY_SEED":       "tgate-mint",
	"LEDGER_ACCOUNTS":             "",
	"APP_ENV":                     "",
	"KAFKA_BROKERS":               "",
	"TELEMETRY_KAFKA_TOPIC":       "tgate-decisions",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "",
	"OTEL_EXPORTER_OTLP_INSECURE": false,
	"OTEL_SERVICE_NAME":           "transfer-gate",
	"LOKI_URL":                    "",
	"KAFKA_GROUP_ID":              "tgate-telemetry-worker",
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if any field is invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees env-only values.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.GRPCAddr == "" {
		return errors.New("config: GRPC_ADDR must be set")
	}
	var err error
	for _, d := range []struct {
		key      string
		raw      string
		dst      *time.Duration
		positive bool
	}{
		{"JWT_ACCESS_TTL", c.JWTAccessTTL, &c.accessTTL, true},
		{"SIGNATURE_TTL", c.SignatureTTL, &c.signatureTTL, true},
		{"STEPUP_APPROVAL_WINDOW", c.StepUpApprovalWindow, &c.approvalWindow, true},
		{"RECOVERY_COOLDOWN", c.RecoveryCooldown, &c.recoveryCooldown, false},
	} {
		*d.dst, err = time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("config: %s: %w", d.key, err)
		}
		if *d.dst < 0 || (d.positive && *d.dst == 0) {
			return fmt.Errorf("config: %s must be positive", d.key)
		}
	}
	switch c.IdentityAcceptance {
	case AcceptancePrimary, AcceptanceAny, AcceptanceRego:
	default:
		return fmt.Errorf("config: IDENTITY_ACCEPTANCE must be %s, %s or %s", AcceptancePrimary, AcceptanceAny, AcceptanceRego)
	}
	if c.trustedIssuers, err = address.ParseList(c.TrustedIssuers); err != nil {
		return fmt.Errorf("config: TRUSTED_ISSUERS: %w", err)
	}
	if s := strings.TrimSpace(c.SettlementAuthority); s != "" {
		if c.settlement, err = address.Parse(s); err != nil {
			return fmt.Errorf("config: SETTLEMENT_AUTHORITY: %w", err)
		}
	} else if c.Env == EnvProduction {
		return errors.New("config: SETTLEMENT_AUTHORITY must be set when APP_ENV=production")
	}
	if c.approverSecrets, err = mfa.ParseSecrets(c.ApproverTOTPSecrets); err != nil {
		return fmt.Errorf("config: APPROVER_TOTP_SECRETS: %w", err)
	}
	if c.genesis, err = ledger.ParseGenesis(c.LedgerAccounts); err != nil {
		return fmt.Errorf("config: LEDGER_ACCOUNTS: %w", err)
	}
	if c.LedgerAuthoritySeed == "" {
		return errors.New("config: LEDGER_AUTHORITY_SEED must be set")
	}
	return nil
}

// AccessTTL is the parsed JWT_ACCESS_TTL.
func (c *Config) AccessTTL() time.Duration { return c.accessTTL }

// SignatureTokenTTL is the parsed SIGNATURE_TTL.
func (c *Config) SignatureTokenTTL() time.Duration { return c.signatureTTL }

// ApprovalWindow is the parsed STEPUP_APPROVAL_WINDOW.
func (c *Config) ApprovalWindow() time.Duration { return c.approvalWindow }

// Cooldown is the parsed RECOVERY_COOLDOWN.
func (c *Config) Cooldown() time.Duration { return c.recoveryCooldown }

// TrustedIssuerList is the parsed TRUSTED_ISSUERS.
func (c *Config) TrustedIssuerList() []address.Address { return c.trustedIssuers }

// Settlement is the parsed SETTLEMENT_AUTHORITY; zero when unset.
func (c *Config) Settlement() address.Address { return c.settlement }

// ApproverSecrets is the parsed APPROVER_TOTP_SECRETS.
func (c *Config) ApproverSecrets() map[address.Address]string { return c.approverSecrets }

// LedgerGenesis is the parsed LEDGER_ACCOUNTS.
func (c *Config) LedgerGenesis() []ledger.Genesis { return c.genesis }

// TelemetryKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if telemetry is enabled (non-empty list) and to create the producer.
func (c *Config) TelemetryKafkaBrokersList() []string {
	if c == nil || c.TelemetryKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.TelemetryKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
