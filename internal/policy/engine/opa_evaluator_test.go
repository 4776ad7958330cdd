package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
)

var (
	owner   = address.Address{1}
	account = address.Address{0xa1}
	iss1    = address.Address{0x21}
	iss2    = address.Address{0x22}
	t0      = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
)

func TestOPAAcceptor_HealthCheck(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAcceptor(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAAcceptor: %v", err)
	}
	if err := a.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestNewOPAAcceptor_InvalidPolicy(t *testing.T) {
	if _, err := NewOPAAcceptor(context.Background(), "package tgate.identity\n\ndecision := {"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestOPAAcceptor_Accept(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAcceptor(ctx, "")
	if err != nil {
		t.Fatalf("NewOPAAcceptor: %v", err)
	}
	// iss1 at index 0 expires at t0+1h; iss2 appended later expires at t0+3h.
	rec := identitydomain.NewRecord(owner, account, iss1, t0, time.Hour)
	if err := rec.AddIssuer(iss2, t0.Add(time.Hour), 2*time.Hour); err != nil {
		t.Fatal(err)
	}
	inactive := identitydomain.NewRecord(owner, account, iss1, t0, time.Hour)
	inactive.Issuers[0].Active = false

	testCases := []struct {
		name    string
		rec     *identitydomain.Record
		allowed []address.Address
		now     time.Time
		want    error
	}{
		{"primary valid", rec, nil, t0, nil},
		{"expiry instant is valid", rec, nil, t0.Add(time.Hour), nil},
		{"secondary carries after primary expires", rec, nil, t0.Add(2 * time.Hour), nil},
		{"all expired", rec, nil, t0.Add(4 * time.Hour), identitydomain.ErrIdentityExpired},
		{"allowed list restricts issuers", rec, []address.Address{iss1}, t0.Add(2 * time.Hour), identitydomain.ErrIdentityExpired},
		{"allowed issuer valid", rec, []address.Address{iss2}, t0, nil},
		{"no trusted issuer", rec, []address.Address{{0x99}}, t0, identitydomain.ErrIdentityNotActive},
		{"inactive", inactive, nil, t0, identitydomain.ErrIdentityNotActive},
		{"no issuers", &identitydomain.Record{Owner: owner, Account: account}, nil, t0, identitydomain.ErrIdentityNotActive},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := a.Accept(ctx, tc.rec, tc.allowed, tc.now); err != tc.want {
				t.Errorf("Accept = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLoadOPAAcceptor_File(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "deny.rego")
	policy := `package tgate.identity

decision := {"accepted": false, "reason": "IdentityExpired"}
`
	if err := os.WriteFile(path, []byte(policy), 0o600); err != nil {
		t.Fatal(err)
	}
	a, err := LoadOPAAcceptor(ctx, path)
	if err != nil {
		t.Fatalf("LoadOPAAcceptor: %v", err)
	}
	rec := identitydomain.NewRecord(owner, account, iss1, t0, time.Hour)
	if err := a.Accept(ctx, rec, nil, t0); err != identitydomain.ErrIdentityExpired {
		t.Errorf("Accept = %v, want ErrIdentityExpired", err)
	}
	if _, err := LoadOPAAcceptor(ctx, filepath.Join(t.TempDir(), "missing.rego")); err == nil {
		t.Error("expected error for missing policy file")
	}
}

func TestOPAAcceptor_UndefinedDecisionFailsClosed(t *testing.T) {
	ctx := context.Background()
	a, err := NewOPAAcceptor(ctx, "package tgate.identity\n\nother := true\n")
	if err != nil {
		t.Fatalf("NewOPAAcceptor: %v", err)
	}
	rec := identitydomain.NewRecord(owner, account, iss1, t0, time.Hour)
	if err := a.Accept(ctx, rec, nil, t0); err == nil {
		t.Error("Accept with undefined decision should fail")
	}
}

func TestBuildInput(t *testing.T) {
	rec := identitydomain.NewRecord(owner, account, iss1, t0, time.Hour)
	in := buildInput(rec, []address.Address{iss2}, t0)
	if in["now_ns"] != t0.UnixNano() {
		t.Errorf("now_ns = %v", in["now_ns"])
	}
	issuers := in["issuers"].([]interface{})
	first := issuers[0].(map[string]interface{})
	if first["key"] != iss1.String() || first["expires_at_ns"] != t0.Add(time.Hour).UnixNano() {
		t.Errorf("issuer[0] = %v", first)
	}
	if allowed := in["allowed_issuers"].([]interface{}); len(allowed) != 1 || allowed[0] != iss2.String() {
		t.Errorf("allowed_issuers = %v", allowed)
	}
}
