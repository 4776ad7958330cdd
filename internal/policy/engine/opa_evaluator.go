package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
)

const decisionQuery = "data.tgate.identity.decision"

// DefaultRegoPolicy accepts an identity endorsed by any active, unexpired issuer
// that is in the sender's allowed-issuer list, or by any issuer when the list is empty.
const DefaultRegoPolicy = `package tgate.identity

default accepted := false

accepted if {
	some issuer in input.issuers
	valid(issuer)
	trusted(issuer.key)
}

valid(issuer) if {
	issuer.active
	issuer.expires_at_ns >= input.now_ns
}

trusted(_) if count(input.allowed_issuers) == 0

trusted(key) if key in input.allowed_issuers

default reason := "IdentityNotActive"

reason := "IdentityExpired" if {
	some issuer in input.issuers
	issuer.active
	trusted(issuer.key)
}

decision := {"accepted": accepted, "reason": reason}
`

// OPAAcceptor decides identity acceptance with a Rego policy. The policy must
// define data.tgate.identity.decision as {"accepted": bool, "reason": string},
// where reason is IdentityNotActive or IdentityExpired.
type OPAAcceptor struct {
	query rego.PreparedEvalQuery
}

// NewOPAAcceptor compiles source; an empty source uses DefaultRegoPolicy.
func NewOPAAcceptor(ctx context.Context, source string) (*OPAAcceptor, error) {
	if source == "" {
		source = DefaultRegoPolicy
	}
	compiler, err := ast.CompileModules(map[string]string{"identity.rego": source})
	if err != nil {
		return nil, fmt.Errorf("compile identity policy: %w", err)
	}
	query, err := rego.New(
		rego.Query(decisionQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare identity policy: %w", err)
	}
	return &OPAAcceptor{query: query}, nil
}

// LoadOPAAcceptor compiles the policy file at path, or the default policy when path is empty.
func LoadOPAAcceptor(ctx context.Context, path string) (*OPAAcceptor, error) {
	if path == "" {
		return NewOPAAcceptor(ctx, "")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity policy: %w", err)
	}
	return NewOPAAcceptor(ctx, string(b))
}

// Accept implements identitydomain.Acceptor. Evaluation failures reject the
// identity with an error rather than accepting it.
func (a *OPAAcceptor) Accept(ctx context.Context, rec *identitydomain.Record, allowedIssuers []address.Address, now time.Time) error {
	accepted, reason, err := a.evaluate(ctx, buildInput(rec, allowedIssuers, now))
	if err != nil {
		log.Printf("policy: identity evaluation failed for %s: %v", rec.Account, err)
		return err
	}
	if accepted {
		return nil
	}
	if reason == identitydomain.ErrIdentityExpired.Code {
		return identitydomain.ErrIdentityExpired
	}
	return identitydomain.ErrIdentityNotActive
}

func (a *OPAAcceptor) evaluate(ctx context.Context, input map[string]interface{}) (bool, string, error) {
	rs, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, "", fmt.Errorf("eval identity policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return false, "", fmt.Errorf("identity policy returned no decision")
	}
	decision, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return false, "", fmt.Errorf("identity policy decision is %T, want object", rs[0].Expressions[0].Value)
	}
	accepted, _ := decision["accepted"].(bool)
	reason, _ := decision["reason"].(string)
	return accepted, reason, nil
}

// HealthCheck evaluates the compiled policy against a minimal identity.
func (a *OPAAcceptor) HealthCheck(ctx context.Context) error {
	now := time.Now().UTC()
	rec := identitydomain.NewRecord(address.Zero, address.Zero, address.Address{1}, now, time.Hour)
	if _, _, err := a.evaluate(ctx, buildInput(rec, nil, now)); err != nil {
		return err
	}
	return nil
}

var _ identitydomain.Acceptor = (*OPAAcceptor)(nil)
