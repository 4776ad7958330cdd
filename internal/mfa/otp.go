// Package mfa verifies approver one-time codes (RFC 6238 TOTP).
package mfa

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"transfer-gate/internal/address"
)

const (
	period = 30
	skew   = 1
)

var validateOpts = totp.ValidateOpts{
	Period:    period,
	Skew:      skew,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// TOTP verifies approver codes against enrolled base32 secrets. A code is
// accepted once: a second use of the same or an earlier time step fails.
type TOTP struct {
	secrets map[address.Address]string

	mu       sync.Mutex
	lastStep map[address.Address]uint64
}

// NewTOTP returns a verifier for secrets keyed by approver address.
func NewTOTP(secrets map[address.Address]string) *TOTP {
	s := make(map[address.Address]string, len(secrets))
	for a, secret := range secrets {
		s[a] = strings.ToUpper(strings.TrimSpace(secret))
	}
	return &TOTP{secrets: s, lastStep: make(map[address.Address]uint64)}
}

// ParseSecrets parses "addr=SECRET,addr=SECRET" as used by APPROVER_TOTP_SECRETS.
func ParseSecrets(s string) (map[address.Address]string, error) {
	out := make(map[address.Address]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		addr, secret, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(secret) == "" {
			return nil, fmt.Errorf("totp secret entry %q: want addr=SECRET", part)
		}
		a, err := address.Parse(strings.TrimSpace(addr))
		if err != nil {
			return nil, fmt.Errorf("totp secret entry %q: %w", part, err)
		}
		out[a] = strings.TrimSpace(secret)
	}
	return out, nil
}

// Enrolled reports whether approver has a secret.
func (t *TOTP) Enrolled(approver address.Address) bool {
	_, ok := t.secrets[approver]
	return ok
}

// Verify checks code for approver at now, allowing one step of clock skew.
func (t *TOTP) Verify(approver address.Address, code string, now time.Time) bool {
	secret, ok := t.secrets[approver]
	if !ok || code == "" {
		return false
	}
	step, ok := t.match(secret, code, now)
	if !ok {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, used := t.lastStep[approver]; used && step <= last {
		return false
	}
	t.lastStep[approver] = step
	return true
}

// match returns the time step whose code equals code.
func (t *TOTP) match(secret, code string, now time.Time) (uint64, bool) {
	current := uint64(now.Unix()) / period
	for i := -skew; i <= skew; i++ {
		step := current + uint64(i)
		want, err := totp.GenerateCodeCustom(secret, time.Unix(int64(step*period), 0), validateOpts)
		if err != nil {
			return 0, false
		}
		if subtle.ConstantTimeCompare([]byte(want), []byte(code)) == 1 {
			return step, true
		}
	}
	return 0, false
}

// GenerateSecret returns a new base32 secret and its otpauth:// URL for enrolling approver.
func GenerateSecret(issuer string, approver address.Address) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: approver.String(),
		Period:      period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// Code returns the current code for secret. Used by operators and tests.
func Code(secret string, now time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, now, validateOpts)
}
