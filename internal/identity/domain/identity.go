package domain

import (
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/rejection"
)

// Identity compliance rejections.
var (
	ErrIdentityAlreadyExists    = rejection.New(rejection.IdentityCompliance, "IdentityAlreadyExists", "identity already exists")
	ErrIdentityNotActive        = rejection.New(rejection.IdentityCompliance, "IdentityNotActive", "identity is not active")
	ErrIdentityExpired          = rejection.New(rejection.IdentityCompliance, "IdentityExpired", "identity expired")
	ErrIdentityRecovered        = rejection.New(rejection.IdentityCompliance, "IdentityRecovered", "identity recovered")
	ErrIdentityAlreadyRecovered = rejection.New(rejection.IdentityCompliance, "IdentityAlreadyRecovered", "identity already recovered")
	ErrIssuerNotTrusted         = rejection.New(rejection.IdentityCompliance, "IssuerNotTrusted", "issuer is not trusted")
	ErrIdentityNotFound         = rejection.New(rejection.Provisioning, "IdentityNotFound", "identity not found")
)

// Ledger account rejections shared by issuance and recovery.
var (
	ErrAccountNotFound      = rejection.New(rejection.Provisioning, "AccountNotFound", "asset account not found")
	ErrAccountOwnerMismatch = rejection.New(rejection.Provisioning, "AccountOwnerMismatch", "asset account is not owned by the stated owner")
)

// Issuer is one attestation on an identity record. Immutable once appended.
type Issuer struct {
	Key          address.Address
	LastModified time.Time
	ExpiresAt    time.Time
	Active       bool
}

// CheckValid returns ErrIdentityNotActive or ErrIdentityExpired when the attestation
// cannot be relied on at now. now == ExpiresAt is still valid.
func (i Issuer) CheckValid(now time.Time) error {
	if !i.Active {
		return ErrIdentityNotActive
	}
	if now.After(i.ExpiresAt) {
		return ErrIdentityExpired
	}
	return nil
}

// IsValid is CheckValid as a predicate.
func (i Issuer) IsValid(now time.Time) bool {
	return i.CheckValid(now) == nil
}

// Record is the identity of one protected asset account.
// Issuers are kept in issuance order; RecoveredTo holds at most one redirect.
type Record struct {
	Owner       address.Address
	Account     address.Address
	Issuers     []Issuer
	RecoveredTo []address.Address
}

// NewRecord returns a record attested by issuer, active and expiring validity after now.
func NewRecord(owner, account, issuer address.Address, now time.Time, validity time.Duration) *Record {
	return &Record{
		Owner:   owner,
		Account: account,
		Issuers: []Issuer{newIssuer(issuer, now, validity)},
	}
}

func newIssuer(key address.Address, now time.Time, validity time.Duration) Issuer {
	return Issuer{
		Key:          key,
		LastModified: now,
		ExpiresAt:    now.Add(validity),
		Active:       true,
	}
}

// HasIssuer reports whether key already attested this record.
func (r *Record) HasIssuer(key address.Address) bool {
	for _, i := range r.Issuers {
		if i.Key == key {
			return true
		}
	}
	return false
}

// AddIssuer appends a new attestation. The same issuer cannot attest twice,
// whatever validity it asks for.
func (r *Record) AddIssuer(key address.Address, now time.Time, validity time.Duration) error {
	if r.HasIssuer(key) {
		return ErrIdentityAlreadyExists
	}
	r.Issuers = append(r.Issuers, newIssuer(key, now, validity))
	return nil
}

// Primary returns the attestation at index 0.
func (r *Record) Primary() (Issuer, bool) {
	if len(r.Issuers) == 0 {
		return Issuer{}, false
	}
	return r.Issuers[0], true
}

// CheckValid validates the primary attestation. A record without issuers is not active.
func (r *Record) CheckValid(now time.Time) error {
	primary, ok := r.Primary()
	if !ok {
		return ErrIdentityNotActive
	}
	return primary.CheckValid(now)
}

// IsValid is CheckValid as a predicate.
func (r *Record) IsValid(now time.Time) bool {
	return r.CheckValid(now) == nil
}

// Redirect returns the recovery destination, if the record has been recovered.
func (r *Record) Redirect() (address.Address, bool) {
	if len(r.RecoveredTo) == 0 {
		return address.Zero, false
	}
	return r.RecoveredTo[0], true
}

// MarkRecovered records dest as the only account the original may still send to.
// It can happen once.
func (r *Record) MarkRecovered(dest address.Address) error {
	if len(r.RecoveredTo) > 0 {
		return ErrIdentityAlreadyRecovered
	}
	r.RecoveredTo = append(r.RecoveredTo, dest)
	return nil
}

// CheckNotRedirected rejects transfers from a recovered account to anything but its redirect.
func (r *Record) CheckNotRedirected(dest address.Address) error {
	if redirect, ok := r.Redirect(); ok && redirect != dest {
		return ErrIdentityRecovered
	}
	return nil
}
