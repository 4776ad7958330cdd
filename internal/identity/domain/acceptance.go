package domain

import (
	"context"
	"time"

	"transfer-gate/internal/address"
)

// Acceptor decides whether an identity record is acceptable at now.
// allowedIssuers is the sender's step-up allow-list; implementations may ignore it.
// A rejection must be ErrIdentityNotActive or ErrIdentityExpired.
type Acceptor interface {
	Accept(ctx context.Context, rec *Record, allowedIssuers []address.Address, now time.Time) error
}

// PrimaryIssuer accepts a record whose attestation at index 0 is valid.
type PrimaryIssuer struct{}

// Accept implements Acceptor.
func (PrimaryIssuer) Accept(_ context.Context, rec *Record, _ []address.Address, now time.Time) error {
	return rec.CheckValid(now)
}

// AnyIssuer accepts a record endorsed by at least one active, unexpired issuer.
type AnyIssuer struct{}

// Accept implements Acceptor. When no issuer is valid, the rejection is
// ErrIdentityExpired if some active issuer exists, else ErrIdentityNotActive.
func (AnyIssuer) Accept(_ context.Context, rec *Record, _ []address.Address, now time.Time) error {
	return anyValid(rec.Issuers, now)
}

func anyValid(issuers []Issuer, now time.Time) error {
	sawActive := false
	for _, i := range issuers {
		err := i.CheckValid(now)
		if err == nil {
			return nil
		}
		if err == ErrIdentityExpired {
			sawActive = true
		}
	}
	if sawActive {
		return ErrIdentityExpired
	}
	return ErrIdentityNotActive
}
