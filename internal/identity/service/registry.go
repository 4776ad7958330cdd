package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/identity/domain"
	"transfer-gate/internal/identity/repository"
	"transfer-gate/internal/ledger"
	"transfer-gate/internal/rejection"
	"transfer-gate/internal/store"
)

// AccountOwners resolves the owner of an asset account on the ledger.
type AccountOwners interface {
	AccountOwner(ctx context.Context, account address.Address) (address.Address, error)
}

// Registry issues and extends identity records.
type Registry struct {
	store   store.Store
	repo    repository.Repository
	owners  AccountOwners
	trusted []address.Address
	now     func() time.Time
}

// NewRegistry returns a Registry. An empty trusted list lets any authenticated
// issuer attest.
func NewRegistry(st store.Store, repo repository.Repository, owners AccountOwners, trusted []address.Address) *Registry {
	return &Registry{
		store:   st,
		repo:    repo,
		owners:  owners,
		trusted: trusted,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the registry's time source.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

func (r *Registry) checkIssuer(issuer address.Address, validity time.Duration) error {
	if validity <= 0 || issuer.IsZero() {
		return rejection.ErrInvalidArgument
	}
	if len(r.trusted) > 0 && !address.Contains(r.trusted, issuer) {
		return domain.ErrIssuerNotTrusted
	}
	return nil
}

// CheckAccountOwner verifies on the ledger that owner holds account.
func CheckAccountOwner(ctx context.Context, owners AccountOwners, owner, account address.Address) error {
	got, err := owners.AccountOwner(ctx, account)
	if errors.Is(err, ledger.ErrAccountNotFound) || errors.Is(err, ledger.ErrAccountClosed) {
		return domain.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("ledger owner of %s: %w", account, err)
	}
	if got != owner {
		return domain.ErrAccountOwnerMismatch
	}
	return nil
}

// Issue creates the identity of account, attested by issuer for validity.
func (r *Registry) Issue(ctx context.Context, issuer, owner, account address.Address, validity time.Duration) (*domain.Record, error) {
	if err := r.checkIssuer(issuer, validity); err != nil {
		return nil, err
	}
	if err := CheckAccountOwner(ctx, r.owners, owner, account); err != nil {
		return nil, err
	}
	rec := domain.NewRecord(owner, account, issuer, r.now(), validity)
	err := r.store.Update(ctx, func(tx store.Tx) error {
		return r.repo.Create(ctx, tx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AddIssuer appends issuer's attestation to the identity of account.
func (r *Registry) AddIssuer(ctx context.Context, issuer, account address.Address, validity time.Duration) (*domain.Record, error) {
	if err := r.checkIssuer(issuer, validity); err != nil {
		return nil, err
	}
	var rec *domain.Record
	err := r.store.Update(ctx, func(tx store.Tx) error {
		var err error
		rec, err = r.repo.Get(ctx, tx, account)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrIdentityNotFound
		}
		if err := rec.AddIssuer(issuer, r.now(), validity); err != nil {
			return err
		}
		return r.repo.AppendIssuer(ctx, tx, account, rec.Issuers[len(rec.Issuers)-1])
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the identity of account.
func (r *Registry) Get(ctx context.Context, account address.Address) (*domain.Record, error) {
	var rec *domain.Record
	err := r.store.View(ctx, func(tx store.Tx) error {
		var err error
		rec, err = r.repo.Get(ctx, tx, account)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrIdentityNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
