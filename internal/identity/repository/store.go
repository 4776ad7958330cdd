package repository

import (
	"context"
	"errors"
	"fmt"

	"transfer-gate/internal/address"
	"transfer-gate/internal/identity/domain"
	"transfer-gate/internal/store"
	"transfer-gate/internal/wire"
)

// StoreRepository keeps identity records under store.KindIdentity, keyed by account.
type StoreRepository struct{}

// NewStoreRepository returns an identity repository backed by the record store.
func NewStoreRepository() *StoreRepository {
	return &StoreRepository{}
}

func key(account address.Address) store.Key {
	return store.Key{Kind: store.KindIdentity, Owner: account}
}

func (r *StoreRepository) raw(ctx context.Context, tx store.Tx, account address.Address) ([]byte, error) {
	b, err := tx.Get(ctx, key(account))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrIdentityNotFound
	}
	return b, err
}

// Get returns the record of account, or nil if not found.
// It returns an error only for store failures and corrupt records.
func (r *StoreRepository) Get(ctx context.Context, tx store.Tx, account address.Address) (*domain.Record, error) {
	b, err := tx.Get(ctx, key(account))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec, err := wire.DecodeIdentity(b)
	if err != nil {
		return nil, fmt.Errorf("identity %s: %w", account, err)
	}
	return rec, nil
}

// Create inserts a new record.
func (r *StoreRepository) Create(ctx context.Context, tx store.Tx, rec *domain.Record) error {
	err := tx.Insert(ctx, key(rec.Account), wire.EncodeIdentity(rec))
	if errors.Is(err, store.ErrExists) {
		return domain.ErrIdentityAlreadyExists
	}
	return err
}

// AppendIssuer grows the stored record by one issuer.
func (r *StoreRepository) AppendIssuer(ctx context.Context, tx store.Tx, account address.Address, issuer domain.Issuer) error {
	b, err := r.raw(ctx, tx, account)
	if err != nil {
		return err
	}
	b, err = wire.AppendIssuer(b, issuer)
	if err != nil {
		return fmt.Errorf("identity %s: %w", account, err)
	}
	return tx.Put(ctx, key(account), b)
}

// AppendRedirect grows the stored record by one recovery destination.
func (r *StoreRepository) AppendRedirect(ctx context.Context, tx store.Tx, account address.Address, dest address.Address) error {
	b, err := r.raw(ctx, tx, account)
	if err != nil {
		return err
	}
	b, err = wire.AppendRedirect(b, dest)
	if err != nil {
		return fmt.Errorf("identity %s: %w", account, err)
	}
	return tx.Put(ctx, key(account), b)
}

var _ Repository = (*StoreRepository)(nil)
