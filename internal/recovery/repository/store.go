package repository

import (
	"context"
	"errors"
	"fmt"

	"transfer-gate/internal/address"
	"transfer-gate/internal/recovery/domain"
	"transfer-gate/internal/store"
	"transfer-gate/internal/wire"
)

// StoreRepository keeps recovery records in the record store.
type StoreRepository struct{}

// NewStoreRepository returns a recovery repository backed by the record store.
func NewStoreRepository() *StoreRepository {
	return &StoreRepository{}
}

// GetAuthority returns the quorum of owner, or nil if not found.
func (r *StoreRepository) GetAuthority(ctx context.Context, tx store.Tx, owner address.Address) (*domain.Authority, error) {
	b, err := tx.Get(ctx, store.Key{Kind: store.KindRecoveryAuthority, Owner: owner})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a, err := wire.DecodeRecoveryAuthority(b)
	if err != nil {
		return nil, fmt.Errorf("recovery authority %s: %w", owner, err)
	}
	return a, nil
}

// CreateAuthority inserts the quorum of owner.
func (r *StoreRepository) CreateAuthority(ctx context.Context, tx store.Tx, owner address.Address, a *domain.Authority) error {
	err := tx.Insert(ctx, store.Key{Kind: store.KindRecoveryAuthority, Owner: owner}, wire.EncodeRecoveryAuthority(a))
	if errors.Is(err, store.ErrExists) {
		return domain.ErrRecoveryAlreadyInitialized
	}
	return err
}

// GetLastActivity returns the last activity of owner, or nil if not found.
func (r *StoreRepository) GetLastActivity(ctx context.Context, tx store.Tx, owner address.Address) (*domain.LastActivity, error) {
	b, err := tx.Get(ctx, store.Key{Kind: store.KindLastTx, Owner: owner})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l, err := wire.DecodeLastActivity(b)
	if err != nil {
		return nil, fmt.Errorf("last activity %s: %w", owner, err)
	}
	return &l, nil
}

// PutLastActivity overwrites the last activity of owner.
func (r *StoreRepository) PutLastActivity(ctx context.Context, tx store.Tx, owner address.Address, l domain.LastActivity) error {
	return tx.Put(ctx, store.Key{Kind: store.KindLastTx, Owner: owner}, wire.EncodeLastActivity(l))
}

var _ Repository = (*StoreRepository)(nil)
