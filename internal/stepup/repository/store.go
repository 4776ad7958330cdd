package repository

import (
	"context"
	"errors"
	"fmt"

	"transfer-gate/internal/address"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/store"
	"transfer-gate/internal/wire"
)

// StoreRepository keeps step-up records in the record store.
type StoreRepository struct{}

// NewStoreRepository returns a step-up repository backed by the record store.
func NewStoreRepository() *StoreRepository {
	return &StoreRepository{}
}

// GetParameters returns the policy of account, or nil if not found.
func (r *StoreRepository) GetParameters(ctx context.Context, tx store.Tx, account address.Address) (*domain.Parameters, error) {
	b, err := tx.Get(ctx, store.Key{Kind: store.KindTwoAuth, Owner: account})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p, err := wire.DecodeParameters(b)
	if err != nil {
		return nil, fmt.Errorf("step-up parameters %s: %w", account, err)
	}
	return p, nil
}

// CreateParameters inserts the policy of account.
func (r *StoreRepository) CreateParameters(ctx context.Context, tx store.Tx, account address.Address, p *domain.Parameters) error {
	err := tx.Insert(ctx, store.Key{Kind: store.KindTwoAuth, Owner: account}, wire.EncodeParameters(p))
	if errors.Is(err, store.ErrExists) {
		return domain.ErrStepUpAlreadyInitialized
	}
	return err
}

// GetApproval returns the approval slot of owner, or nil if not found.
func (r *StoreRepository) GetApproval(ctx context.Context, tx store.Tx, owner address.Address) (*domain.Approval, error) {
	b, err := tx.Get(ctx, store.Key{Kind: store.KindApproval, Owner: owner})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a, err := wire.DecodeApproval(b)
	if err != nil {
		return nil, fmt.Errorf("approval %s: %w", owner, err)
	}
	return a, nil
}

// PutApproval overwrites the approval slot of owner.
func (r *StoreRepository) PutApproval(ctx context.Context, tx store.Tx, owner address.Address, a *domain.Approval) error {
	return tx.Put(ctx, store.Key{Kind: store.KindApproval, Owner: owner}, wire.EncodeApproval(a))
}

var _ Repository = (*StoreRepository)(nil)
