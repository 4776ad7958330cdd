package repository

import (
	"context"

	"transfer-gate/internal/address"
	"transfer-gate/internal/identity/domain"
	"transfer-gate/internal/store"
)

// Repository defines persistence for identity records. Every method runs inside
// the caller's store transaction.
type Repository interface {
	// Get returns the record of account, or nil if none exists.
	Get(ctx context.Context, tx store.Tx, account address.Address) (*domain.Record, error)
	// Create inserts rec; ErrIdentityAlreadyExists if account already has one.
	Create(ctx context.Context, tx store.Tx, rec *domain.Record) error
	AppendIssuer(ctx context.Context, tx store.Tx, account address.Address, issuer domain.Issuer) error
	AppendRedirect(ctx context.Context, tx store.Tx, account address.Address, dest address.Address) error
}
