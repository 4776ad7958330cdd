package repository

import (
	"context"

	"transfer-gate/internal/address"
	"transfer-gate/internal/recovery/domain"
	"transfer-gate/internal/store"
)

// Repository defines persistence for recovery quorums and last-activity
// timestamps, both keyed by the original owner.
type Repository interface {
	// GetAuthority returns the owner's quorum, or nil if none exists.
	GetAuthority(ctx context.Context, tx store.Tx, owner address.Address) (*domain.Authority, error)
	// CreateAuthority inserts the quorum; ErrRecoveryAlreadyInitialized if one exists.
	CreateAuthority(ctx context.Context, tx store.Tx, owner address.Address, a *domain.Authority) error
	// GetLastActivity returns the owner's last activity, or nil if none exists.
	GetLastActivity(ctx context.Context, tx store.Tx, owner address.Address) (*domain.LastActivity, error)
	PutLastActivity(ctx context.Context, tx store.Tx, owner address.Address, l domain.LastActivity) error
}
