package repository

import (
	"context"

	"transfer-gate/internal/address"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/store"
)

// Repository defines persistence for step-up policies (keyed by asset account)
// and approval slots (keyed by owner).
type Repository interface {
	// GetParameters returns the policy of account, or nil if none exists.
	GetParameters(ctx context.Context, tx store.Tx, account address.Address) (*domain.Parameters, error)
	// CreateParameters inserts the policy; ErrStepUpAlreadyInitialized if one exists.
	CreateParameters(ctx context.Context, tx store.Tx, account address.Address, p *domain.Parameters) error
	// GetApproval returns the approval slot of owner, or nil if none exists.
	GetApproval(ctx context.Context, tx store.Tx, owner address.Address) (*domain.Approval, error)
	PutApproval(ctx context.Context, tx store.Tx, owner address.Address, a *domain.Approval) error
}
