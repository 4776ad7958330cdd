package repository

import (
	"context"

	"transfer-gate/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	// GetByID returns the entry, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	// ListByActor returns actor's entries, newest first.
	ListByActor(ctx context.Context, actor string, limit, offset int32) ([]*domain.AuditLog, error)
	Create(ctx context.Context, a *domain.AuditLog) error
}
