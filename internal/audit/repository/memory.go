package repository

import (
	"context"
	"sort"
	"sync"

	"transfer-gate/internal/audit/domain"
)

// MemoryRepository keeps audit logs in process, for the memory store backend and tests.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

// NewMemoryRepository returns an empty in-process audit log.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// GetByID returns the entry, or nil if not found.
func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

// ListByActor returns actor's entries, newest first.
func (r *MemoryRepository) ListByActor(_ context.Context, actor string, limit, offset int32) ([]*domain.AuditLog, error) {
	r.mu.Lock()
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if e.Actor == actor {
			cp := *e
			out = append(out, &cp)
		}
	}
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && int(limit) < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Create appends a copy of a.
func (r *MemoryRepository) Create(_ context.Context, a *domain.AuditLog) error {
	cp := *a
	r.mu.Lock()
	r.entries = append(r.entries, &cp)
	r.mu.Unlock()
	return nil
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*SQLRepository)(nil)
)
