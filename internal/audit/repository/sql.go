package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"transfer-gate/internal/audit/domain"
	"transfer-gate/internal/db"
)

const auditColumns = "id, actor, action, resource, outcome, ip, metadata, created_at"

// SQLRepository stores audit logs in the audit_logs table.
type SQLRepository struct {
	db      *sql.DB
	dialect db.Dialect
}

// NewSQLRepository returns an audit log repository over conn.
func NewSQLRepository(conn *sql.DB, dialect db.Dialect) *SQLRepository {
	return &SQLRepository{db: conn, dialect: dialect}
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *SQLRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.db.QueryRowContext(ctx, db.Rebind(r.dialect, "SELECT "+auditColumns+" FROM audit_logs WHERE id = ?"), id)
	a, err := scanAuditLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByActor returns audit logs of actor, newest first, paginated by limit and offset.
func (r *SQLRepository) ListByActor(ctx context.Context, actor string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, db.Rebind(r.dialect,
		"SELECT "+auditColumns+" FROM audit_logs WHERE actor = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?"),
		actor, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the audit log. The audit log must have ID set.
func (r *SQLRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx, db.Rebind(r.dialect,
		"INSERT INTO audit_logs ("+auditColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"),
		a.ID, a.Actor, a.Action, a.Resource, a.Outcome, a.IP, meta, a.CreatedAt.UnixNano())
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAuditLog(s scanner) (*domain.AuditLog, error) {
	var (
		a       domain.AuditLog
		meta    sql.NullString
		created int64
	)
	if err := s.Scan(&a.ID, &a.Actor, &a.Action, &a.Resource, &a.Outcome, &a.IP, &meta, &created); err != nil {
		return nil, err
	}
	a.Metadata = meta.String
	a.CreatedAt = time.Unix(0, created).UTC()
	return &a, nil
}
