// Package sqlstore persists records in the records table of Postgres or SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"transfer-gate/internal/db"
	"transfer-gate/internal/store"
)

// Store implements store.Store over database/sql.
type Store struct {
	db      *sql.DB
	dialect db.Dialect
	now     func() time.Time
}

// New returns a store over an open database whose schema has been migrated.
func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: conn, dialect: dialect, now: time.Now}
}

// Update implements store.Store. On Postgres the transaction is SERIALIZABLE
// and is retried on serialization failures and deadlocks.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, false, fn)
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.run(ctx, true, fn)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database, for tables that live beside the records.
func (s *Store) DB() (*sql.DB, db.Dialect) {
	return s.db, s.dialect
}

// PingContext checks the database connection.
func (s *Store) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(tx store.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= store.MaxAttempts; attempt++ {
		err := s.attempt(ctx, readOnly, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err
		log.Printf("sqlstore: retrying transaction (attempt %d): %v", attempt, err)
	}
	return store.Conflict(lastErr)
}

func (s *Store) attempt(ctx context.Context, readOnly bool, fn func(tx store.Tx) error) error {
	var opts *sql.TxOptions
	if s.dialect == db.Postgres {
		opts = &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: readOnly}
	}
	sqlTx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	t := &tx{tx: sqlTx, dialect: s.dialect, readOnly: readOnly, now: s.now}
	if err := fn(t); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}

// isRetryable reports Postgres serialization failures (40001) and deadlocks (40P01).
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

type tx struct {
	tx       *sql.Tx
	dialect  db.Dialect
	readOnly bool
	now      func() time.Time
}

func (t *tx) q(query string) string {
	return db.Rebind(t.dialect, query)
}

func (t *tx) Get(ctx context.Context, key store.Key) ([]byte, error) {
	query := "SELECT data FROM records WHERE kind = ? AND owner = ?"
	if t.dialect == db.Postgres && !t.readOnly {
		query += " FOR UPDATE"
	}
	var data []byte
	err := t.tx.QueryRowContext(ctx, t.q(query), string(key.Kind), key.Owner.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: get %s: %w", key, err)
	}
	return data, nil
}

func (t *tx) Insert(ctx context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	res, err := t.tx.ExecContext(ctx, t.q(
		`INSERT INTO records (kind, owner, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, owner) DO NOTHING`),
		string(key.Kind), key.Owner.String(), data, t.now().UnixNano())
	if err != nil {
		return fmt.Errorf("sqlstore: insert %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: insert %s: %w", key, err)
	}
	if n == 0 {
		return store.ErrExists
	}
	return nil
}

func (t *tx) Put(ctx context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	_, err := t.tx.ExecContext(ctx, t.q(
		`INSERT INTO records (kind, owner, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, owner) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`),
		string(key.Kind), key.Owner.String(), data, t.now().UnixNano())
	if err != nil {
		return fmt.Errorf("sqlstore: put %s: %w", key, err)
	}
	return nil
}
