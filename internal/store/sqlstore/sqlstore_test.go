package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"transfer-gate/internal/db"
	"transfer-gate/internal/db/migrate"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/storetest"
)

func newSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "records.db")
	if err := migrate.Run(dsn, migrate.Up); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	conn, dialect, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New(conn, dialect)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SQLite(t *testing.T) {
	storetest.Run(t, newSQLiteStore)
}

func TestStore_PingAndDB(t *testing.T) {
	s := newSQLiteStore(t).(*Store)
	if err := s.PingContext(context.Background()); err != nil {
		t.Fatalf("PingContext: %v", err)
	}
	conn, dialect := s.DB()
	if conn == nil || dialect != db.SQLite {
		t.Errorf("DB = %v, %v", conn, dialect)
	}
}

func TestIsRetryable(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"wrapped", fmt.Errorf("sqlstore: commit: %w", &pgconn.PgError{Code: "40001"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
		{"not found", store.ErrNotFound, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryable(tc.err); got != tc.want {
				t.Errorf("isRetryable = %v, want %v", got, tc.want)
			}
		})
	}
}
