package migrate

import (
	"errors"
	"path/filepath"
	"testing"

	"transfer-gate/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	if err := Run("", Up); err == nil || err.Error() != "DATABASE_URL is not set" {
		t.Errorf("Run with empty DSN = %v", err)
	}
}

func TestParseDirection(t *testing.T) {
	testCases := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"up", Up, false},
		{"down", Down, false},
		{"", "", true},
		{"UP", "", true},
		{"sideways", "", true},
	}
	for _, tc := range testCases {
		got, err := ParseDirection(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseDirection(%q) = %q, %v", tc.in, got, err)
		}
	}
	if err := Run("sqlite:///tmp/unused.db", Direction("Up")); err == nil {
		t.Error("Run with invalid direction should fail")
	}
}

func TestRun_UnsupportedScheme(t *testing.T) {
	for _, dsn := range []string{"invalid-dsn", "mysql://localhost/db", "redis://localhost:6379"} {
		if err := Run(dsn, Up); !errors.Is(err, db.ErrUnsupportedURL) {
			t.Errorf("Run(%q) = %v, want ErrUnsupportedURL", dsn, err)
		}
	}
}

func TestRun_SQLiteUpAndDown(t *testing.T) {
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "gate.db")
	if _, _, ok, err := Version(dsn); err != nil || ok {
		t.Fatalf("Version before up = ok %v, %v; want no version", ok, err)
	}
	if err := Run(dsn, Up); err != nil {
		t.Fatalf("up: %v", err)
	}
	if err := Run(dsn, Up); err != nil {
		t.Fatalf("second up should be a no-op: %v", err)
	}
	v, dirty, ok, err := Version(dsn)
	if err != nil || !ok || dirty || v != 2 {
		t.Errorf("Version = %d dirty=%v ok=%v, %v; want 2", v, dirty, ok, err)
	}

	conn, _, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, table := range []string{"records", "audit_logs"} {
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
	conn.Close()

	if err := Run(dsn, Down); err != nil {
		t.Fatalf("down: %v", err)
	}
}
