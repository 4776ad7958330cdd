package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect is the SQL flavour behind a *sql.DB.
type Dialect int

const (
	Postgres Dialect = iota + 1
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

const sqlitePrefix = "sqlite://"

// ErrUnsupportedURL is returned for database URLs with an unknown scheme.
var ErrUnsupportedURL = errors.New("unsupported database URL scheme")

// DialectOf returns the dialect selected by the URL scheme.
func DialectOf(dsn string) (Dialect, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, nil
	case strings.HasPrefix(dsn, sqlitePrefix):
		return SQLite, nil
	case strings.TrimSpace(dsn) == "":
		return 0, errors.New("database URL is empty")
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedURL, dsn)
	}
}

// Open opens and pings the database named by dsn. postgres:// and postgresql://
// use pgx; sqlite://<path> uses modernc SQLite with a single connection.
// Caller must call Close when done.
func Open(dsn string) (*sql.DB, Dialect, error) {
	dialect, err := DialectOf(dsn)
	if err != nil {
		return nil, 0, err
	}
	var db *sql.DB
	switch dialect {
	case Postgres:
		db, err = sql.Open("pgx", dsn)
	case SQLite:
		db, err = sql.Open("sqlite", strings.TrimPrefix(dsn, sqlitePrefix))
	}
	if err != nil {
		return nil, 0, err
	}
	if dialect == SQLite {
		// SQLite allows one writer; a single connection serializes transactions.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, 0, err
	}
	return db, dialect, nil
}

// Rebind rewrites ? placeholders into the dialect's form.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
