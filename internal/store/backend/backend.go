// Package backend opens the store.Store named by a DATABASE_URL.
package backend

import (
	"context"
	"strings"

	"transfer-gate/internal/db"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/memory"
	"transfer-gate/internal/store/redisstore"
	"transfer-gate/internal/store/sqlstore"
)

// Open picks the backend from the URL scheme: redis:// and rediss:// use Redis,
// postgres://, postgresql:// and sqlite:// use SQL, and an empty URL returns an
// in-memory store. SQL schemas must already be migrated.
func Open(ctx context.Context, url string) (store.Store, error) {
	switch {
	case strings.TrimSpace(url) == "":
		return memory.New(), nil
	case isRedis(url):
		return redisstore.Open(ctx, url)
	default:
		conn, dialect, err := db.Open(url)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(conn, dialect), nil
	}
}

// Persistent reports whether url selects a backend that survives restarts.
func Persistent(url string) bool {
	return strings.TrimSpace(url) != ""
}

// SQL reports whether url selects a SQL backend, whose schema is managed by migrations.
func SQL(url string) bool {
	return Persistent(url) && !isRedis(url)
}

func isRedis(url string) bool {
	return strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://")
}
