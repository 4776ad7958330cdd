// Package redisstore keeps records in Redis using optimistic transactions:
// every key read inside Update is WATCHed and the buffered writes are applied
// in one MULTI/EXEC. A concurrent change to a watched key reruns fn.
package redisstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"transfer-gate/internal/store"
)

// DefaultPrefix namespaces record keys.
const DefaultPrefix = "tgate:"

// Store implements store.Store over a Redis client.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to the Redis server named by url (redis:// or rediss://) and pings it.
func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisstore: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: ping: %w", err)
	}
	return New(client, DefaultPrefix), nil
}

// New returns a store over client. Keys are prefix + kind + ":" + owner hex.
func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

// PingContext checks the Redis connection.
func (s *Store) PingContext(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) redisKey(key store.Key) string {
	return s.prefix + key.String()
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= store.MaxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			t := &tx{store: s, rtx: rtx, writes: make(map[string][]byte)}
			if err := fn(t); err != nil {
				return err
			}
			if len(t.writes) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for _, k := range t.order {
					pipe.Set(ctx, k, t.writes[k], 0)
				}
				return nil
			})
			return err
		})
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		lastErr = err
		log.Printf("redisstore: retrying transaction (attempt %d): %v", attempt, err)
	}
	return store.Conflict(lastErr)
}

// View implements store.Store. Reads are not isolated from concurrent writers.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(&tx{store: s, readOnly: true})
}

type tx struct {
	store    *Store
	rtx      *redis.Tx
	writes   map[string][]byte
	order    []string
	readOnly bool
}

func (t *tx) read(ctx context.Context, key store.Key) ([]byte, error) {
	k := t.store.redisKey(key)
	if v, ok := t.writes[k]; ok {
		return bytes.Clone(v), nil
	}
	var cmd *redis.StringCmd
	if t.readOnly {
		cmd = t.store.client.Get(ctx, k)
	} else {
		if err := t.rtx.Watch(ctx, k).Err(); err != nil {
			return nil, fmt.Errorf("redisstore: watch %s: %w", key, err)
		}
		cmd = t.rtx.Get(ctx, k)
	}
	v, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redisstore: get %s: %w", key, err)
	}
	return v, nil
}

func (t *tx) Get(ctx context.Context, key store.Key) ([]byte, error) {
	return t.read(ctx, key)
}

func (t *tx) Insert(ctx context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	_, err := t.read(ctx, key)
	if err == nil {
		return store.ErrExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return t.Put(ctx, key, data)
}

func (t *tx) Put(_ context.Context, key store.Key, data []byte) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	k := t.store.redisKey(key)
	if _, ok := t.writes[k]; !ok {
		t.order = append(t.order, k)
	}
	t.writes[k] = bytes.Clone(data)
	return nil
}
