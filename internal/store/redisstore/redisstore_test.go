package redisstore

import (
	"context"
	"strings"
	"testing"

	"transfer-gate/internal/address"
	"transfer-gate/internal/store"
)

func TestRedisKey(t *testing.T) {
	s := New(nil, DefaultPrefix)
	key := store.Key{Kind: store.KindApproval, Owner: address.Address{0xab}}
	want := "tgate:transaction_approval:ab" + strings.Repeat("0", 62)
	if got := s.redisKey(key); got != want {
		t.Errorf("redisKey = %q, want %q", got, want)
	}
}

func TestOpen_InvalidURL(t *testing.T) {
	for _, url := range []string{"", "http://localhost:6379", "redis://localhost:6379/notadb"} {
		if s, err := Open(context.Background(), url); err == nil {
			_ = s.Close()
			t.Errorf("Open(%q) should fail", url)
		}
	}
}

func TestView_RejectsWrites(t *testing.T) {
	s := New(nil, DefaultPrefix)
	ctx := context.Background()
	err := s.View(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, store.Key{Kind: store.KindLastTx}, []byte{1}); err != store.ErrReadOnly {
			t.Errorf("Put = %v, want ErrReadOnly", err)
		}
		if err := tx.Insert(ctx, store.Key{Kind: store.KindLastTx}, []byte{1}); err != store.ErrReadOnly {
			t.Errorf("Insert = %v, want ErrReadOnly", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}
