// Package storetest checks that a store.Store backend honours the transaction
// contract the gate relies on.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"transfer-gate/internal/address"
	"transfer-gate/internal/store"
)

var errAbort = errors.New("abort")

// Run executes the conformance suite against stores created by newStore.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("InsertThenGet", func(t *testing.T) { testInsertThenGet(t, newStore(t)) })
	t.Run("InsertExisting", func(t *testing.T) { testInsertExisting(t, newStore(t)) })
	t.Run("PutOverwrites", func(t *testing.T) { testPutOverwrites(t, newStore(t)) })
	t.Run("ReadYourWrites", func(t *testing.T) { testReadYourWrites(t, newStore(t)) })
	t.Run("RollbackOnError", func(t *testing.T) { testRollbackOnError(t, newStore(t)) })
	t.Run("ViewIsReadOnly", func(t *testing.T) { testViewIsReadOnly(t, newStore(t)) })
	t.Run("KeysAreDistinct", func(t *testing.T) { testKeysAreDistinct(t, newStore(t)) })
	t.Run("ConcurrentIncrements", func(t *testing.T) { testConcurrentIncrements(t, newStore(t)) })
}

func key(kind store.Kind, b byte) store.Key {
	return store.Key{Kind: kind, Owner: address.Address{b}}
}

func get(t *testing.T, s store.Store, k store.Key) ([]byte, error) {
	t.Helper()
	var out []byte
	err := s.View(context.Background(), func(tx store.Tx) error {
		v, err := tx.Get(context.Background(), k)
		out = v
		return err
	})
	return out, err
}

func testGetMissing(t *testing.T, s store.Store) {
	if _, err := get(t, s, key(store.KindIdentity, 1)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func testInsertThenGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindIdentity, 1)
	if err := s.Update(ctx, func(tx store.Tx) error {
		return tx.Insert(ctx, k, []byte("hello"))
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	v, err := get(t, s, k)
	if err != nil || !bytes.Equal(v, []byte("hello")) {
		t.Errorf("Get = %q, %v", v, err)
	}
}

func testInsertExisting(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindTwoAuth, 1)
	insert := func(data string) error {
		return s.Update(ctx, func(tx store.Tx) error {
			return tx.Insert(ctx, k, []byte(data))
		})
	}
	if err := insert("first"); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := insert("second"); !errors.Is(err, store.ErrExists) {
		t.Errorf("second Insert = %v, want ErrExists", err)
	}
	v, _ := get(t, s, k)
	if string(v) != "first" {
		t.Errorf("record = %q, want first", v)
	}
}

func testPutOverwrites(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindApproval, 1)
	for _, data := range []string{"a", "bb"} {
		if err := s.Update(ctx, func(tx store.Tx) error {
			return tx.Put(ctx, k, []byte(data))
		}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	v, _ := get(t, s, k)
	if string(v) != "bb" {
		t.Errorf("record = %q, want bb", v)
	}
}

func testReadYourWrites(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindLastTx, 1)
	err := s.Update(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, k, []byte("x")); err != nil {
			return err
		}
		v, err := tx.Get(ctx, k)
		if err != nil {
			return err
		}
		if string(v) != "x" {
			t.Errorf("Get inside tx = %q", v)
		}
		if err := tx.Insert(ctx, k, []byte("y")); !errors.Is(err, store.ErrExists) {
			t.Errorf("Insert after Put in same tx = %v, want ErrExists", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func testRollbackOnError(t *testing.T, s store.Store) {
	ctx := context.Background()
	a, b := key(store.KindIdentity, 1), key(store.KindLastTx, 1)
	err := s.Update(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, a, []byte("a")); err != nil {
			return err
		}
		if err := tx.Put(ctx, b, []byte("b")); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("Update = %v, want errAbort", err)
	}
	for _, k := range []store.Key{a, b} {
		if _, err := get(t, s, k); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("%v after rollback = %v, want ErrNotFound", k, err)
		}
	}
}

func testViewIsReadOnly(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindIdentity, 1)
	err := s.View(ctx, func(tx store.Tx) error {
		if err := tx.Put(ctx, k, []byte("x")); !errors.Is(err, store.ErrReadOnly) {
			t.Errorf("Put in View = %v, want ErrReadOnly", err)
		}
		if err := tx.Insert(ctx, k, []byte("x")); !errors.Is(err, store.ErrReadOnly) {
			t.Errorf("Insert in View = %v, want ErrReadOnly", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func testKeysAreDistinct(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.Update(ctx, func(tx store.Tx) error {
		for i, kind := range store.Kinds {
			if err := tx.Insert(ctx, key(kind, 1), []byte{byte(i)}); err != nil {
				return err
			}
		}
		return tx.Insert(ctx, key(store.KindIdentity, 2), []byte{99})
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	for i, kind := range store.Kinds {
		v, err := get(t, s, key(kind, 1))
		if err != nil || len(v) != 1 || v[0] != byte(i) {
			t.Errorf("%s = %v, %v", kind, v, err)
		}
	}
}

// testConcurrentIncrements checks that read-modify-write transactions are serializable.
func testConcurrentIncrements(t *testing.T, s store.Store) {
	ctx := context.Background()
	k := key(store.KindLastTx, 7)
	const workers, rounds = 4, 10
	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				errs <- s.Update(ctx, func(tx store.Tx) error {
					v, err := tx.Get(ctx, k)
					if errors.Is(err, store.ErrNotFound) {
						v, err = []byte{0}, nil
					}
					if err != nil {
						return err
					}
					return tx.Put(ctx, k, []byte{v[0] + 1})
				})
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	v, err := get(t, s, k)
	if err != nil || v[0] != workers*rounds {
		t.Errorf("counter = %v, %v; want %d", v, err, workers*rounds)
	}
}
