package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/identity/domain"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/memory"
)

func TestStoreRepository(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := NewStoreRepository()
	t0 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	account := address.Address{2}
	rec := domain.NewRecord(address.Address{1}, account, address.Address{3}, t0, time.Hour)

	err := s.Update(ctx, func(tx store.Tx) error {
		got, err := repo.Get(ctx, tx, account)
		if err != nil || got != nil {
			t.Errorf("Get missing = %v, %v; want nil, nil", got, err)
		}
		if err := repo.AppendIssuer(ctx, tx, account, domain.Issuer{}); err != domain.ErrIdentityNotFound {
			t.Errorf("AppendIssuer on missing = %v, want ErrIdentityNotFound", err)
		}
		return repo.Create(ctx, tx, rec)
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = s.Update(ctx, func(tx store.Tx) error {
		return repo.Create(ctx, tx, rec)
	})
	if err != domain.ErrIdentityAlreadyExists {
		t.Errorf("second Create = %v, want ErrIdentityAlreadyExists", err)
	}

	second := domain.Issuer{Key: address.Address{4}, LastModified: t0, ExpiresAt: t0.Add(time.Hour), Active: true}
	err = s.Update(ctx, func(tx store.Tx) error {
		if err := repo.AppendIssuer(ctx, tx, account, second); err != nil {
			return err
		}
		return repo.AppendRedirect(ctx, tx, account, address.Address{9})
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	_ = s.View(ctx, func(tx store.Tx) error {
		got, err := repo.Get(ctx, tx, account)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		want := &domain.Record{
			Owner:       rec.Owner,
			Account:     account,
			Issuers:     append(append([]domain.Issuer{}, rec.Issuers...), second),
			RecoveredTo: []address.Address{{9}},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Get = %+v, want %+v", got, want)
		}
		return nil
	})
}
