package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/memory"
)

func TestStoreRepository(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	repo := NewStoreRepository()
	owner, account := address.Address{1}, address.Address{2}
	params, err := domain.NewParameters(owner, []domain.Function{{Kind: domain.OnMax, Max: 10}}, address.Address{3}, nil)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	approval := &domain.Approval{
		Transaction: domain.Transaction{Source: account, Destination: address.Address{4}, Amount: 10, Time: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		Active:      true,
	}

	err = s.Update(ctx, func(tx store.Tx) error {
		if p, err := repo.GetParameters(ctx, tx, account); p != nil || err != nil {
			t.Errorf("GetParameters missing = %v, %v", p, err)
		}
		if a, err := repo.GetApproval(ctx, tx, owner); a != nil || err != nil {
			t.Errorf("GetApproval missing = %v, %v", a, err)
		}
		if err := repo.CreateParameters(ctx, tx, account, params); err != nil {
			return err
		}
		return repo.PutApproval(ctx, tx, owner, approval)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	err = s.Update(ctx, func(tx store.Tx) error {
		return repo.CreateParameters(ctx, tx, account, params)
	})
	if err != domain.ErrStepUpAlreadyInitialized {
		t.Errorf("second CreateParameters = %v, want ErrStepUpAlreadyInitialized", err)
	}

	_ = s.View(ctx, func(tx store.Tx) error {
		p, err := repo.GetParameters(ctx, tx, account)
		if err != nil || !reflect.DeepEqual(p, params) {
			t.Errorf("GetParameters = %+v, %v", p, err)
		}
		a, err := repo.GetApproval(ctx, tx, owner)
		if err != nil || !reflect.DeepEqual(a, approval) {
			t.Errorf("GetApproval = %+v, %v", a, err)
		}
		return nil
	})
}
