package service

import (
	"context"
	"time"

	"transfer-gate/internal/address"
	identityservice "transfer-gate/internal/identity/service"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/stepup/repository"
	"transfer-gate/internal/store"
)

// CodeVerifier checks approver one-time codes. Approvers without an enrolled
// secret are not asked for one.
type CodeVerifier interface {
	Enrolled(approver address.Address) bool
	Verify(approver address.Address, code string, now time.Time) bool
}

// Service runs the step-up approval protocol.
type Service struct {
	store  store.Store
	repo   repository.Repository
	owners identityservice.AccountOwners
	codes  CodeVerifier
	now    func() time.Time
}

// NewService returns a step-up service. codes may be nil.
func NewService(st store.Store, repo repository.Repository, owners identityservice.AccountOwners, codes CodeVerifier) *Service {
	return &Service{
		store:  st,
		repo:   repo,
		owners: owners,
		codes:  codes,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Initialize stores the step-up policy of account and opens the owner's
// approval slot, inactive.
func (s *Service) Initialize(ctx context.Context, owner, account address.Address, functions []domain.Function, approver address.Address, allowedIssuers []address.Address) (*domain.Parameters, error) {
	params, err := domain.NewParameters(owner, functions, approver, allowedIssuers)
	if err != nil {
		return nil, err
	}
	if err := identityservice.CheckAccountOwner(ctx, s.owners, owner, account); err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, func(tx store.Tx) error {
		if err := s.repo.CreateParameters(ctx, tx, account, params); err != nil {
			return err
		}
		slot, err := s.repo.GetApproval(ctx, tx, owner)
		if err != nil {
			return err
		}
		if slot != nil {
			return nil
		}
		return s.repo.PutApproval(ctx, tx, owner, &domain.Approval{})
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}

// Approve records approver's sign-off on tx, replacing any pending approval of
// the source account's owner. A zero tx.Time is stamped with the current time.
// The one-time code is consumed before the write transaction, which the store
// may rerun.
func (s *Service) Approve(ctx context.Context, approver address.Address, tx domain.Transaction, code string) (*domain.Approval, error) {
	now := s.now()
	if err := tx.Stamp(now); err != nil {
		return nil, err
	}
	err := s.store.View(ctx, func(stx store.Tx) error {
		_, err := s.approverParams(ctx, stx, approver, tx.Source)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.codes != nil && s.codes.Enrolled(approver) && !s.codes.Verify(approver, code, now) {
		return nil, domain.ErrNotAuthorized
	}
	var approval *domain.Approval
	err = s.store.Update(ctx, func(stx store.Tx) error {
		params, err := s.approverParams(ctx, stx, approver, tx.Source)
		if err != nil {
			return err
		}
		approval = &domain.Approval{}
		approval.Approve(tx)
		return s.repo.PutApproval(ctx, stx, params.Owner, approval)
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// approverParams returns the step-up policy of source once approver is its approver.
func (s *Service) approverParams(ctx context.Context, stx store.Tx, approver, source address.Address) (*domain.Parameters, error) {
	params, err := s.repo.GetParameters(ctx, stx, source)
	if err != nil {
		return nil, err
	}
	if params == nil {
		return nil, domain.ErrStepUpNotInitialized
	}
	if err := params.CheckApprover(approver); err != nil {
		return nil, err
	}
	return params, nil
}

// GetApproval returns the approval slot of owner.
func (s *Service) GetApproval(ctx context.Context, owner address.Address) (*domain.Approval, error) {
	var approval *domain.Approval
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		approval, err = s.repo.GetApproval(ctx, tx, owner)
		if err != nil {
			return err
		}
		if approval == nil {
			return domain.ErrStepUpNotInitialized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// GetParameters returns the step-up policy of account.
func (s *Service) GetParameters(ctx context.Context, account address.Address) (*domain.Parameters, error) {
	var params *domain.Parameters
	err := s.store.View(ctx, func(tx store.Tx) error {
		var err error
		params, err = s.repo.GetParameters(ctx, tx, account)
		if err != nil {
			return err
		}
		if params == nil {
			return domain.ErrStepUpNotInitialized
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}
