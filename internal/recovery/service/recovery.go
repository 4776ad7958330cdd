package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
	identityrepo "transfer-gate/internal/identity/repository"
	identityservice "transfer-gate/internal/identity/service"
	"transfer-gate/internal/ledger"
	"transfer-gate/internal/recovery/domain"
	"transfer-gate/internal/recovery/repository"
	"transfer-gate/internal/rejection"
	"transfer-gate/internal/store"
)

// RecoverRequest asks to move a quarantined account's balance to a new account.
// Signers are the addresses whose signatures over this request were verified.
type RecoverRequest struct {
	Owner         address.Address
	SourceAccount address.Address
	NewOwner      address.Address
	NewAccount    address.Address
	Signers       []address.Address
}

// RecoverResult describes a completed recovery.
type RecoverResult struct {
	SourceAccount address.Address
	NewAccount    address.Address
	Amount        uint64
	RecoveredAt   time.Time
}

// Service runs the recovery quorum protocol.
type Service struct {
	store      store.Store
	repo       repository.Repository
	identities identityrepo.Repository
	ledger     ledger.Service
	authority  ledger.Authority
	cooldown   time.Duration
	now        func() time.Time
}

// NewService returns a recovery service. Balances move under authority; recovery
// is refused while the owner has transferred within cooldown.
func NewService(st store.Store, repo repository.Repository, identities identityrepo.Repository, led ledger.Service, authority ledger.Authority, cooldown time.Duration) *Service {
	return &Service{
		store:      st,
		repo:       repo,
		identities: identities,
		ledger:     led,
		authority:  authority,
		cooldown:   cooldown,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service's time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Initialize records the owner's recovery quorum and starts its activity clock.
func (s *Service) Initialize(ctx context.Context, owner address.Address, authorities []address.Address, minSignatures int) (*domain.Authority, error) {
	auth, err := domain.NewAuthority(authorities, minSignatures)
	if err != nil {
		return nil, err
	}
	now := s.now()
	err = s.store.Update(ctx, func(tx store.Tx) error {
		if err := s.repo.CreateAuthority(ctx, tx, owner, auth); err != nil {
			return err
		}
		return s.repo.PutLastActivity(ctx, tx, owner, domain.LastActivity{LastTx: now})
	})
	if err != nil {
		return nil, err
	}
	return auth, nil
}

// Recover redirects the source account to req.NewAccount and moves its whole
// balance there, closing the source. The registry change and the ledger effects
// are applied together or not at all.
func (s *Service) Recover(ctx context.Context, req RecoverRequest) (*RecoverResult, error) {
	if req.SourceAccount == req.NewAccount || req.NewAccount.IsZero() {
		return nil, rejection.ErrInvalidArgument
	}

	now := s.now()
	var (
		batch  ledger.Batch
		amount uint64
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if batch != nil {
			batch.Abort()
			batch = nil
		}
		auth, err := s.repo.GetAuthority(ctx, tx, req.Owner)
		if err != nil {
			return err
		}
		if auth == nil {
			return domain.ErrRecoveryNotInitialized
		}
		if err := auth.CheckQuorum(req.Signers); err != nil {
			return err
		}
		activity, err := s.repo.GetLastActivity(ctx, tx, req.Owner)
		if err != nil {
			return err
		}
		if activity == nil {
			return domain.ErrRecoveryNotInitialized
		}
		if err := activity.CheckCooldown(now, s.cooldown); err != nil {
			return err
		}
		rec, err := s.identities.Get(ctx, tx, req.SourceAccount)
		if err != nil {
			return err
		}
		if rec == nil {
			return identitydomain.ErrIdentityNotFound
		}
		if rec.Owner != req.Owner {
			return identitydomain.ErrAccountOwnerMismatch
		}
		if err := rec.MarkRecovered(req.NewAccount); err != nil {
			return err
		}
		if err := identityservice.CheckAccountOwner(ctx, s.ledger, req.Owner, req.SourceAccount); err != nil {
			return err
		}
		if err := identityservice.CheckAccountOwner(ctx, s.ledger, req.NewOwner, req.NewAccount); err != nil {
			return err
		}
		if err := s.identities.AppendRedirect(ctx, tx, req.SourceAccount, req.NewAccount); err != nil {
			return err
		}
		amount, err = s.ledger.Balance(ctx, req.SourceAccount)
		if err != nil {
			return fmt.Errorf("ledger balance of %s: %w", req.SourceAccount, err)
		}
		batch, err = s.ledger.Prepare(ctx, s.authority, []ledger.Effect{
			ledger.Burn(req.SourceAccount, amount),
			ledger.Mint(req.NewAccount, amount),
			ledger.Close(req.SourceAccount),
		})
		if err != nil {
			return fmt.Errorf("ledger prepare: %w", err)
		}
		return nil
	})
	if err != nil {
		if batch != nil {
			batch.Abort()
		}
		return nil, err
	}
	if err := batch.Commit(ctx); err != nil {
		log.Printf("recovery: ledger commit failed after %s was redirected to %s: %v", req.SourceAccount, req.NewAccount, err)
		return nil, fmt.Errorf("ledger commit: %w", err)
	}
	return &RecoverResult{
		SourceAccount: req.SourceAccount,
		NewAccount:    req.NewAccount,
		Amount:        amount,
		RecoveredAt:   now,
	}, nil
}
