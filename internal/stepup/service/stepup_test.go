package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"transfer-gate/internal/address"
	identitydomain "transfer-gate/internal/identity/domain"
	"transfer-gate/internal/ledger"
	"transfer-gate/internal/mfa"
	"transfer-gate/internal/stepup/domain"
	"transfer-gate/internal/stepup/repository"
	"transfer-gate/internal/store"
	"transfer-gate/internal/store/memory"
)

var (
	owner    = address.Address{1}
	account  = address.Address{0xa1}
	dest     = address.Address{0xb1}
	approver = address.Address{3}
	t0       = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
)

type fakeCodes struct {
	enrolled map[address.Address]string
}

func (f fakeCodes) Enrolled(a address.Address) bool {
	_, ok := f.enrolled[a]
	return ok
}

func (f fakeCodes) Verify(a address.Address, code string, _ time.Time) bool {
	return f.enrolled[a] == code
}

var errSerialization = errors.New("serialization failure")

// rerunStore runs every Update closure twice, rolling back the first run the
// way a backend does after a serialization conflict.
type rerunStore struct {
	store.Store
	updates int
}

func (r *rerunStore) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	r.updates++
	err := r.Store.Update(ctx, func(tx store.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errSerialization
	})
	if err != errSerialization {
		return err
	}
	return r.Store.Update(ctx, fn)
}

type countingCodes struct {
	fakeCodes
	verified int
}

func (c *countingCodes) Verify(a address.Address, code string, now time.Time) bool {
	c.verified++
	return c.fakeCodes.Verify(a, code, now)
}

func newService(t *testing.T, codes CodeVerifier) *Service {
	t.Helper()
	return newServiceOn(t, memory.New(), codes)
}

func newServiceOn(t *testing.T, st store.Store, codes CodeVerifier) *Service {
	t.Helper()
	led := ledger.NewMemory(ledger.DeriveAuthority("test"))
	if err := led.OpenAccount(account, owner, 1000); err != nil {
		t.Fatal(err)
	}
	return NewService(st, repository.NewStoreRepository(), led, codes).
		WithClock(func() time.Time { return t0 })
}

func onMax(max uint64) []domain.Function {
	return []domain.Function{{Kind: domain.OnMax, Max: max}}
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	if _, err := s.Initialize(ctx, address.Address{9}, account, onMax(100), approver, nil); err != identitydomain.ErrAccountOwnerMismatch {
		t.Errorf("Initialize by non-owner = %v, want ErrAccountOwnerMismatch", err)
	}
	if _, err := s.Initialize(ctx, owner, account, []domain.Function{{Kind: domain.Kind(99)}}, approver, nil); err != domain.ErrInvalidFunction {
		t.Errorf("Initialize with unknown rule = %v, want ErrInvalidFunction", err)
	}
	if _, err := s.Initialize(ctx, owner, account, onMax(100), approver, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := s.Initialize(ctx, owner, account, onMax(5), approver, nil); err != domain.ErrStepUpAlreadyInitialized {
		t.Errorf("second Initialize = %v, want ErrStepUpAlreadyInitialized", err)
	}
	slot, err := s.GetApproval(ctx, owner)
	if err != nil || slot.Active {
		t.Errorf("initial slot = %+v, %v; want inactive", slot, err)
	}
	params, err := s.GetParameters(ctx, account)
	if err != nil || params.Approver != approver || params.Owner != owner {
		t.Errorf("GetParameters = %+v, %v", params, err)
	}
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	s := newService(t, nil)
	tx := domain.Transaction{Source: account, Destination: dest, Amount: 150}
	if _, err := s.Approve(ctx, approver, tx, ""); err != domain.ErrStepUpNotInitialized {
		t.Errorf("Approve before Initialize = %v, want ErrStepUpNotInitialized", err)
	}
	if _, err := s.Initialize(ctx, owner, account, onMax(100), approver, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := s.Approve(ctx, owner, tx, ""); err != domain.ErrNotAuthorized {
		t.Errorf("Approve by owner = %v, want ErrNotAuthorized", err)
	}
	future := tx
	future.Time = t0.Add(time.Minute)
	if _, err := s.Approve(ctx, approver, future, ""); err != domain.ErrInvalidTransactionTime {
		t.Errorf("Approve future = %v, want ErrInvalidTransactionTime", err)
	}
	got, err := s.Approve(ctx, approver, tx, "")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !got.Active || !got.Transaction.Time.Equal(t0) || got.Transaction.Amount != 150 {
		t.Errorf("approval = %+v", got)
	}
	slot, _ := s.GetApproval(ctx, owner)
	if !slot.Active || !slot.Transaction.Matches(tx) {
		t.Errorf("stored slot = %+v", slot)
	}
}

func TestApprove_OneTimeCode(t *testing.T) {
	ctx := context.Background()
	s := newService(t, fakeCodes{enrolled: map[address.Address]string{approver: "123456"}})
	if _, err := s.Initialize(ctx, owner, account, onMax(100), approver, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	tx := domain.Transaction{Source: account, Destination: dest, Amount: 150}
	if _, err := s.Approve(ctx, approver, tx, "000000"); err != domain.ErrNotAuthorized {
		t.Errorf("Approve with wrong code = %v, want ErrNotAuthorized", err)
	}
	if _, err := s.Approve(ctx, approver, tx, "123456"); err != nil {
		t.Errorf("Approve with code = %v", err)
	}
}

func TestApprove_OneTimeCodeSurvivesRerun(t *testing.T) {
	ctx := context.Background()
	secret, _, err := mfa.GenerateSecret("tgate-test", approver)
	if err != nil {
		t.Fatal(err)
	}
	st := &rerunStore{Store: memory.New()}
	s := newServiceOn(t, st, mfa.NewTOTP(map[address.Address]string{approver: secret}))
	if _, err := s.Initialize(ctx, owner, account, onMax(100), approver, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	code, err := mfa.Code(secret, t0)
	if err != nil {
		t.Fatal(err)
	}
	tx := domain.Transaction{Source: account, Destination: dest, Amount: 150}
	before := st.updates
	if _, err := s.Approve(ctx, approver, tx, code); err != nil {
		t.Fatalf("Approve with a fresh code under a rerun transaction = %v", err)
	}
	if st.updates != before+1 {
		t.Errorf("Approve ran %d updates, want 1", st.updates-before)
	}
	slot, err := s.GetApproval(ctx, owner)
	if err != nil || !slot.Active || !slot.Transaction.Matches(tx) {
		t.Errorf("stored slot = %+v, %v", slot, err)
	}
	if _, err := s.Approve(ctx, approver, tx, code); err != domain.ErrNotAuthorized {
		t.Errorf("Approve replaying the code = %v, want ErrNotAuthorized", err)
	}
}

func TestApprove_WrongApproverKeepsCode(t *testing.T) {
	ctx := context.Background()
	codes := &countingCodes{fakeCodes: fakeCodes{enrolled: map[address.Address]string{approver: "123456"}}}
	s := newService(t, codes)
	if _, err := s.Initialize(ctx, owner, account, onMax(100), approver, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	tx := domain.Transaction{Source: account, Destination: dest, Amount: 150}
	if _, err := s.Approve(ctx, address.Address{8}, tx, "123456"); err != domain.ErrNotAuthorized {
		t.Errorf("Approve by a stranger = %v, want ErrNotAuthorized", err)
	}
	if codes.verified != 0 {
		t.Errorf("codes verified %d times before the approver check, want 0", codes.verified)
	}
}

func TestGetApproval_NotInitialized(t *testing.T) {
	s := newService(t, nil)
	if _, err := s.GetApproval(context.Background(), owner); err != domain.ErrStepUpNotInitialized {
		t.Errorf("GetApproval = %v, want ErrStepUpNotInitialized", err)
	}
}
