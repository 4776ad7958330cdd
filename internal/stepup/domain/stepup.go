package domain

import (
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/rejection"
)

// Step-up rejections.
var (
	ErrNotAuthorized            = rejection.New(rejection.StepUpAuthorization, "NotAuthorized", "not authorized")
	ErrExpiredApproval          = rejection.New(rejection.StepUpAuthorization, "ExpiredApproval", "approval expired")
	ErrStepUpNotInitialized     = rejection.New(rejection.Provisioning, "StepUpNotInitialized", "step-up not initialized")
	ErrStepUpAlreadyInitialized = rejection.New(rejection.Provisioning, "StepUpAlreadyInitialized", "step-up already initialized")
	ErrInvalidFunction          = rejection.New(rejection.Provisioning, "InvalidFunction", "invalid step-up function")
	ErrInvalidTransactionTime   = rejection.New(rejection.Provisioning, "InvalidTransactionTime", "transaction time is in the future")
)

// DefaultApprovalWindow is how long an approval stays usable after its transaction time.
const DefaultApprovalWindow = 5000 * time.Second

// Parameters is the step-up policy of one asset account.
type Parameters struct {
	Owner          address.Address
	Functions      []Function
	Approver       address.Address
	AllowedIssuers []address.Address
}

// NewParameters validates every rule and copies the lists.
func NewParameters(owner address.Address, functions []Function, approver address.Address, allowedIssuers []address.Address) (*Parameters, error) {
	for _, f := range functions {
		if err := f.Validate(); err != nil {
			return nil, err
		}
	}
	p := &Parameters{
		Owner:          owner,
		Functions:      append([]Function(nil), functions...),
		Approver:       approver,
		AllowedIssuers: append([]address.Address(nil), allowedIssuers...),
	}
	return p, nil
}

// RequiresStepUp evaluates the account's rules for amount.
func (p *Parameters) RequiresStepUp(amount uint64) bool {
	return RequiresStepUp(amount, p.Functions)
}

// CheckApprover returns ErrNotAuthorized unless signer is the designated approver.
func (p *Parameters) CheckApprover(signer address.Address) error {
	if signer != p.Approver {
		return ErrNotAuthorized
	}
	return nil
}

// Transaction identifies a transfer. Time is when the approver signed off.
type Transaction struct {
	Source      address.Address
	Destination address.Address
	Amount      uint64
	Time        time.Time
}

// Matches compares source, destination and amount. Time is not part of the match.
func (t Transaction) Matches(o Transaction) bool {
	return t.Source == o.Source && t.Destination == o.Destination && t.Amount == o.Amount
}

// Stamp fills a zero Time with now and rejects times after now.
func (t *Transaction) Stamp(now time.Time) error {
	if t.Time.IsZero() {
		t.Time = now
		return nil
	}
	if t.Time.After(now) {
		return ErrInvalidTransactionTime
	}
	return nil
}

// Approval is the single pending approval slot of an owner.
type Approval struct {
	Transaction Transaction
	Active      bool
}

// Approve overwrites the slot with tx, active.
func (a *Approval) Approve(tx Transaction) {
	a.Transaction = tx
	a.Active = true
}

// Check validates the pending approval against tx. A mismatch or an inactive
// slot is ErrNotAuthorized; a match older than window is ErrExpiredApproval.
func (a *Approval) Check(tx Transaction, now time.Time, window time.Duration) error {
	if !a.Active || !a.Transaction.Matches(tx) {
		return ErrNotAuthorized
	}
	if now.After(a.Transaction.Time.Add(window)) {
		return ErrExpiredApproval
	}
	return nil
}

// Consume checks the approval and clears the active flag on success.
func (a *Approval) Consume(tx Transaction, now time.Time, window time.Duration) error {
	if err := a.Check(tx, now, window); err != nil {
		return err
	}
	a.Active = false
	return nil
}
