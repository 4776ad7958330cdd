// Package ledger is the boundary to the fungible asset ledger. The gate never
// moves balances itself: it asks the ledger to prepare a batch of effects under
// its derived authority and commits the batch once its own records are durable.
package ledger

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"transfer-gate/internal/address"
)

var (
	ErrAccountNotFound   = errors.New("ledger: account not found")
	ErrAccountExists     = errors.New("ledger: account already exists")
	ErrAccountClosed     = errors.New("ledger: account closed")
	ErrAccountNotEmpty   = errors.New("ledger: account balance is not zero")
	ErrAccountBusy       = errors.New("ledger: account reserved by another batch")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrWrongAuthority    = errors.New("ledger: effects not signed by the gate authority")
	ErrNotOwner          = errors.New("ledger: signer does not own the account")
	ErrBatchDone         = errors.New("ledger: batch already committed or aborted")
)

// Authority is the gate's capability over the asset. It is derived from a
// seed, never held as a person's key.
type Authority struct {
	addr address.Address
}

// DeriveAuthority derives the authority for seed.
func DeriveAuthority(seed string) Authority {
	return Authority{addr: sha256.Sum256([]byte("tgate/ledger-authority/" + seed))}
}

// Address returns the authority's address.
func (a Authority) Address() address.Address {
	return a.addr
}

// EffectKind is a balance operation.
type EffectKind int

const (
	EffectBurn EffectKind = iota + 1
	EffectMint
	EffectClose
)

func (k EffectKind) String() string {
	switch k {
	case EffectBurn:
		return "burn"
	case EffectMint:
		return "mint"
	case EffectClose:
		return "close"
	default:
		return "unknown"
	}
}

// Effect is one balance operation on one account. Close ignores Amount.
type Effect struct {
	Kind    EffectKind
	Account address.Address
	Amount  uint64
}

func (e Effect) String() string {
	if e.Kind == EffectClose {
		return fmt.Sprintf("close(%s)", e.Account)
	}
	return fmt.Sprintf("%s(%s, %d)", e.Kind, e.Account, e.Amount)
}

// Burn removes amount from account.
func Burn(account address.Address, amount uint64) Effect {
	return Effect{Kind: EffectBurn, Account: account, Amount: amount}
}

// Mint adds amount to account.
func Mint(account address.Address, amount uint64) Effect {
	return Effect{Kind: EffectMint, Account: account, Amount: amount}
}

// Close closes an account with zero balance.
func Close(account address.Address) Effect {
	return Effect{Kind: EffectClose, Account: account}
}

// Batch is a prepared, validated set of effects holding its accounts.
// Exactly one of Commit or Abort takes effect; Abort after Commit is a no-op.
type Batch interface {
	Commit(ctx context.Context) error
	Abort()
}

// Service is the ledger as seen by the gate.
type Service interface {
	AccountOwner(ctx context.Context, account address.Address) (address.Address, error)
	Balance(ctx context.Context, account address.Address) (uint64, error)
	// Prepare validates effects in order against current balances and reserves
	// every touched account until the batch is committed or aborted.
	Prepare(ctx context.Context, authority Authority, effects []Effect) (Batch, error)
}

// Transfer is a value movement presented to the transfer hook.
type Transfer struct {
	Source      address.Address
	Destination address.Address
	Owner       address.Address
	Amount      uint64
}

// Hook authorizes a transfer before it settles. A non-nil error cancels it.
type Hook func(ctx context.Context, t Transfer) error
