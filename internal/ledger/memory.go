package ledger

import (
	"context"
	"fmt"
	"sync"

	"transfer-gate/internal/address"
)

type account struct {
	owner    address.Address
	balance  uint64
	closed   bool
	reserved bool
}

// Memory is an in-process ledger used by tests and single-node deployments.
// Transfers run the hook between reserving and settling; the ledger's lock is
// not held while the hook runs.
type Memory struct {
	mu        sync.Mutex
	authority Authority
	accounts  map[address.Address]*account
	hook      Hook
}

// NewMemory returns an empty ledger that accepts effects signed by authority.
func NewMemory(authority Authority) *Memory {
	return &Memory{authority: authority, accounts: make(map[address.Address]*account)}
}

// SetHook installs the transfer hook.
func (m *Memory) SetHook(h Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = h
}

// OpenAccount creates an account owned by owner holding balance.
func (m *Memory) OpenAccount(acct, owner address.Address, balance uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[acct]; ok {
		return ErrAccountExists
	}
	m.accounts[acct] = &account{owner: owner, balance: balance}
	return nil
}

// Closed reports whether acct exists and has been closed.
func (m *Memory) Closed(acct address.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[acct]
	return ok && a.closed
}

func (m *Memory) lookup(acct address.Address) (*account, error) {
	a, ok := m.accounts[acct]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, acct)
	}
	if a.closed {
		return nil, fmt.Errorf("%w: %s", ErrAccountClosed, acct)
	}
	return a, nil
}

// AccountOwner implements Service.
func (m *Memory) AccountOwner(_ context.Context, acct address.Address) (address.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.lookup(acct)
	if err != nil {
		return address.Zero, err
	}
	return a.owner, nil
}

// Balance implements Service.
func (m *Memory) Balance(_ context.Context, acct address.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.lookup(acct)
	if err != nil {
		return 0, err
	}
	return a.balance, nil
}

// Prepare implements Service.
func (m *Memory) Prepare(_ context.Context, authority Authority, effects []Effect) (Batch, error) {
	if authority != m.authority {
		return nil, ErrWrongAuthority
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	balances := make(map[address.Address]uint64)
	closed := make(map[address.Address]bool)
	var touched []address.Address
	for _, e := range effects {
		a, err := m.lookup(e.Account)
		if err != nil {
			return nil, err
		}
		if a.reserved {
			return nil, fmt.Errorf("%w: %s", ErrAccountBusy, e.Account)
		}
		bal, seen := balances[e.Account]
		if !seen {
			bal = a.balance
			touched = append(touched, e.Account)
		}
		if closed[e.Account] {
			return nil, fmt.Errorf("%w: %s", ErrAccountClosed, e.Account)
		}
		switch e.Kind {
		case EffectBurn:
			if bal < e.Amount {
				return nil, fmt.Errorf("%w: %s", ErrInsufficientFunds, e.Account)
			}
			bal -= e.Amount
		case EffectMint:
			if bal+e.Amount < bal {
				return nil, fmt.Errorf("ledger: mint overflows %s", e.Account)
			}
			bal += e.Amount
		case EffectClose:
			if bal != 0 {
				return nil, fmt.Errorf("%w: %s", ErrAccountNotEmpty, e.Account)
			}
			closed[e.Account] = true
		default:
			return nil, fmt.Errorf("ledger: unknown effect %d", e.Kind)
		}
		balances[e.Account] = bal
	}
	for _, acct := range touched {
		m.accounts[acct].reserved = true
	}
	return &memoryBatch{ledger: m, touched: touched, balances: balances, closed: closed}, nil
}

type memoryBatch struct {
	ledger   *Memory
	touched  []address.Address
	balances map[address.Address]uint64
	closed   map[address.Address]bool
	done     bool
}

func (b *memoryBatch) Commit(_ context.Context) error {
	m := b.ledger
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.done {
		return ErrBatchDone
	}
	b.done = true
	for _, acct := range b.touched {
		a := m.accounts[acct]
		a.balance = b.balances[acct]
		a.closed = b.closed[acct]
		a.reserved = false
	}
	return nil
}

func (b *memoryBatch) Abort() {
	m := b.ledger
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	for _, acct := range b.touched {
		m.accounts[acct].reserved = false
	}
}

// Transfer moves amount from source to destination on behalf of signer, who
// must own source. Both accounts are reserved while the hook decides.
func (m *Memory) Transfer(ctx context.Context, signer, source, destination address.Address, amount uint64) error {
	m.mu.Lock()
	src, err := m.lookup(source)
	if err == nil && src.owner != signer {
		err = ErrNotOwner
	}
	var dst *account
	if err == nil {
		dst, err = m.lookup(destination)
	}
	if err == nil && (src.reserved || dst.reserved) {
		err = ErrAccountBusy
	}
	if err == nil && src.balance < amount {
		err = ErrInsufficientFunds
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}
	src.reserved, dst.reserved = true, true
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		err = hook(ctx, Transfer{Source: source, Destination: destination, Owner: signer, Amount: amount})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	src.reserved, dst.reserved = false, false
	if err != nil {
		return err
	}
	if source != destination {
		src.balance -= amount
		dst.balance += amount
	}
	return nil
}

var _ Service = (*Memory)(nil)
