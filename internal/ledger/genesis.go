package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"transfer-gate/internal/address"
)

// Genesis is an account opened when the in-process ledger starts.
type Genesis struct {
	Account address.Address
	Owner   address.Address
	Balance uint64
}

// ParseGenesis parses "account=owner:balance" entries separated by commas.
func ParseGenesis(s string) ([]Genesis, error) {
	var out []Genesis
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		acct, rest, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("ledger account entry %q: want account=owner:balance", part)
		}
		owner, bal, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("ledger account entry %q: want account=owner:balance", part)
		}
		var g Genesis
		var err error
		if g.Account, err = address.Parse(acct); err != nil {
			return nil, fmt.Errorf("ledger account entry %q: %w", part, err)
		}
		if g.Owner, err = address.Parse(owner); err != nil {
			return nil, fmt.Errorf("ledger account entry %q: %w", part, err)
		}
		if g.Balance, err = strconv.ParseUint(strings.TrimSpace(bal), 10, 64); err != nil {
			return nil, fmt.Errorf("ledger account entry %q: %w", part, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// OpenGenesis opens every genesis account in m.
func (m *Memory) OpenGenesis(accounts []Genesis) error {
	for _, g := range accounts {
		if err := m.OpenAccount(g.Account, g.Owner, g.Balance); err != nil {
			return err
		}
	}
	return nil
}
