package domain

import (
	"time"

	"transfer-gate/internal/address"
	"transfer-gate/internal/rejection"
)

// Recovery rejections.
var (
	ErrNotEnoughSignatures        = rejection.New(rejection.RecoveryAuthorization, "NotEnoughSignatures", "not enough signatures")
	ErrRecoveryTimeNotPassed      = rejection.New(rejection.RecoveryAuthorization, "RecoveryTimeNotPassed", "recovery time not passed")
	ErrRecoveryNotInitialized     = rejection.New(rejection.Provisioning, "RecoveryNotInitialized", "recovery not initialized")
	ErrRecoveryAlreadyInitialized = rejection.New(rejection.Provisioning, "RecoveryAlreadyInitialized", "recovery already initialized")
	ErrInvalidThreshold           = rejection.New(rejection.Provisioning, "InvalidThreshold", "min signatures must be between 1 and the number of authorities")
)

// MaxMinSignatures is the largest threshold the persisted layout can hold.
const MaxMinSignatures = 255

// Authority is the recovery quorum of one original owner. Uniqueness of
// Authorities is not enforced; a repeated address still counts once per signer.
type Authority struct {
	Authorities   []address.Address
	MinSignatures uint8
}

// NewAuthority validates 1 <= minSignatures <= len(authorities).
func NewAuthority(authorities []address.Address, minSignatures int) (*Authority, error) {
	if minSignatures < 1 || minSignatures > len(authorities) || minSignatures > MaxMinSignatures {
		return nil, ErrInvalidThreshold
	}
	list := make([]address.Address, len(authorities))
	copy(list, authorities)
	return &Authority{Authorities: list, MinSignatures: uint8(minSignatures)}, nil
}

// CountSignatures counts distinct signers that are recovery authorities.
// Counting stops as soon as the threshold is reached.
func (a *Authority) CountSignatures(signers []address.Address) int {
	count := 0
	seen := make(map[address.Address]struct{}, len(signers))
	for _, s := range signers {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if address.Contains(a.Authorities, s) {
			count++
			if count >= int(a.MinSignatures) {
				return count
			}
		}
	}
	return count
}

// CheckQuorum returns ErrNotEnoughSignatures unless signers reach MinSignatures.
func (a *Authority) CheckQuorum(signers []address.Address) error {
	if a.CountSignatures(signers) < int(a.MinSignatures) {
		return ErrNotEnoughSignatures
	}
	return nil
}

// LastActivity is the timestamp of the owner's last successful transfer.
type LastActivity struct {
	LastTx time.Time
}

// Touch moves LastTx forward to now. It never moves backwards.
func (l *LastActivity) Touch(now time.Time) {
	if now.After(l.LastTx) {
		l.LastTx = now
	}
}

// CheckCooldown rejects recovery while the account has been active within cooldown.
func (l LastActivity) CheckCooldown(now time.Time, cooldown time.Duration) error {
	if l.LastTx.Add(cooldown).After(now) {
		return ErrRecoveryTimeNotPassed
	}
	return nil
}
