// Package store defines the derived-key record store behind the gate. Every
// record is addressed by its kind and the address it was derived from, and all
// reads and writes of one operation happen inside a single transaction.
package store

import (
	"context"
	"errors"
	"fmt"

	"transfer-gate/internal/address"
)

// Kind names a record type.
type Kind string

const (
	// KindIdentity is keyed by the asset account.
	KindIdentity Kind = "identity"
	// KindRecoveryAuthority is keyed by the owner.
	KindRecoveryAuthority Kind = "recovery_authority"
	// KindLastTx is keyed by the owner.
	KindLastTx Kind = "last_tx"
	// KindTwoAuth is keyed by the asset account.
	KindTwoAuth Kind = "two_auth"
	// KindApproval is keyed by the owner.
	KindApproval Kind = "transaction_approval"
)

// Kinds lists every record kind.
var Kinds = []Kind{KindIdentity, KindRecoveryAuthority, KindLastTx, KindTwoAuth, KindApproval}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Key addresses one record.
type Key struct {
	Kind  Kind
	Owner address.Address
}

func (k Key) String() string {
	return string(k.Kind) + ":" + k.Owner.String()
}

var (
	// ErrNotFound is returned by Get when no record exists under the key.
	ErrNotFound = errors.New("store: record not found")
	// ErrExists is returned by Insert when a record already exists under the key.
	ErrExists = errors.New("store: record already exists")
	// ErrReadOnly is returned by writes inside View.
	ErrReadOnly = errors.New("store: read-only transaction")
	// ErrConflict is returned when a transaction kept conflicting with concurrent writers.
	ErrConflict = errors.New("store: transaction conflict")
)

// Tx is the view of the store inside one transaction. Returned slices are owned
// by the caller.
type Tx interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	// Insert creates the record, or returns ErrExists.
	Insert(ctx context.Context, key Key, data []byte) error
	// Put creates or overwrites the record.
	Put(ctx context.Context, key Key, data []byte) error
}

// Store runs transactions. fn may run more than once when a backend retries
// after a serialization conflict; it must not have effects outside tx that
// cannot be repeated.
type Store interface {
	// Update commits every write of fn, or none of them when fn returns an error.
	Update(ctx context.Context, fn func(tx Tx) error) error
	// View runs fn without write access.
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// MaxAttempts bounds how often a backend reruns a conflicting transaction.
const MaxAttempts = 10

// Conflict wraps ErrConflict with the last backend error.
func Conflict(err error) error {
	return fmt.Errorf("%w after %d attempts: %v", ErrConflict, MaxAttempts, err)
}
