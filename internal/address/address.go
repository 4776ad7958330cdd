// Package address defines the 32-byte account address shared by every record and RPC.
package address

import (
	"encoding/hex"
	"errors"
	"strings"
)

// Size is the encoded length of an Address in bytes.
const Size = 32

// ErrInvalidAddress is returned when a string is not 64 hex characters.
var ErrInvalidAddress = errors.New("invalid address")

// Address identifies an owner, an asset account, an issuer or a signer.
type Address [Size]byte

// Zero is the unset address.
var Zero Address

// Parse decodes a 64-character hex address. Surrounding whitespace and a 0x prefix are accepted.
func Parse(s string) (Address, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	var a Address
	if len(s) != 2*Size {
		return a, ErrInvalidAddress
	}
	if _, err := hex.Decode(a[:], []byte(s)); err != nil {
		return a, ErrInvalidAddress
	}
	return a, nil
}

// MustParse is Parse that panics; for tests and constants only.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseList parses a comma-separated list, skipping empty entries.
func ParseList(s string) ([]Address, error) {
	var out []Address
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		a, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// FromBytes copies b into an Address. b must be exactly Size bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, ErrInvalidAddress
	}
	copy(a[:], b)
	return a, nil
}

// String returns the lowercase hex form.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether a is the unset address.
func (a Address) IsZero() bool {
	return a == Zero
}

// MarshalText implements encoding.TextMarshaler so addresses travel as hex in JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Contains reports whether list holds a.
func Contains(list []Address, a Address) bool {
	for _, x := range list {
		if x == a {
			return true
		}
	}
	return false
}
