package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidAddress signals a malformed wallet or contract address.
var ErrInvalidAddress = errors.New("invalid wallet address")

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Address is a 20-byte account address in lower-case 0x hex. Wallets are
// compared case-insensitively everywhere in the marketplace, so the
// canonical form drops the checksum casing.
type Address string

// ZeroAddress is the empty account.
const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// ParseAddress validates raw and returns its canonical form.
func ParseAddress(raw string) (Address, error) {
	raw = strings.TrimSpace(raw)
	if !addressPattern.MatchString(raw) {
		return "", ErrInvalidAddress
	}
	return Address(strings.ToLower(raw)), nil
}

// MustParseAddress panics on malformed input; for constants and tests.
func MustParseAddress(raw string) Address {
	addr, err := ParseAddress(raw)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string { return string(a) }

// IsZero reports an unset or zero address.
func (a Address) IsZero() bool {
	return a == "" || a == ZeroAddress
}

// Equal compares addresses ignoring case.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}
