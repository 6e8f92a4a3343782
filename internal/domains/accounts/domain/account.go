package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	ErrChallengeNotFound = errors.New("no pending sign-in challenge for wallet")
	ErrChallengeExpired  = errors.New("sign-in challenge expired")
	ErrInvalidSignature  = errors.New("signature is malformed")
	ErrSignerMismatch    = errors.New("signature was not produced by the wallet")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrNotAdministrator  = errors.New("wallet is not the marketplace administrator")
)

// Role is a capability derived from the wallet and the ledger.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleCommerce Role = "commerce"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// Challenge is a one-time message the wallet must sign to open a session.
type Challenge struct {
	Wallet    mdomain.Address
	Nonce     string
	Message   string
	ExpiresAt time.Time
}

// ChallengeMessage renders the text shown in the wallet's signing prompt.
func ChallengeMessage(wallet mdomain.Address, nonce string, issuedAt time.Time) string {
	return fmt.Sprintf("Sign in to the CBT marketplace\n\nWallet: %s\nNonce: %s\nIssued at: %s",
		wallet, nonce, issuedAt.UTC().Format(time.RFC3339))
}

func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Session is an authenticated wallet. Token is the bearer credential.
type Session struct {
	ID        string
	Wallet    mdomain.Address
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Account is what the storefront knows about a connected wallet.
type Account struct {
	Wallet    mdomain.Address
	Roles     []Role
	SellerRUC string
	Profile   mdomain.ClientProfile
	Balance   decimal.Decimal
}

func (a Account) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Registered reports whether the wallet can check out.
func (a Account) Registered() bool {
	return a.Profile.Registered()
}
