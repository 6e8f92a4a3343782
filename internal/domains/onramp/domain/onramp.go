package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Currency every intent is created in; 1 CBT is pegged to 1 USD.
const Currency = "usd"

// StatusSucceeded is the only intent status that allows minting.
const StatusSucceeded = "succeeded"

var (
	ErrInvalidAmount         = errors.New("Invalid amount")
	ErrPaymentNotSuccessful  = errors.New("Payment not successful")
	ErrAmountMismatch        = errors.New("requested amount does not match the payment")
	ErrWalletMismatch        = errors.New("payment intent was minted to another wallet")
	ErrMissingPaymentIntent  = errors.New("payment intent id is required")
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
	ErrPaymentProvider       = errors.New("payment provider failure")
)

// PaymentIntent is the card payment a buyer completes before minting.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       string
}

func (p PaymentIntent) Succeeded() bool {
	return p.Status == StatusSucceeded
}

// MintRequest asks for the CBT bought with a paid intent.
type MintRequest struct {
	PaymentIntentID string
	Wallet          mdomain.Address
	Amount          decimal.Decimal
}

func (r MintRequest) Normalize() MintRequest {
	r.PaymentIntentID = strings.TrimSpace(r.PaymentIntentID)
	if wallet, err := mdomain.ParseAddress(r.Wallet.String()); err == nil {
		r.Wallet = wallet
	}
	return r
}

func (r MintRequest) Validate() error {
	if r.PaymentIntentID == "" {
		return ErrMissingPaymentIntent
	}
	if _, err := mdomain.ParseAddress(r.Wallet.String()); err != nil || r.Wallet.IsZero() {
		return mdomain.ErrInvalidAddress
	}
	return ValidateAmount(r.Amount)
}

// ValidateAmount rejects missing and non-positive purchase amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// MintReceipt records the mint issued for an intent. At most one exists per
// intent.
type MintReceipt struct {
	PaymentIntentID string
	Wallet          mdomain.Address
	Amount          decimal.Decimal
	TxHash          string
	BlockNumber     uint64
	MintedAt        time.Time
}

// TokensMinted is published once per receipt.
type TokensMinted struct {
	PaymentIntentID string    `json:"paymentIntentId"`
	Wallet          string    `json:"wallet"`
	Amount          string    `json:"amount"`
	TxHash          string    `json:"txHash"`
	MintedAt        time.Time `json:"mintedAt"`
}
