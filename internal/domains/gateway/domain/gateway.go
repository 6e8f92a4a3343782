package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// CancelledSuffix is appended to payment errors the wallet rejected.
const CancelledSuffix = " - transaction cancelled by the user"

// DefaultPurchaseURL points buyers without funds at the purchase portal.
const DefaultPurchaseURL = "http://localhost:6001"

var (
	ErrTreasuryRestricted  = errors.New("the treasury is not allowed to make commercial purchases")
	ErrMerchantRestricted  = errors.New("merchants cannot buy from themselves")
	ErrInsufficientBalance = errors.New("insufficient CBT balance")
	ErrMissingTxHash       = errors.New("transaction hash is required")
	ErrTransactionFailed   = errors.New("transaction did not succeed")
	ErrPaymentNotFound     = errors.New("transaction does not pay the order")
)

// Order is the checkout the gateway collects.
type Order struct {
	Number      string
	Description string
	Amount      decimal.Decimal
}

func DefaultOrder() Order {
	return Order{Number: "2405", Description: "Tech equipment", Amount: decimal.NewFromInt(50)}
}

type Role string

const (
	RoleTreasury Role = "treasury"
	RoleMerchant Role = "merchant"
	RoleCustomer Role = "customer"
)

type Status string

const (
	StatusReady        Status = "ready"
	StatusRestricted   Status = "restricted"
	StatusInsufficient Status = "insufficient_balance"
)

// Eligibility tells a wallet whether it can pay the order.
type Eligibility struct {
	Wallet      mdomain.Address
	Role        Role
	Status      Status
	Balance     decimal.Decimal
	Required    decimal.Decimal
	PurchaseURL string
	Reason      string
}

func (e Eligibility) Ready() bool { return e.Status == StatusReady }

// Err returns the error that blocks payment, or nil when ready.
func (e Eligibility) Err() error {
	switch e.Status {
	case StatusRestricted:
		if e.Role == RoleMerchant {
			return ErrMerchantRestricted
		}
		return ErrTreasuryRestricted
	case StatusInsufficient:
		return ErrInsufficientBalance
	}
	return nil
}

// Payment is a settled order transfer.
type Payment struct {
	OrderNumber string
	Wallet      mdomain.Address
	Merchant    mdomain.Address
	Amount      decimal.Decimal
	TxHash      string
}

// PaymentSettled is published for every paid or confirmed order.
type PaymentSettled struct {
	OrderNumber string `json:"orderNumber"`
	Wallet      string `json:"wallet"`
	Merchant    string `json:"merchant"`
	Amount      string `json:"amount"`
	TxHash      string `json:"txHash"`
}

// UserMessage returns the text shown for a failed payment. Rejections by the
// wallet get CancelledSuffix.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "rejected") {
		return msg + CancelledSuffix
	}
	return msg
}

// PaysOrder reports whether one of transfers moves at least amount from
// wallet to merchant.
func PaysOrder(transfers []mdomain.TokenTransfer, wallet, merchant mdomain.Address, amount decimal.Decimal) bool {
	for _, tr := range transfers {
		if tr.From.Equal(wallet) && tr.To.Equal(merchant) && tr.Amount.GreaterThanOrEqual(amount) {
			return true
		}
	}
	return false
}
