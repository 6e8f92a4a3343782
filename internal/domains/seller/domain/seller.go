package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	ErrNotSeller       = errors.New("wallet is not linked to a registered company")
	ErrNotOwnProduct   = errors.New("product belongs to another company")
	ErrVIPInsufficient = errors.New("insufficient CBT balance for the VIP subscription")
)

// Dashboard is the seller's view of their company and catalogue.
type Dashboard struct {
	Wallet    mdomain.Address
	Company   mdomain.Company
	VIPActive bool
	Products  []mdomain.Product
	Balance   decimal.Decimal
	Allowance decimal.Decimal
}

// ActiveProducts counts products currently listed.
func (d Dashboard) ActiveProducts() int {
	n := 0
	for _, p := range d.Products {
		if p.Active {
			n++
		}
	}
	return n
}

// StockValue is the list price of all units on hand.
func (d Dashboard) StockValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total
}

// VIPSubscription is the outcome of a paid subscription.
type VIPSubscription struct {
	RUC            string
	ApprovalTx     string
	SubscriptionTx string
	VIPUntil       time.Time
}

// VIPPurchased is published after payVipSubscription is mined.
type VIPPurchased struct {
	RUC      string    `json:"ruc"`
	Wallet   string    `json:"wallet"`
	Amount   string    `json:"amount"`
	TxHash   string    `json:"txHash"`
	VIPUntil time.Time `json:"vipUntil"`
}
