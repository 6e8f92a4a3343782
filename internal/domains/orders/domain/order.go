package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Display fallbacks used when the ledger cannot name a party.
const (
	UnknownRUC           = "Unknown"
	UnknownMerchant      = "Verified merchant"
	ClientWithoutProfile = "Client without profile"
	BuyerLoadError       = "Error loading"
)

// Order is one invoice of a buyer's purchase history.
type Order struct {
	InvoiceID   string
	CompanyRUC  string
	CompanyName string
	Subtotal0   decimal.Decimal
	Subtotal15  decimal.Decimal
	IVA         decimal.Decimal
	Total       decimal.Decimal
	Timestamp   time.Time
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
	Lines       []mdomain.InvoiceLine
}

// InvoiceSummary is a row of the back-office invoice audit.
type InvoiceSummary struct {
	InvoiceID   string
	CompanyRUC  string
	CompanyName string
	Buyer       mdomain.Address
	BuyerName   string
	Total       decimal.Decimal
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
}

// Key is the getInvoice key of the row.
func (s InvoiceSummary) Key() string {
	return mdomain.InvoiceKey(s.CompanyRUC, s.InvoiceID)
}

// InvoiceFilter narrows the audit list. Empty fields match everything.
type InvoiceFilter struct {
	CompanyRUC string
	InvoiceID  string
}

func (f InvoiceFilter) Match(s InvoiceSummary) bool {
	if ruc := strings.TrimSpace(f.CompanyRUC); ruc != "" && s.CompanyRUC != ruc {
		return false
	}
	if id := strings.TrimSpace(f.InvoiceID); id != "" && !strings.Contains(strings.ToLower(s.InvoiceID), strings.ToLower(id)) {
		return false
	}
	return true
}

// Newer orders purchase events by block then log position, latest first.
func Newer(blockA uint64, logA uint, blockB uint64, logB uint) bool {
	if blockA != blockB {
		return blockA > blockB
	}
	return logA > logB
}
