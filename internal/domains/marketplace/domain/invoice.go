package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvoiceNotFound is returned when getInvoice answers with an empty record.
var ErrInvoiceNotFound = errors.New("invoice not found in contract")

// Invoice is the contract's record of one purchase from one seller.
type Invoice struct {
	InvoiceID  string
	CompanyRUC string
	Buyer      Address
	Subtotal0  decimal.Decimal
	Subtotal15 decimal.Decimal
	IVAAmount  decimal.Decimal
	Total      decimal.Decimal
	Timestamp  time.Time
	Lines      []InvoiceLine
}

// InvoiceLine is a detail row of an invoice.
type InvoiceLine struct {
	ProductID uint64
	Name      string
	Quantity  uint64
	UnitPrice decimal.Decimal
	IVA       uint8
	TotalItem decimal.Decimal
}

// Exists reports whether the record was actually written; missing keys read
// back with a zero timestamp.
func (i Invoice) Exists() bool {
	return !i.Timestamp.IsZero()
}

// InvoiceKey builds the composite key getInvoice expects.
func InvoiceKey(ruc, invoiceID string) string {
	return strings.TrimSpace(ruc) + "-" + strings.TrimSpace(invoiceID)
}
