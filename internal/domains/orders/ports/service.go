package ports

import (
	"context"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/orders/domain"
)

// Service rebuilds purchase history and invoices from contract events.
type Service interface {
	History(ctx context.Context, buyer mdomain.Address) ([]domain.Order, error)
	Invoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.InvoiceSummary, error)
	InvoiceDetail(ctx context.Context, ruc, invoiceID string) (*mdomain.Invoice, error)
}
