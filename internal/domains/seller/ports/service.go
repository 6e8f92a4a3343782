package ports

import (
	"context"
	"time"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/seller/domain"
)

// Service covers the seller back office. Every operation acts on the
// company linked to the calling wallet.
type Service interface {
	Dashboard(ctx context.Context, wallet mdomain.Address) (*domain.Dashboard, error)
	RegisterProduct(ctx context.Context, wallet mdomain.Address, draft mdomain.ProductDraft) (*mdomain.TxReceipt, error)
	UpdateProduct(ctx context.Context, wallet mdomain.Address, update mdomain.ProductUpdate) (*mdomain.TxReceipt, error)
	Restock(ctx context.Context, wallet mdomain.Address, productID, amount uint64) (*mdomain.TxReceipt, error)
	BecomeVIP(ctx context.Context, wallet mdomain.Address) (*domain.VIPSubscription, error)
	NextVIPExpiry(now time.Time) time.Time
}
