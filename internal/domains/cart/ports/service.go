package ports

import (
	"context"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Service exposes the per-wallet shopping cart.
type Service interface {
	View(ctx context.Context, owner mdomain.Address) (*domain.Cart, error)
	AddItem(ctx context.Context, owner mdomain.Address, productID uint64) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, owner mdomain.Address, productID uint64, quantity int64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, owner mdomain.Address, productID uint64) (*domain.Cart, error)
	Clear(ctx context.Context, owner mdomain.Address) error
	PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error)
}
