package ports

import (
	"context"
	"errors"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	catalogdomain "github.com/codecrypto/cbt-marketplace/internal/domains/catalog/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var ErrNotFound = errors.New("cart not found")

// Repository persists one cart per wallet.
type Repository interface {
	Load(ctx context.Context, owner mdomain.Address) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, owner mdomain.Address) error
	// PurgeStale drops carts untouched since before.
	PurgeStale(ctx context.Context, before time.Time) (int64, error)
}

// Catalog resolves the product data copied into a new cart line.
type Catalog interface {
	Listing(ctx context.Context, productID uint64) (*catalogdomain.Listing, error)
}
