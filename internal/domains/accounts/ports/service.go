package ports

import (
	"context"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Service exposes wallet identity use cases to adapters.
type Service interface {
	Challenge(ctx context.Context, wallet string) (*domain.Challenge, error)
	Verify(ctx context.Context, wallet, signature string) (*domain.Session, error)
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, wallet mdomain.Address) error
	Describe(ctx context.Context, wallet string) (*domain.Account, error)
	RegisterClient(ctx context.Context, wallet mdomain.Address, profile mdomain.ClientProfile) (*mdomain.TxReceipt, error)
	RequireOwner(ctx context.Context, wallet mdomain.Address) error
	PurgeExpired(ctx context.Context) (int64, error)
}
