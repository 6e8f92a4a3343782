package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Service collects a fixed order in CBT.
type Service interface {
	Order() domain.Order
	Eligibility(ctx context.Context, wallet mdomain.Address) (*domain.Eligibility, error)
	Pay(ctx context.Context, wallet mdomain.Address) (*domain.Payment, error)
	Confirm(ctx context.Context, wallet mdomain.Address, txHash string) (*domain.Payment, error)
	Balance(ctx context.Context, wallet mdomain.Address) (decimal.Decimal, error)
}
