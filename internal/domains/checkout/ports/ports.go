package ports

import (
	"context"

	cartdomain "github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// RunRepository records checkout runs.
type RunRepository interface {
	Save(ctx context.Context, run domain.Run) error
	Get(ctx context.Context, id string) (*domain.Run, error)
	// ListByWallet returns the wallet's runs, newest first.
	ListByWallet(ctx context.Context, wallet mdomain.Address, limit int) ([]domain.Run, error)
}

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	View(ctx context.Context, owner mdomain.Address) (*cartdomain.Cart, error)
	Clear(ctx context.Context, owner mdomain.Address) error
}

// Service exposes the checkout steps and the whole sequence.
type Service interface {
	Prepare(ctx context.Context, wallet mdomain.Address) (*domain.Plan, error)
	Approve(ctx context.Context, plan domain.Plan) (string, error)
	AddLine(ctx context.Context, plan domain.Plan, line domain.Line) (string, error)
	Submit(ctx context.Context, plan domain.Plan) (*domain.Result, error)
	Fail(ctx context.Context, plan domain.Plan, cause string) error
	Checkout(ctx context.Context, wallet mdomain.Address) (*domain.Result, error)
	Runs(ctx context.Context, wallet mdomain.Address) ([]domain.Run, error)
}

// Orchestrator runs a whole checkout, inline or durably.
type Orchestrator interface {
	Checkout(ctx context.Context, wallet mdomain.Address) (*domain.Result, error)
}
