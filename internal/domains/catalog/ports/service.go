package ports

import (
	"context"

	"github.com/codecrypto/cbt-marketplace/internal/domains/catalog/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// Service exposes catalog and company use cases.
type Service interface {
	ListProducts(ctx context.Context) ([]domain.Listing, error)
	Listing(ctx context.Context, productID uint64) (*domain.Listing, error)
	ListCompanies(ctx context.Context) ([]domain.CompanySummary, error)
	Company(ctx context.Context, ruc string) (*mdomain.Company, error)
	RegisterCompany(ctx context.Context, admin mdomain.Address, reg mdomain.CompanyRegistration) (*mdomain.TxReceipt, error)
	ProductsByCompany(ctx context.Context, ruc string) ([]mdomain.Product, error)
	AddProduct(ctx context.Context, wallet mdomain.Address, draft mdomain.ProductDraft) (*mdomain.TxReceipt, error)
}
