package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/codecrypto/cbt-marketplace/internal/domains/catalog/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/catalog/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

// Service reads the product catalog and company registry off the ledger.
type Service struct {
	ledger mports.Ledger
	logger *slog.Logger
}

func NewService(ledger mports.Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ledger: ledger, logger: logger}
}

// ListProducts walks every product id and keeps the named, active ones.
// Products that fail to load are skipped.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Listing, error) {
	next, err := s.ledger.NextProductID(ctx)
	if err != nil {
		return nil, err
	}
	names := companyNames{}
	listings := make([]domain.Listing, 0)
	for id := uint64(1); id < next; id++ {
		product, err := s.ledger.Product(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable product", slog.Uint64("product.id", id), slog.String("error", err.Error()))
			continue
		}
		if !product.Listed() {
			continue
		}
		listings = append(listings, s.decorate(ctx, *product, names))
	}
	return listings, nil
}

func (s *Service) Listing(ctx context.Context, productID uint64) (*domain.Listing, error) {
	if productID == 0 {
		return nil, mapError(mdomain.ErrInvalidProductID)
	}
	product, err := s.ledger.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	listing := s.decorate(ctx, *product, companyNames{})
	return &listing, nil
}

type companyNames map[string]string

// decorate attaches the seller name and photos. Photo failures leave the
// product's own photo slots in place.
func (s *Service) decorate(ctx context.Context, product mdomain.Product, names companyNames) domain.Listing {
	name, ok := names[product.CompanyRUC]
	if !ok {
		name = domain.UnknownSellerName
		if company, err := s.ledger.Company(ctx, product.CompanyRUC); err == nil && company.Name != "" {
			name = company.Name
		}
		names[product.CompanyRUC] = name
	}
	if photos, err := s.ledger.ProductPhotos(ctx, product.ID); err == nil {
		product.Photos = photos
	} else {
		s.logger.WarnContext(ctx, "could not load product photos", slog.Uint64("product.id", product.ID), slog.String("error", err.Error()))
	}
	return domain.Listing{Product: product, CompanyName: name}
}

func (s *Service) ListCompanies(ctx context.Context) ([]domain.CompanySummary, error) {
	events, err := s.ledger.CompanyRegisteredEvents(ctx)
	if err != nil {
		return nil, err
	}
	companies := make([]domain.CompanySummary, 0, len(events))
	for _, ev := range events {
		companies = append(companies, domain.CompanySummary{RUC: ev.RUC, Name: ev.Name, Wallet: ev.Wallet})
	}
	return companies, nil
}

func (s *Service) Company(ctx context.Context, ruc string) (*mdomain.Company, error) {
	ruc = strings.TrimSpace(ruc)
	if ruc == "" {
		return nil, mapError(mdomain.ErrInvalidRUC)
	}
	return s.ledger.Company(ctx, ruc)
}

func (s *Service) RegisterCompany(ctx context.Context, admin mdomain.Address, reg mdomain.CompanyRegistration) (*mdomain.TxReceipt, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, mapError(err)
	}
	owner, err := s.ledger.Owner(ctx)
	if err != nil {
		return nil, err
	}
	if !owner.Equal(admin) {
		return nil, ErrForbidden
	}
	return s.ledger.RegisterCompany(ctx, admin, reg)
}

// ProductsByCompany lists products announced for ruc, re-reading each one
// and dropping those that no longer belong to it.
func (s *Service) ProductsByCompany(ctx context.Context, ruc string) ([]mdomain.Product, error) {
	ruc = strings.TrimSpace(ruc)
	if ruc == "" {
		return nil, mapError(mdomain.ErrInvalidRUC)
	}
	events, err := s.ledger.ProductAddedEvents(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]mdomain.Product, 0)
	for _, ev := range events {
		if ev.CompanyRUC != ruc {
			continue
		}
		product, err := s.ledger.Product(ctx, ev.ProductID)
		if err != nil {
			return nil, err
		}
		if product.CompanyRUC != ruc {
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}

func (s *Service) AddProduct(ctx context.Context, wallet mdomain.Address, draft mdomain.ProductDraft) (*mdomain.TxReceipt, error) {
	draft.CompanyRUC = strings.TrimSpace(draft.CompanyRUC)
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.ledger.AddProduct(ctx, wallet, draft)
}

var _ ports.Service = (*Service)(nil)
