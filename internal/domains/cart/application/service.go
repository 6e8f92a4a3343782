package application

import (
	"context"
	"errors"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service keeps each wallet's cart. Carts never leave their owner's key.
type Service struct {
	repo    ports.Repository
	catalog ports.Catalog
	now     func() time.Time
}

func NewService(repo ports.Repository, catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// View returns the wallet's cart, empty when none was saved.
func (s *Service) View(ctx context.Context, owner mdomain.Address) (*domain.Cart, error) {
	return s.load(ctx, owner)
}

func (s *Service) AddItem(ctx context.Context, owner mdomain.Address, productID uint64) (*domain.Cart, error) {
	if productID == 0 {
		return nil, mapError(mdomain.ErrInvalidProductID)
	}
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	listing, err := s.catalog.Listing(ctx, productID)
	if err != nil {
		return nil, mapError(err)
	}
	if !listing.Active {
		return nil, mapError(mdomain.ErrProductUnavailable)
	}
	cart.Add(domain.Item{
		ProductID:   listing.ID,
		Name:        listing.Name,
		Price:       listing.Price,
		IVA:         listing.IVA,
		CompanyRUC:  listing.CompanyRUC,
		CompanyName: listing.CompanyName,
		Photo:       listing.CoverPhoto(),
		Stock:       listing.Stock,
	}, s.now())
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets a line's quantity; anything below one removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner mdomain.Address, productID uint64, quantity int64) (*domain.Cart, error) {
	cart, err := s.load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, quantity, s.now()); err != nil {
		return nil, mapError(err)
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, owner mdomain.Address, productID uint64) (*domain.Cart, error) {
	return s.UpdateQuantity(ctx, owner, productID, 0)
}

func (s *Service) Clear(ctx context.Context, owner mdomain.Address) error {
	if owner.IsZero() {
		return mapError(domain.ErrNoOwner)
	}
	err := s.repo.Delete(ctx, owner)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	return err
}

// PurgeStale removes carts not touched within maxAge.
func (s *Service) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	return s.repo.PurgeStale(ctx, s.now().Add(-maxAge))
}

func (s *Service) load(ctx context.Context, owner mdomain.Address) (*domain.Cart, error) {
	if owner.IsZero() {
		return nil, mapError(domain.ErrNoOwner)
	}
	cart, err := s.repo.Load(ctx, owner)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.NewCart(owner, s.now()), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

var _ ports.Service = (*Service)(nil)
