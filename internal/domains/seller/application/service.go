package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/seller/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/seller/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Service struct {
	ledger mports.Ledger
	token  mports.Token
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewService(ledger mports.Ledger, token mports.Token, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		token:  token,
		events: events.Noop,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// companyOf resolves the RUC linked to wallet through walletToRuc.
func (s *Service) companyOf(ctx context.Context, wallet mdomain.Address) (string, error) {
	if wallet.IsZero() {
		return "", mapError(mdomain.ErrInvalidAddress)
	}
	ruc, err := s.ledger.SellerRUC(ctx, wallet)
	if err != nil {
		return "", err
	}
	ruc = strings.TrimSpace(ruc)
	if ruc == "" {
		return "", mapError(domain.ErrNotSeller)
	}
	return ruc, nil
}

func (s *Service) Dashboard(ctx context.Context, wallet mdomain.Address) (*domain.Dashboard, error) {
	ruc, err := s.companyOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	company, err := s.ledger.Company(ctx, ruc)
	if err != nil {
		return nil, mapError(err)
	}
	products, err := s.products(ctx, ruc)
	if err != nil {
		return nil, err
	}
	balance, err := s.token.BalanceOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	allowance, err := s.token.Allowance(ctx, wallet, s.ledger.Address())
	if err != nil {
		return nil, err
	}
	return &domain.Dashboard{
		Wallet:    wallet,
		Company:   *company,
		VIPActive: company.VIPActive(s.now()),
		Products:  products,
		Balance:   balance,
		Allowance: allowance,
	}, nil
}

// products walks every product id and keeps those of ruc, listed or not.
func (s *Service) products(ctx context.Context, ruc string) ([]mdomain.Product, error) {
	next, err := s.ledger.NextProductID(ctx)
	if err != nil {
		return nil, err
	}
	products := make([]mdomain.Product, 0)
	for id := uint64(1); id < next; id++ {
		product, err := s.ledger.Product(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping unreadable product", slog.Uint64("product.id", id), slog.String("error", err.Error()))
			continue
		}
		if product.CompanyRUC != ruc {
			continue
		}
		if photos, err := s.ledger.ProductPhotos(ctx, id); err == nil {
			product.Photos = photos
		}
		products = append(products, *product)
	}
	return products, nil
}

func (s *Service) RegisterProduct(ctx context.Context, wallet mdomain.Address, draft mdomain.ProductDraft) (*mdomain.TxReceipt, error) {
	ruc, err := s.companyOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	draft.CompanyRUC = ruc
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Description = strings.TrimSpace(draft.Description)
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.ledger.AddProduct(ctx, wallet, draft)
}

func (s *Service) UpdateProduct(ctx context.Context, wallet mdomain.Address, update mdomain.ProductUpdate) (*mdomain.TxReceipt, error) {
	update.Name = strings.TrimSpace(update.Name)
	if err := update.Validate(); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.ownProduct(ctx, wallet, update.ID); err != nil {
		return nil, err
	}
	return s.ledger.UpdateProduct(ctx, wallet, update)
}

func (s *Service) Restock(ctx context.Context, wallet mdomain.Address, productID, amount uint64) (*mdomain.TxReceipt, error) {
	if productID == 0 {
		return nil, mapError(mdomain.ErrInvalidProductID)
	}
	if amount == 0 {
		return nil, mapError(mdomain.ErrInvalidStockAmount)
	}
	if _, err := s.ownProduct(ctx, wallet, productID); err != nil {
		return nil, err
	}
	return s.ledger.BuyStock(ctx, wallet, productID, amount)
}

func (s *Service) ownProduct(ctx context.Context, wallet mdomain.Address, productID uint64) (*mdomain.Product, error) {
	ruc, err := s.companyOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	product, err := s.ledger.Product(ctx, productID)
	if err != nil {
		return nil, mapError(err)
	}
	if product.CompanyRUC != ruc {
		return nil, mapError(domain.ErrNotOwnProduct)
	}
	return product, nil
}

// BecomeVIP pays the weekly subscription, approving the cost first when the
// current allowance does not cover it.
func (s *Service) BecomeVIP(ctx context.Context, wallet mdomain.Address) (*domain.VIPSubscription, error) {
	ruc, err := s.companyOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	balance, err := s.token.BalanceOf(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(mdomain.VIPCost) {
		return nil, mapError(fmt.Errorf("%w: need %s CBT, have %s CBT", domain.ErrVIPInsufficient, money.Format(mdomain.VIPCost), money.Format(balance)))
	}

	sub := &domain.VIPSubscription{RUC: ruc}
	spender := s.ledger.Address()
	allowance, err := s.token.Allowance(ctx, wallet, spender)
	if err != nil {
		return nil, err
	}
	if allowance.LessThan(mdomain.VIPCost) {
		receipt, err := s.token.Approve(ctx, wallet, spender, mdomain.VIPCost)
		if err != nil {
			return nil, fmt.Errorf("approving VIP payment: %w", err)
		}
		sub.ApprovalTx = receipt.Hash
	}
	receipt, err := s.ledger.PayVIPSubscription(ctx, wallet, ruc)
	if err != nil {
		return nil, fmt.Errorf("paying VIP subscription: %w", err)
	}
	sub.SubscriptionTx = receipt.Hash

	sub.VIPUntil = s.NextVIPExpiry(s.now())
	if company, err := s.ledger.Company(ctx, ruc); err == nil && !company.VIPUntil.IsZero() {
		sub.VIPUntil = company.VIPUntil
	}
	events.PublishQuietly(ctx, s.events, s.logger, events.SubjectVIPPurchased, domain.VIPPurchased{
		RUC:      ruc,
		Wallet:   wallet.String(),
		Amount:   mdomain.VIPCost.StringFixed(money.Decimals),
		TxHash:   sub.SubscriptionTx,
		VIPUntil: sub.VIPUntil,
	})
	s.logger.InfoContext(ctx, "VIP subscription paid", slog.String("company.ruc", ruc), slog.String("tx", sub.SubscriptionTx))
	return sub, nil
}

func (s *Service) NextVIPExpiry(now time.Time) time.Time {
	return mdomain.EndOfWeek(now)
}

var _ ports.Service = (*Service)(nil)
