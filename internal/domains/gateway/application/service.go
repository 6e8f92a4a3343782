package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/gateway/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/events"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

// Config names the wallets the gateway treats specially.
type Config struct {
	Treasury    mdomain.Address
	Merchant    mdomain.Address
	PurchaseURL string
	Order       domain.Order
}

type Option func(*Service)

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
	cfg    Config
	token  mports.Token
	events events.Publisher
	logger *slog.Logger
}

func NewService(cfg Config, token mports.Token, opts ...Option) (*Service, error) {
	if cfg.Merchant.IsZero() {
		return nil, errors.New("gateway merchant wallet is required")
	}
	if cfg.Order.Number == "" || !cfg.Order.Amount.IsPositive() {
		cfg.Order = domain.DefaultOrder()
	}
	if strings.TrimSpace(cfg.PurchaseURL) == "" {
		cfg.PurchaseURL = domain.DefaultPurchaseURL
	}
	s := &Service{cfg: cfg, token: token, events: events.Noop, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Service) Order() domain.Order {
	return s.cfg.Order
}

func (s *Service) Balance(ctx context.Context, wallet mdomain.Address) (decimal.Decimal, error) {
	if wallet.IsZero() {
		return decimal.Zero, mapError(mdomain.ErrInvalidAddress)
	}
	return s.token.BalanceOf(ctx, wallet)
}

func (s *Service) Eligibility(ctx context.Context, wallet mdomain.Address) (*domain.Eligibility, error) {
	balance, err := s.Balance(ctx, wallet)
	if err != nil {
		return nil, err
	}
	e := &domain.Eligibility{
		Wallet:   wallet,
		Role:     domain.RoleCustomer,
		Status:   domain.StatusReady,
		Balance:  balance,
		Required: s.cfg.Order.Amount,
	}
	switch {
	case !s.cfg.Treasury.IsZero() && wallet.Equal(s.cfg.Treasury):
		e.Role, e.Status = domain.RoleTreasury, domain.StatusRestricted
	case wallet.Equal(s.cfg.Merchant):
		e.Role, e.Status = domain.RoleMerchant, domain.StatusRestricted
	case balance.LessThan(s.cfg.Order.Amount):
		e.Status = domain.StatusInsufficient
		e.PurchaseURL = s.cfg.PurchaseURL
	}
	if err := e.Err(); err != nil {
		e.Reason = err.Error()
		if e.Status == domain.StatusInsufficient {
			e.Reason = fmt.Sprintf("you have %s CBT, at least %s CBT are needed", money.Format(balance), money.Format(e.Required))
		}
	}
	return e, nil
}

// Pay sends the order amount from wallet to the merchant with the custodial
// key of wallet.
func (s *Service) Pay(ctx context.Context, wallet mdomain.Address) (*domain.Payment, error) {
	eligibility, err := s.Eligibility(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if err := eligibility.Err(); err != nil {
		return nil, mapError(err)
	}
	receipt, err := s.token.Transfer(ctx, wallet, s.cfg.Merchant, s.cfg.Order.Amount)
	if err != nil {
		return nil, &paymentError{msg: domain.UserMessage(err), cause: err}
	}
	payment := &domain.Payment{
		OrderNumber: s.cfg.Order.Number,
		Wallet:      wallet,
		Merchant:    s.cfg.Merchant,
		Amount:      s.cfg.Order.Amount,
		TxHash:      receipt.Hash,
	}
	s.settled(ctx, payment)
	return payment, nil
}

// Confirm checks a transfer the wallet signed itself.
func (s *Service) Confirm(ctx context.Context, wallet mdomain.Address, txHash string) (*domain.Payment, error) {
	txHash = strings.TrimSpace(txHash)
	if wallet.IsZero() {
		return nil, mapError(mdomain.ErrInvalidAddress)
	}
	if txHash == "" {
		return nil, mapError(domain.ErrMissingTxHash)
	}
	receipt, err := s.token.TransferReceipt(ctx, txHash)
	if err != nil {
		return nil, mapError(err)
	}
	if !receipt.Succeeded {
		return nil, mapError(domain.ErrTransactionFailed)
	}
	if !domain.PaysOrder(receipt.Transfers, wallet, s.cfg.Merchant, s.cfg.Order.Amount) {
		return nil, mapError(domain.ErrPaymentNotFound)
	}
	payment := &domain.Payment{
		OrderNumber: s.cfg.Order.Number,
		Wallet:      wallet,
		Merchant:    s.cfg.Merchant,
		Amount:      s.cfg.Order.Amount,
		TxHash:      receipt.TxHash,
	}
	s.settled(ctx, payment)
	return payment, nil
}

func (s *Service) settled(ctx context.Context, p *domain.Payment) {
	s.logger.InfoContext(ctx, "gateway order paid",
		slog.String("order", p.OrderNumber),
		slog.String("wallet", p.Wallet.String()),
		slog.String("tx", p.TxHash),
	)
	events.PublishQuietly(ctx, s.events, s.logger, events.SubjectGatewayPaid, domain.PaymentSettled{
		OrderNumber: p.OrderNumber,
		Wallet:      p.Wallet.String(),
		Merchant:    p.Merchant.String(),
		Amount:      p.Amount.StringFixed(money.Decimals),
		TxHash:      p.TxHash,
	})
}

// paymentError shows the user facing message while keeping the cause.
type paymentError struct {
	msg   string
	cause error
}

func (e *paymentError) Error() string { return e.msg }
func (e *paymentError) Unwrap() error { return e.cause }

var _ ports.Service = (*Service)(nil)
