package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
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

// Service turns card payments into freshly minted CBT.
type Service struct {
	payments ports.PaymentProvider
	minter   mports.Minter
	receipts ports.ReceiptStore
	events   events.Publisher
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	minting map[string]*intentLock
}

// intentLock is held while one mint of an intent runs; refs counts holders
// and waiters so idle entries can be dropped.
type intentLock struct {
	sync.Mutex
	refs int
}

func NewService(payments ports.PaymentProvider, minter mports.Minter, receipts ports.ReceiptStore, opts ...Option) *Service {
	s := &Service{
		payments: payments,
		minter:   minter,
		receipts: receipts,
		events:   events.Noop,
		logger:   slog.Default(),
		now:      time.Now,
		minting:  map[string]*intentLock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*domain.PaymentIntent, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, mapError(err)
	}
	cents := money.ToCents(amount)
	if cents <= 0 {
		return nil, mapError(domain.ErrInvalidAmount)
	}
	intent, err := s.payments.CreateIntent(ctx, cents, domain.Currency)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return intent, nil
}

// Verify checks a mint request against the payment provider without
// minting. A non-nil receipt means the intent was already minted.
func (s *Service) Verify(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	_, existing, err := s.check(ctx, req)
	return existing, err
}

func (s *Service) check(ctx context.Context, req domain.MintRequest) (domain.MintRequest, *domain.MintReceipt, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return req, nil, mapError(err)
	}
	if _, err := money.ToUnits(req.Amount); err != nil {
		return req, nil, mapError(err)
	}
	existing, err := s.receipts.Get(ctx, req.PaymentIntentID)
	if err == nil {
		if !existing.Wallet.Equal(req.Wallet) {
			return req, nil, mapError(domain.ErrWalletMismatch)
		}
		if !existing.Amount.Equal(req.Amount) {
			return req, nil, mapError(fmt.Errorf("%w: minted %s, requested %s", domain.ErrAmountMismatch,
				money.Format(existing.Amount), money.Format(req.Amount)))
		}
		return req, existing, nil
	}
	if !errors.Is(err, ports.ErrReceiptNotFound) {
		return req, nil, err
	}

	intent, err := s.payments.Intent(ctx, req.PaymentIntentID)
	if err != nil {
		return req, nil, mapError(err)
	}
	if !intent.Succeeded() {
		return req, nil, mapError(domain.ErrPaymentNotSuccessful)
	}
	if intent.AmountCents != money.ToCents(req.Amount) {
		return req, nil, mapError(fmt.Errorf("%w: paid %s, requested %s", domain.ErrAmountMismatch,
			money.Format(money.FromCents(intent.AmountCents)), money.Format(req.Amount)))
	}
	return req, nil, nil
}

func (s *Service) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	intentID := strings.TrimSpace(req.PaymentIntentID)
	lock := s.acquire(intentID)
	defer s.release(intentID, lock)

	req, existing, err := s.check(ctx, req)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "payment intent already minted", slog.String("payment_intent", req.PaymentIntentID), slog.String("tx", existing.TxHash))
		return existing, nil
	}

	tx, err := s.minter.Mint(ctx, req.Wallet, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("mint %s CBT: %w", req.Amount.String(), err)
	}
	receipt := domain.MintReceipt{
		PaymentIntentID: req.PaymentIntentID,
		Wallet:          req.Wallet,
		Amount:          req.Amount,
		TxHash:          tx.Hash,
		BlockNumber:     tx.BlockNumber,
		MintedAt:        s.now().UTC(),
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		if errors.Is(err, ports.ErrReceiptExists) {
			if stored, getErr := s.receipts.Get(ctx, req.PaymentIntentID); getErr == nil {
				return stored, nil
			}
		}
		// Tokens are already issued at this point.
		s.logger.ErrorContext(ctx, "could not store mint receipt", slog.String("payment_intent", req.PaymentIntentID), slog.String("tx", tx.Hash), slog.String("error", err.Error()))
	}
	events.PublishQuietly(ctx, s.events, s.logger, events.SubjectTokensMinted, domain.TokensMinted{
		PaymentIntentID: receipt.PaymentIntentID,
		Wallet:          receipt.Wallet.String(),
		Amount:          receipt.Amount.StringFixed(money.Decimals),
		TxHash:          receipt.TxHash,
		MintedAt:        receipt.MintedAt,
	})
	return &receipt, nil
}

// acquire serialises mints of the same intent inside this process.
func (s *Service) acquire(intentID string) *intentLock {
	s.mu.Lock()
	lock, ok := s.minting[intentID]
	if !ok {
		lock = &intentLock{}
		s.minting[intentID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *Service) release(intentID string, lock *intentLock) {
	lock.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.minting, intentID)
	}
}

var _ ports.Service = (*Service)(nil)
