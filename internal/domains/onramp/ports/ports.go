package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
)

// ErrReceiptNotFound is returned when an intent has not been minted yet.
var ErrReceiptNotFound = errors.New("mint receipt not found")

// ErrReceiptExists is returned when a receipt for the intent is already stored.
var ErrReceiptExists = errors.New("mint receipt already exists")

// PaymentProvider creates and reads card payment intents.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (*domain.PaymentIntent, error)
	Intent(ctx context.Context, id string) (*domain.PaymentIntent, error)
}

// ReceiptStore keeps one mint receipt per payment intent.
type ReceiptStore interface {
	Get(ctx context.Context, paymentIntentID string) (*domain.MintReceipt, error)
	Create(ctx context.Context, receipt domain.MintReceipt) error
}

// Service sells CBT for card payments.
type Service interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*domain.PaymentIntent, error)
	// Verify runs every Mint precondition. It returns the stored receipt
	// when the intent was already minted.
	Verify(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error)
	// Mint issues the CBT paid by an intent. A replay returns the stored
	// receipt instead of minting again.
	Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error)
}

// Orchestrator runs Mint inline or as a durable workflow.
type Orchestrator interface {
	Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error)
}
