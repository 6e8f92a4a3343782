// Package memory holds in-process payment and receipt adapters for tests and
// the offline development mode.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
)

var (
	_ ports.PaymentProvider = (*Payments)(nil)
	_ ports.ReceiptStore    = (*Receipts)(nil)
)

// Payments simulates the card processor. Intents are created as
// requires_payment_method and move to succeeded through Settle, or at
// creation time when auto settle is on.
type Payments struct {
	mu         sync.Mutex
	seq        int
	autoSettle bool
	intents    map[string]domain.PaymentIntent
}

func NewPayments(autoSettle bool) *Payments {
	return &Payments{autoSettle: autoSettle, intents: map[string]domain.PaymentIntent{}}
}

func (p *Payments) CreateIntent(_ context.Context, amountCents int64, currency string) (*domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	id := fmt.Sprintf("pi_local_%06d", p.seq)
	intent := domain.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_local",
		AmountCents:  amountCents,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	if p.autoSettle {
		intent.Status = domain.StatusSucceeded
	}
	p.intents[id] = intent
	return &intent, nil
}

func (p *Payments) Intent(_ context.Context, id string) (*domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return nil, domain.ErrPaymentIntentNotFound
	}
	return &intent, nil
}

// Settle marks an intent as paid.
func (p *Payments) Settle(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	intent, ok := p.intents[id]
	if !ok {
		return domain.ErrPaymentIntentNotFound
	}
	intent.Status = domain.StatusSucceeded
	p.intents[id] = intent
	return nil
}

type Receipts struct {
	mu       sync.RWMutex
	receipts map[string]domain.MintReceipt
}

func NewReceipts() *Receipts {
	return &Receipts{receipts: map[string]domain.MintReceipt{}}
}

func (r *Receipts) Get(_ context.Context, paymentIntentID string) (*domain.MintReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	receipt, ok := r.receipts[paymentIntentID]
	if !ok {
		return nil, ports.ErrReceiptNotFound
	}
	return &receipt, nil
}

func (r *Receipts) Create(_ context.Context, receipt domain.MintReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.receipts[receipt.PaymentIntentID]; exists {
		return ports.ErrReceiptExists
	}
	r.receipts[receipt.PaymentIntentID] = receipt
	return nil
}
