// Package stripe creates and reads card payment intents on Stripe.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
)

var _ ports.PaymentProvider = (*Provider)(nil)

type Provider struct {
	api *client.API
}

// NewProvider builds a client for secretKey. Nil backends use the public API.
func NewProvider(secretKey string, backends *stripego.Backends) (*Provider, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return &Provider{api: client.New(secretKey, backends)}, nil
}

// CreateIntent opens an intent with automatic payment methods enabled.
func (p *Provider) CreateIntent(ctx context.Context, amountCents int64, currency string) (*domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(amountCents),
		Currency: stripego.String(currency),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: stripe create intent: %w", domain.ErrPaymentProvider, err)
	}
	return toDomain(intent), nil
}

func (p *Provider) Intent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	intent, err := p.api.PaymentIntents.Get(id, params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) &&
			(stripeErr.Code == stripego.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentIntentNotFound, id)
		}
		return nil, fmt.Errorf("%w: stripe retrieve intent %s: %w", domain.ErrPaymentProvider, id, err)
	}
	return toDomain(intent), nil
}

func toDomain(intent *stripego.PaymentIntent) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  intent.Amount,
		Currency:     string(intent.Currency),
		Status:       string(intent.Status),
	}
}
