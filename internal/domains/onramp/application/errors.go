package application

import (
	"errors"
	"fmt"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/shared/money"
)

var (
	// ErrInvalidInput covers every 400 answer of the purchase portal.
	ErrInvalidInput = errors.New("invalid onramp request")
	ErrNotFound     = errors.New("onramp resource not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrPaymentNotSuccessful),
		errors.Is(err, domain.ErrAmountMismatch),
		errors.Is(err, domain.ErrWalletMismatch),
		errors.Is(err, domain.ErrMissingPaymentIntent),
		errors.Is(err, mdomain.ErrInvalidAddress),
		errors.Is(err, money.ErrTooPrecise):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrPaymentIntentNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
