package application

import (
	"errors"
	"fmt"

	cartdomain "github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	// ErrInvalidInput signals the request cannot start a checkout.
	ErrInvalidInput = errors.New("invalid checkout input")
	// ErrForbidden wraps wallets that may not buy.
	ErrForbidden = errors.New("checkout not allowed")
	// ErrRejected wraps preconditions the buyer can fix.
	ErrRejected = errors.New("checkout rejected")
	// ErrNotFound wraps unknown runs.
	ErrNotFound = errors.New("checkout run not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, cartdomain.ErrEmptyCart) ||
		errors.Is(err, cartdomain.ErrNoOwner) ||
		errors.Is(err, mdomain.ErrInvalidAddress) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrAdminCannotBuy) {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	if errors.Is(err, domain.ErrClientNotRegistered) ||
		errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrRunAlreadyInProgress) {
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	if errors.Is(err, domain.ErrRunNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
