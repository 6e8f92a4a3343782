package application

import (
	"errors"
	"fmt"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	// ErrInvalidInput signals the request violated a cart invariant.
	ErrInvalidInput = errors.New("invalid cart input")
	// ErrNotFound wraps missing carts, lines and products.
	ErrNotFound = errors.New("cart resource not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoOwner) ||
		errors.Is(err, mdomain.ErrInvalidProductID) ||
		errors.Is(err, mdomain.ErrProductUnavailable) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, mdomain.ErrProductNotFound) ||
		errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
