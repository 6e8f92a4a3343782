package application

import (
	"errors"
	"fmt"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	// ErrInvalidInput signals a malformed lookup.
	ErrInvalidInput = errors.New("invalid order query")
	// ErrNotFound wraps invoices the contract does not hold.
	ErrNotFound = errors.New("invoice not found")
)

var errMissingInvoiceID = errors.New("invoice id is required")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mdomain.ErrInvalidAddress) ||
		errors.Is(err, mdomain.ErrInvalidRUC) ||
		errors.Is(err, errMissingInvoiceID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, mdomain.ErrInvoiceNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
