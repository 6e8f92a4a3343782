package application

import (
	"errors"
	"fmt"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrForbidden is returned to wallets that are not the contract owner.
	ErrForbidden = errors.New("only the marketplace owner can do this")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mdomain.ErrInvalidRUC) ||
		errors.Is(err, mdomain.ErrInvalidCompanyName) ||
		errors.Is(err, mdomain.ErrCompanyWalletNeeded) ||
		errors.Is(err, mdomain.ErrInvalidAddress) ||
		errors.Is(err, mdomain.ErrInvalidProductName) ||
		errors.Is(err, mdomain.ErrInvalidPrice) ||
		errors.Is(err, mdomain.ErrInvalidIVA) ||
		errors.Is(err, mdomain.ErrInvalidProductID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
