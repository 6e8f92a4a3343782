package application

import (
	"errors"
	"fmt"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/seller/domain"
)

var (
	ErrInvalidInput = errors.New("invalid seller input")
	ErrForbidden    = errors.New("seller access denied")
	ErrNotFound     = errors.New("seller resource not found")
	ErrRejected     = errors.New("seller request rejected")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mdomain.ErrInvalidAddress),
		errors.Is(err, mdomain.ErrInvalidProductName),
		errors.Is(err, mdomain.ErrInvalidPrice),
		errors.Is(err, mdomain.ErrInvalidIVA),
		errors.Is(err, mdomain.ErrInvalidProductID),
		errors.Is(err, mdomain.ErrInvalidStockAmount),
		errors.Is(err, mdomain.ErrInvalidRUC):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrNotSeller), errors.Is(err, domain.ErrNotOwnProduct):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case errors.Is(err, mdomain.ErrProductNotFound), errors.Is(err, mdomain.ErrCompanyNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, domain.ErrVIPInsufficient):
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return err
}
