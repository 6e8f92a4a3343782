package application

import (
	"errors"
	"fmt"

	"github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

var (
	ErrInvalidInput = errors.New("invalid payment request")
	ErrForbidden    = errors.New("wallet may not pay this order")
	ErrRejected     = errors.New("payment rejected")
	ErrNotFound     = errors.New("payment not found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mdomain.ErrInvalidAddress), errors.Is(err, domain.ErrMissingTxHash):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrTreasuryRestricted), errors.Is(err, domain.ErrMerchantRestricted):
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrTransactionFailed),
		errors.Is(err, domain.ErrPaymentNotFound):
		return fmt.Errorf("%w: %w", ErrRejected, err)
	case errors.Is(err, mports.ErrTransactionNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
