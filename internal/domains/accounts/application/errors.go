package application

import (
	"errors"
	"fmt"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps sign-in and session failures.
	ErrAuthentication = errors.New("authentication failed")
	// ErrForbidden wraps role checks.
	ErrForbidden = errors.New("access denied")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mdomain.ErrInvalidAddress) ||
		errors.Is(err, mdomain.ErrInvalidClientName) ||
		errors.Is(err, mdomain.ErrInvalidIDNumber) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrChallengeNotFound) ||
		errors.Is(err, domain.ErrChallengeExpired) ||
		errors.Is(err, domain.ErrInvalidSignature) ||
		errors.Is(err, domain.ErrSignerMismatch) ||
		errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionExpired) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if errors.Is(err, domain.ErrNotAdministrator) {
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	return err
}
