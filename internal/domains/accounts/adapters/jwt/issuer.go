// Package jwt issues HS256 bearer tokens for wallet sessions.
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const issuerName = "cbt-marketplace"

// Issuer signs session tokens with a shared secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		if now != nil {
			i.now = now
		}
	}
}

func NewIssuer(secret string, opts ...Option) (*Issuer, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	i := &Issuer{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(i)
		}
	}
	return i, nil
}

func (i *Issuer) Issue(session domain.Session) (string, error) {
	claims := gojwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   session.Wallet.String(),
		ID:        session.ID,
		IssuedAt:  gojwt.NewNumericDate(session.IssuedAt),
		ExpiresAt: gojwt.NewNumericDate(session.ExpiresAt),
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Parse(token string) (*domain.Session, error) {
	var claims gojwt.RegisteredClaims
	_, err := gojwt.ParseWithClaims(strings.TrimSpace(token), &claims,
		func(*gojwt.Token) (any, error) { return i.secret, nil },
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuerName),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(i.now),
	)
	if errors.Is(err, gojwt.ErrTokenExpired) {
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionNotFound, err)
	}
	wallet, err := mdomain.ParseAddress(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", domain.ErrSessionNotFound)
	}
	session := &domain.Session{ID: claims.ID, Wallet: wallet, Token: token}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return session, nil
}

var _ ports.TokenIssuer = (*Issuer)(nil)
