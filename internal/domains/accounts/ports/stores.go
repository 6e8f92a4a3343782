package ports

import (
	"context"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

// ChallengeStore keeps at most one pending challenge per wallet.
type ChallengeStore interface {
	Put(ctx context.Context, challenge domain.Challenge) error
	// Take returns and removes the wallet's challenge.
	Take(ctx context.Context, wallet mdomain.Address) (*domain.Challenge, error)
}

// SessionStore persists issued sessions keyed by token.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	DeleteWallet(ctx context.Context, wallet mdomain.Address) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// SignatureVerifier recovers the signer of a personal_sign message.
type SignatureVerifier interface {
	Recover(message, signatureHex string) (mdomain.Address, error)
}

// TokenIssuer signs and parses bearer tokens.
type TokenIssuer interface {
	Issue(session domain.Session) (string, error)
	Parse(token string) (*domain.Session, error)
}
