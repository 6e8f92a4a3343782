package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	issuer, err := NewIssuer("secret", WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	session := domain.Session{
		ID:        "5f0c5d0a-7c1b-4f7e-9a55-0e4ad1f3c001",
		Wallet:    mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
	token, err := issuer.Issue(session)
	require.NoError(t, err)

	parsed, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, session.Wallet, parsed.Wallet)
	require.Equal(t, session.ID, parsed.ID)
	require.Equal(t, session.ExpiresAt, parsed.ExpiresAt)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	clock := now
	issuer, err := NewIssuer("secret", WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	token, err := issuer.Issue(domain.Session{
		Wallet:    mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Minute),
	})
	require.NoError(t, err)

	clock = now.Add(2 * time.Minute)
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, domain.ErrSessionExpired)

	other, err := NewIssuer("other-secret", WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	_, err = other.Parse(token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = NewIssuer(" ")
	require.Error(t, err)
}
