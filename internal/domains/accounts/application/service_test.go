package application

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/ethsig"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/jwt"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/memory"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const buyerKey = "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"

var (
	admin    = mdomain.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	commerce = mdomain.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	buyer    = mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
)

type fixture struct {
	svc      *Service
	network  *mmemory.Network
	sessions *memory.SessionStore
	clock    *time.Time
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clock := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	network := mmemory.NewNetwork(admin, mmemory.WithClock(now))
	issuer, err := jwt.NewIssuer("test-secret", jwt.WithClock(now))
	require.NoError(t, err)
	sessions := memory.NewSessionStore()
	svc := NewService(
		Config{Admin: admin, Commerce: commerce, SessionTTL: time.Hour},
		network.Marketplace(), network.Token(),
		memory.NewChallengeStore(), sessions, ethsig.NewVerifier(), issuer,
		WithClock(now),
	)
	return fixture{svc: svc, network: network, sessions: sessions, clock: &clock}
}

func TestSignInFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key, err := crypto.HexToECDSA(buyerKey)
	require.NoError(t, err)

	challenge, err := f.svc.Challenge(ctx, "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	require.NoError(t, err)
	assert.Equal(t, buyer, challenge.Wallet)
	assert.Contains(t, challenge.Message, challenge.Nonce)

	sig, err := ethsig.SignText(challenge.Message, key)
	require.NoError(t, err)

	session, err := f.svc.Verify(ctx, buyer.String(), sig)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	authed, err := f.svc.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, buyer, authed.Wallet)

	_, err = f.svc.Verify(ctx, buyer.String(), sig)
	require.ErrorIs(t, err, ErrAuthentication, "challenge is single use")

	require.NoError(t, f.svc.Logout(ctx, buyer))
	_, err = f.svc.Authenticate(ctx, session.Token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestVerifyRejectsOtherSigner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key, err := crypto.HexToECDSA(buyerKey)
	require.NoError(t, err)

	challenge, err := f.svc.Challenge(ctx, commerce.String())
	require.NoError(t, err)
	sig, err := ethsig.SignText(challenge.Message, key)
	require.NoError(t, err)

	_, err = f.svc.Verify(ctx, commerce.String(), sig)
	require.ErrorIs(t, err, ErrAuthentication)
	require.ErrorIs(t, err, domain.ErrSignerMismatch)
}

func TestVerifyRejectsExpiredChallenge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	key, err := crypto.HexToECDSA(buyerKey)
	require.NoError(t, err)

	challenge, err := f.svc.Challenge(ctx, buyer.String())
	require.NoError(t, err)
	sig, err := ethsig.SignText(challenge.Message, key)
	require.NoError(t, err)

	*f.clock = f.clock.Add(DefaultChallengeTTL)
	_, err = f.svc.Verify(ctx, buyer.String(), sig)
	require.ErrorIs(t, err, domain.ErrChallengeExpired)
}

func TestDescribeRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	market := f.network.Marketplace()

	account, err := f.svc.Describe(ctx, admin.String())
	require.NoError(t, err)
	assert.True(t, account.HasRole(domain.RoleAdmin))
	assert.True(t, account.HasRole(domain.RoleOwner))

	account, err = f.svc.Describe(ctx, commerce.String())
	require.NoError(t, err)
	assert.True(t, account.HasRole(domain.RoleCommerce))
	assert.True(t, account.HasRole(domain.RoleSeller))
	assert.Empty(t, account.SellerRUC)

	_, err = market.RegisterCompany(ctx, admin, mdomain.CompanyRegistration{RUC: "1790012345001", Name: "Andes", Wallet: buyer})
	require.NoError(t, err)
	f.network.Credit(buyer, decimal.NewFromInt(42))
	_, err = f.svc.RegisterClient(ctx, buyer, mdomain.ClientProfile{Name: "Ana", IDNumber: "1712345678"})
	require.NoError(t, err)

	account, err = f.svc.Describe(ctx, buyer.String())
	require.NoError(t, err)
	assert.Equal(t, "1790012345001", account.SellerRUC)
	assert.True(t, account.HasRole(domain.RoleSeller))
	assert.True(t, account.Registered())
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(42)))

	_, err = f.svc.Describe(ctx, "nope")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequireOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequireOwner(ctx, admin))
	err := f.svc.RequireOwner(ctx, buyer)
	require.ErrorIs(t, err, ErrForbidden)
	require.ErrorIs(t, err, domain.ErrNotAdministrator)
}

func TestRegisterClientValidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegisterClient(context.Background(), buyer, mdomain.ClientProfile{Name: "Ana"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPurgeExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, domain.Session{Token: "a", Wallet: buyer, ExpiresAt: f.clock.Add(-time.Minute)}))
	require.NoError(t, f.sessions.Save(ctx, domain.Session{Token: "b", Wallet: buyer, ExpiresAt: f.clock.Add(time.Minute)}))

	purged, err := f.svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
