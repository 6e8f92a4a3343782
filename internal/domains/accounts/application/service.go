package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
)

const (
	DefaultChallengeTTL = 5 * time.Minute
	DefaultSessionTTL   = 24 * time.Hour
)

// Config names the wallets with fixed roles.
type Config struct {
	Admin        mdomain.Address
	Commerce     mdomain.Address
	SessionTTL   time.Duration
	ChallengeTTL time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service implements wallet sign-in and role resolution.
type Service struct {
	cfg        Config
	ledger     mports.Ledger
	token      mports.Token
	challenges ports.ChallengeStore
	sessions   ports.SessionStore
	verifier   ports.SignatureVerifier
	issuer     ports.TokenIssuer
	now        func() time.Time
}

func NewService(cfg Config, ledger mports.Ledger, token mports.Token, challenges ports.ChallengeStore, sessions ports.SessionStore, verifier ports.SignatureVerifier, issuer ports.TokenIssuer, opts ...Option) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ChallengeTTL <= 0 {
		cfg.ChallengeTTL = DefaultChallengeTTL
	}
	s := &Service{
		cfg:        cfg,
		ledger:     ledger,
		token:      token,
		challenges: challenges,
		sessions:   sessions,
		verifier:   verifier,
		issuer:     issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Challenge replaces any pending challenge for the wallet.
func (s *Service) Challenge(ctx context.Context, wallet string) (*domain.Challenge, error) {
	addr, err := mdomain.ParseAddress(wallet)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now().UTC()
	nonce := uuid.NewString()
	challenge := domain.Challenge{
		Wallet:    addr,
		Nonce:     nonce,
		Message:   domain.ChallengeMessage(addr, nonce, now),
		ExpiresAt: now.Add(s.cfg.ChallengeTTL),
	}
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// Verify consumes the pending challenge and opens a session when the
// signature recovers to the wallet.
func (s *Service) Verify(ctx context.Context, wallet, signature string) (*domain.Session, error) {
	addr, err := mdomain.ParseAddress(wallet)
	if err != nil {
		return nil, mapError(err)
	}
	challenge, err := s.challenges.Take(ctx, addr)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.now().UTC()
	if challenge.Expired(now) {
		return nil, mapError(domain.ErrChallengeExpired)
	}
	signer, err := s.verifier.Recover(challenge.Message, signature)
	if err != nil {
		return nil, mapError(err)
	}
	if !signer.Equal(addr) {
		return nil, mapError(domain.ErrSignerMismatch)
	}
	session := domain.Session{
		ID:        uuid.NewString(),
		Wallet:    addr,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	token, err := s.issuer.Issue(session)
	if err != nil {
		return nil, err
	}
	session.Token = token
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Authenticate accepts a token only while it verifies and its session is stored.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, mapError(err)
	}
	stored, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	if stored.Expired(s.now()) {
		return nil, mapError(domain.ErrSessionExpired)
	}
	if !stored.Wallet.Equal(claims.Wallet) {
		return nil, mapError(domain.ErrSessionNotFound)
	}
	return stored, nil
}

func (s *Service) Logout(ctx context.Context, wallet mdomain.Address) error {
	if wallet.IsZero() {
		return nil
	}
	return s.sessions.DeleteWallet(ctx, wallet)
}

// Describe resolves roles, client profile and balance for any wallet.
func (s *Service) Describe(ctx context.Context, wallet string) (*domain.Account, error) {
	addr, err := mdomain.ParseAddress(wallet)
	if err != nil {
		return nil, mapError(err)
	}
	account := &domain.Account{Wallet: addr}
	if !s.cfg.Admin.IsZero() && addr.Equal(s.cfg.Admin) {
		account.Roles = append(account.Roles, domain.RoleAdmin)
	}
	owner, err := s.ledger.Owner(ctx)
	if err != nil {
		return nil, err
	}
	if addr.Equal(owner) {
		account.Roles = append(account.Roles, domain.RoleOwner)
	}
	commerce := !s.cfg.Commerce.IsZero() && addr.Equal(s.cfg.Commerce)
	if commerce {
		account.Roles = append(account.Roles, domain.RoleCommerce)
	}
	ruc, err := s.ledger.SellerRUC(ctx, addr)
	if err != nil {
		return nil, err
	}
	account.SellerRUC = ruc
	if ruc != "" || commerce {
		account.Roles = append(account.Roles, domain.RoleSeller)
	}
	profile, err := s.ledger.Client(ctx, addr)
	if err != nil {
		return nil, err
	}
	account.Profile = *profile
	if len(account.Roles) == 0 {
		account.Roles = []domain.Role{domain.RoleCustomer}
	}
	balance, err := s.token.BalanceOf(ctx, addr)
	if err != nil {
		return nil, err
	}
	account.Balance = balance
	return account, nil
}

func (s *Service) RegisterClient(ctx context.Context, wallet mdomain.Address, profile mdomain.ClientProfile) (*mdomain.TxReceipt, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.ledger.RegisterClient(ctx, wallet, profile)
}

// RequireOwner denies back-office access to every wallet but the contract owner.
func (s *Service) RequireOwner(ctx context.Context, wallet mdomain.Address) error {
	owner, err := s.ledger.Owner(ctx)
	if err != nil {
		return err
	}
	if owner.IsZero() || !owner.Equal(wallet) {
		return mapError(domain.ErrNotAdministrator)
	}
	return nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	if s.sessions == nil {
		return 0, errors.New("session store not configured")
	}
	return s.sessions.PurgeExpired(ctx, s.now())
}

var _ ports.Service = (*Service)(nil)
