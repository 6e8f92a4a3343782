package memory

import (
	"context"
	"sync"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

var (
	_ ports.ChallengeStore = (*ChallengeStore)(nil)
	_ ports.SessionStore   = (*SessionStore)(nil)
)

// ChallengeStore is an in-memory ChallengeStore implementation.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[mdomain.Address]domain.Challenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{challenges: map[mdomain.Address]domain.Challenge{}}
}

func (s *ChallengeStore) Put(_ context.Context, challenge domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.Wallet] = challenge
	return nil
}

func (s *ChallengeStore) Take(_ context.Context, wallet mdomain.Address) (*domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[wallet]
	if !ok {
		return nil, domain.ErrChallengeNotFound
	}
	delete(s.challenges, wallet)
	return &challenge, nil
}

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]domain.Session{}}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (s *SessionStore) DeleteWallet(_ context.Context, wallet mdomain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.Wallet.Equal(wallet) {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *SessionStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged int64
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			purged++
		}
	}
	return purged, nil
}
