package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const keyPrefix = "cbt:challenge:"

// ChallengeStore keeps sign-in challenges in Redis with their own expiry.
type ChallengeStore struct {
	client *goredis.Client
	now    func() time.Time
}

func NewChallengeStore(client *goredis.Client) *ChallengeStore {
	return &ChallengeStore{client: client, now: time.Now}
}

type challengePayload struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *ChallengeStore) Put(ctx context.Context, challenge domain.Challenge) error {
	ttl := challenge.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return domain.ErrChallengeExpired
	}
	raw, err := json.Marshal(challengePayload{Nonce: challenge.Nonce, Message: challenge.Message, ExpiresAt: challenge.ExpiresAt})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+challenge.Wallet.String(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

func (s *ChallengeStore) Take(ctx context.Context, wallet mdomain.Address) (*domain.Challenge, error) {
	raw, err := s.client.GetDel(ctx, keyPrefix+wallet.String()).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	var payload challengePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &domain.Challenge{
		Wallet:    wallet,
		Nonce:     payload.Nonce,
		Message:   payload.Message,
		ExpiresAt: payload.ExpiresAt,
	}, nil
}

var _ ports.ChallengeStore = (*ChallengeStore)(nil)
