//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/platform/redis/redistest"
)

func TestChallengeStore_TakeIsSingleUse(t *testing.T) {
	client := redistest.Start(t)
	store := NewChallengeStore(client)
	ctx := context.Background()
	wallet := mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")

	challenge := domain.Challenge{Wallet: wallet, Nonce: "n-1", Message: "sign me", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Put(ctx, challenge))

	got, err := store.Take(ctx, wallet)
	require.NoError(t, err)
	require.Equal(t, "n-1", got.Nonce)
	require.Equal(t, "sign me", got.Message)

	_, err = store.Take(ctx, wallet)
	require.ErrorIs(t, err, domain.ErrChallengeNotFound)
}
