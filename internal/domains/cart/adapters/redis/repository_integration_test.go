//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/platform/redis/redistest"
)

func TestRepository_RoundTripWithExpiry(t *testing.T) {
	client := redistest.Start(t)
	repo := NewRepository(client, time.Hour)
	ctx := context.Background()
	owner := mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	now := time.Now().UTC()

	cart := domain.NewCart(owner, now)
	cart.Add(domain.Item{ProductID: 7, Name: "Mouse", Price: decimal.RequireFromString("12.5"), CompanyRUC: "1"}, now)
	require.NoError(t, repo.Save(ctx, cart))

	ttl, err := client.TTL(ctx, domain.StorageKey(owner)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	loaded, err := repo.Load(ctx, owner)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Mouse", loaded.Items[0].Name)
	assert.Equal(t, domain.DefaultCompanyName, loaded.Items[0].CompanyName)

	require.NoError(t, repo.Delete(ctx, owner))
	_, err = repo.Load(ctx, owner)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
