package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkoutworkflows "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/workflows"
	gatewaydomain "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	onrampworkflows "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/workflows"
)

func memoryConfig() Config {
	return Config{
		CartTTL:      time.Hour,
		SessionTTL:   time.Hour,
		PurchaseURL:  gatewaydomain.DefaultPurchaseURL,
		GatewayOrder: gatewaydomain.DefaultOrder(),
	}
}

func TestBuild_FallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, memoryConfig(), nil, BuildOptions{ServiceName: "cbt-test"})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, mmemory.DemoOwner, c.Admin)
	assert.Nil(t, c.Temporal)
	assert.IsType(t, &checkoutworkflows.InlineCheckout{}, c.Services.Purchases)
	assert.IsType(t, &onrampworkflows.InlineMint{}, c.Services.Minting)

	products, err := c.Services.Catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	eligibility, err := c.Services.Gateway.Eligibility(ctx, mmemory.DemoBuyer)
	require.NoError(t, err)
	assert.True(t, eligibility.Ready())

	merchant, err := c.Services.Gateway.Eligibility(ctx, mmemory.DemoSeller)
	require.NoError(t, err)
	assert.Equal(t, gatewaydomain.StatusRestricted, merchant.Status)
}

func TestBuild_TemporalDisabledStaysInline(t *testing.T) {
	cfg := memoryConfig()
	cfg.TemporalDisabled = true
	c, err := Build(context.Background(), cfg, nil, BuildOptions{ServiceName: "cbt-test", Orchestrate: true})
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Temporal)
	assert.IsType(t, &checkoutworkflows.InlineCheckout{}, c.Services.Purchases)
}

func TestContainerPurge(t *testing.T) {
	ctx := context.Background()
	c, err := Build(ctx, memoryConfig(), nil, BuildOptions{ServiceName: "cbt-test"})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Services.Cart.AddItem(ctx, mmemory.DemoBuyer, 1)
	require.NoError(t, err)

	sessions, carts, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, sessions)
	assert.Zero(t, carts, "a fresh cart is younger than the TTL")
}
