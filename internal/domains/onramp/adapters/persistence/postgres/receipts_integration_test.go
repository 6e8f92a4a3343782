//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
	"github.com/codecrypto/cbt-marketplace/internal/platform/postgres/postgrestest"
)

func TestReceiptStore_CreateOnce(t *testing.T) {
	db := postgrestest.Start(t)
	store := NewReceiptStore(db)
	ctx := context.Background()

	_, err := store.Get(ctx, "pi_123")
	require.ErrorIs(t, err, ports.ErrReceiptNotFound)

	receipt := domain.MintReceipt{
		PaymentIntentID: "pi_123",
		Wallet:          mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
		Amount:          decimal.RequireFromString("25.5"),
		TxHash:          "0xabc",
		BlockNumber:     12,
		MintedAt:        time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Create(ctx, receipt))

	dup := receipt
	dup.TxHash = "0xdef"
	require.ErrorIs(t, store.Create(ctx, dup), ports.ErrReceiptExists)

	loaded, err := store.Get(ctx, "pi_123")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", loaded.TxHash)
	assert.True(t, loaded.Amount.Equal(decimal.RequireFromString("25.5")))
	assert.Equal(t, uint64(12), loaded.BlockNumber)
	assert.Equal(t, receipt.MintedAt, loaded.MintedAt)
}
