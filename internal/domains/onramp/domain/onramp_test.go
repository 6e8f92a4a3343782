package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

func TestValidateAmount(t *testing.T) {
	require.ErrorIs(t, ValidateAmount(decimal.Zero), ErrInvalidAmount)
	require.ErrorIs(t, ValidateAmount(decimal.NewFromInt(-5)), ErrInvalidAmount)
	require.NoError(t, ValidateAmount(decimal.RequireFromString("0.01")))
}

func TestMintRequestValidate(t *testing.T) {
	wallet := mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	ok := MintRequest{PaymentIntentID: " pi_123 ", Wallet: wallet, Amount: decimal.NewFromInt(10)}.Normalize()
	assert.Equal(t, "pi_123", ok.PaymentIntentID)
	require.NoError(t, ok.Validate())

	missing := ok
	missing.PaymentIntentID = ""
	require.ErrorIs(t, missing.Validate(), ErrMissingPaymentIntent)

	bad := ok
	bad.Wallet = "0x1234"
	require.ErrorIs(t, bad.Validate(), mdomain.ErrInvalidAddress)

	zero := ok
	zero.Wallet = mdomain.ZeroAddress
	require.ErrorIs(t, zero.Validate(), mdomain.ErrInvalidAddress)

	free := ok
	free.Amount = decimal.Zero
	require.ErrorIs(t, free.Validate(), ErrInvalidAmount)
}

func TestPaymentIntentSucceeded(t *testing.T) {
	assert.True(t, PaymentIntent{Status: "succeeded"}.Succeeded())
	assert.False(t, PaymentIntent{Status: "requires_payment_method"}.Succeeded())
}
