package workflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	mmemory "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/adapters/memory"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/memory"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/application"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
)

func TestWorkflowID(t *testing.T) {
	assert.Equal(t, "onramp-mint-pi_123", WorkflowID(" pi_123 "))
}

func TestInlineMint(t *testing.T) {
	ctx := context.Background()
	net := mmemory.NewNetwork(mmemory.DemoOwner)
	payments := memory.NewPayments(true)
	svc := application.NewService(payments, net.Token(), memory.NewReceipts())
	intent, err := svc.CreatePaymentIntent(ctx, decimal.NewFromInt(3))
	require.NoError(t, err)

	wallet := mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc")
	receipt, err := NewInlineMint(svc).Mint(ctx, domain.MintRequest{PaymentIntentID: intent.ID, Wallet: wallet, Amount: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.TxHash)
}

func TestWorkflowErrorKeepsRevert(t *testing.T) {
	appErr := temporal.NewApplicationError("mint 3 CBT: execution reverted: paused", "")
	err := workflowError(fmt.Errorf("activity error: %w", appErr))
	require.ErrorIs(t, err, mports.ErrReverted)
	assert.Equal(t, "mint 3 CBT: execution reverted: paused", err.Error())

	plain := workflowError(errors.New("timeout"))
	assert.False(t, errors.Is(plain, mports.ErrReverted))
}
