package onramp

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	onrampactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/onramp"
)

type stubService struct {
	calls int
	err   error
}

func (s *stubService) CreatePaymentIntent(context.Context, decimal.Decimal) (*domain.PaymentIntent, error) {
	return nil, errors.New("not used by the workflow")
}

func (s *stubService) Verify(context.Context, domain.MintRequest) (*domain.MintReceipt, error) {
	return nil, nil
}

func (s *stubService) Mint(_ context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.MintReceipt{PaymentIntentID: req.PaymentIntentID, Wallet: req.Wallet, Amount: req.Amount, TxHash: "0xmint"}, nil
}

func newEnv(t *testing.T, svc *stubService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(MintWorkflow, workflow.RegisterOptions{Name: MintWorkflowName})
	acts := onrampactivities.NewActivities(svc)
	env.RegisterActivityWithOptions(acts.Mint, activity.RegisterOptions{Name: onrampactivities.MintActivityName})
	return env
}

var request = domain.MintRequest{
	PaymentIntentID: "pi_123",
	Wallet:          mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
	Amount:          decimal.NewFromInt(25),
}

func TestMintWorkflow(t *testing.T) {
	svc := &stubService{}
	env := newEnv(t, svc)
	env.ExecuteWorkflow(MintWorkflowName, MintWorkflowInput{Request: request, TraceID: "abc"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var receipt domain.MintReceipt
	require.NoError(t, env.GetWorkflowResult(&receipt))
	assert.Equal(t, "0xmint", receipt.TxHash)
	assert.True(t, receipt.Amount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, 1, svc.calls)
}

func TestMintWorkflow_SingleAttempt(t *testing.T) {
	svc := &stubService{err: errors.New("mint: execution reverted: Ownable: caller is not the owner")}
	env := newEnv(t, svc)
	env.ExecuteWorkflow(MintWorkflowName, MintWorkflowInput{Request: request})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "caller is not the owner")
	assert.Equal(t, 1, svc.calls)
}
