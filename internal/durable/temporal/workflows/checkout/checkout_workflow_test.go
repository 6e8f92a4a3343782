package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	checkoutactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/checkout"
	"github.com/codecrypto/cbt-marketplace/internal/durable/temporal/sequences"
)

type stubService struct {
	mu       sync.Mutex
	calls    []string
	failLine uint64
	cause    string
}

func (s *stubService) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubService) Prepare(context.Context, mdomain.Address) (*domain.Plan, error) {
	return nil, errors.New("not used by the workflow")
}

func (s *stubService) Approve(_ context.Context, plan domain.Plan) (string, error) {
	s.record("approve")
	return "0xapprove", nil
}

func (s *stubService) AddLine(_ context.Context, _ domain.Plan, line domain.Line) (string, error) {
	s.record(fmt.Sprintf("add:%d", line.ProductID))
	if line.ProductID == s.failLine {
		return "", fmt.Errorf("adding %s to on-chain cart: execution reverted: Insufficient stock", line.Name)
	}
	return fmt.Sprintf("0xline%d", line.ProductID), nil
}

func (s *stubService) Submit(_ context.Context, plan domain.Plan) (*domain.Result, error) {
	s.record("submit")
	return &domain.Result{RunID: plan.RunID, Wallet: plan.Wallet, Total: plan.Total, CheckoutTx: "0xcheckout"}, nil
}

func (s *stubService) Fail(_ context.Context, _ domain.Plan, cause string) error {
	s.record("fail")
	s.mu.Lock()
	s.cause = cause
	s.mu.Unlock()
	return nil
}

func (s *stubService) Checkout(context.Context, mdomain.Address) (*domain.Result, error) {
	return nil, errors.New("not used by the workflow")
}

func (s *stubService) Runs(context.Context, mdomain.Address) ([]domain.Run, error) {
	return nil, nil
}

func newEnv(t *testing.T, svc *stubService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := checkoutactivities.NewActivities(svc)
	env.RegisterWorkflowWithOptions(CheckoutWorkflow, workflow.RegisterOptions{Name: CheckoutWorkflowName})
	env.RegisterActivityWithOptions(acts.Approve, activity.RegisterOptions{Name: checkoutactivities.ApproveActivityName})
	env.RegisterActivityWithOptions(acts.AddLine, activity.RegisterOptions{Name: checkoutactivities.AddLineActivityName})
	env.RegisterActivityWithOptions(acts.Submit, activity.RegisterOptions{Name: checkoutactivities.SubmitActivityName})
	env.RegisterActivityWithOptions(acts.Fail, activity.RegisterOptions{Name: checkoutactivities.FailActivityName})
	return env
}

func testPlan() domain.Plan {
	return domain.Plan{
		RunID:      "run-1",
		Wallet:     mdomain.MustParseAddress("0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"),
		Lines:      []domain.Line{{ProductID: 2, Name: "Book", Quantity: 1}, {ProductID: 1, Name: "Laptop", Quantity: 2}},
		SellerRUCs: []string{"1790012345001"},
		Total:      decimal.NewFromInt(240),
	}
}

func TestCheckoutWorkflow_RunsStepsInOrder(t *testing.T) {
	svc := &stubService{}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{Plan: testPlan()})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result domain.Result
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, "0xcheckout", result.CheckoutTx)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, []string{"approve", "add:2", "add:1", "submit"}, svc.calls)
}

func TestCheckoutWorkflow_StopsAtFirstFailedLine(t *testing.T) {
	svc := &stubService{failLine: 2}
	env := newEnv(t, svc)

	env.ExecuteWorkflow(CheckoutWorkflowName, CheckoutWorkflowInput{Plan: testPlan()})

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	assert.Equal(t, "adding Book to on-chain cart: execution reverted: Insufficient stock", sequences.Cause(err))
	assert.Equal(t, []string{"approve", "add:2", "fail"}, svc.calls)
	assert.Equal(t, "adding Book to on-chain cart: execution reverted: Insufficient stock", svc.cause)
}
