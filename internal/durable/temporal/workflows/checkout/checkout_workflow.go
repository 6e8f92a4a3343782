package checkout

import (
	"go.temporal.io/sdk/workflow"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	checkoutactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/checkout"
	"github.com/codecrypto/cbt-marketplace/internal/durable/temporal/sequences"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "checkout.workflows.Run"
	// TaskQueue is consumed by the marketplace worker.
	TaskQueue = "CBT_MARKETPLACE"
)

// CheckoutWorkflowInput is a prepared plan plus the caller's trace id.
type CheckoutWorkflowInput struct {
	Plan    domain.Plan
	TraceID string
}

// CheckoutWorkflow executes a prepared checkout plan and closes the run as
// failed when any step errors.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*domain.Result, error) {
	logger := workflow.GetLogger(ctx)
	plan := input.Plan
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "runId", plan.RunID, "wallet", plan.Wallet.String())...)

	result, err := sequences.RunCheckoutSequence(ctx, plan)
	if err != nil {
		cause := sequences.Cause(err)
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "runId", plan.RunID, "error", cause)...)
		failCtx := sequences.WithSingleAttempt(ctx)
		failInput := checkoutactivities.FailInput{Plan: plan, Cause: cause}
		if failErr := workflow.ExecuteActivity(failCtx, checkoutactivities.FailActivityName, failInput).Get(ctx, nil); failErr != nil {
			logger.Error("CheckoutWorkflow could not record failure", "runId", plan.RunID, "error", failErr)
		}
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "runId", plan.RunID, "tx", result.CheckoutTx)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
