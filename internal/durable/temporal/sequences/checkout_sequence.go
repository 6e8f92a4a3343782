package sequences

import (
	"go.temporal.io/sdk/workflow"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	checkoutactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/checkout"
)

// RunCheckoutSequence approves, mirrors every line and submits, in order.
// The first failing step ends the sequence.
func RunCheckoutSequence(ctx workflow.Context, plan domain.Plan) (*domain.Result, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("checkout sequence started", "runId", plan.RunID, "lines", len(plan.Lines))
	ctx = WithSingleAttempt(ctx)

	if err := workflow.ExecuteActivity(ctx, checkoutactivities.ApproveActivityName, plan).Get(ctx, nil); err != nil {
		logger.Error("checkout approval failed", "runId", plan.RunID, "error", err)
		return nil, err
	}
	for _, line := range plan.Lines {
		input := checkoutactivities.AddLineInput{Plan: plan, Line: line}
		if err := workflow.ExecuteActivity(ctx, checkoutactivities.AddLineActivityName, input).Get(ctx, nil); err != nil {
			logger.Error("checkout line failed", "runId", plan.RunID, "productId", line.ProductID, "error", err)
			return nil, err
		}
	}
	var result domain.Result
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.SubmitActivityName, plan).Get(ctx, &result); err != nil {
		logger.Error("checkout submit failed", "runId", plan.RunID, "error", err)
		return nil, err
	}
	logger.Info("checkout sequence completed", "runId", plan.RunID, "tx", result.CheckoutTx)
	return &result, nil
}
