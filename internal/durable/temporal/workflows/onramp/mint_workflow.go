package onramp

import (
	"go.temporal.io/sdk/workflow"

	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	onrampactivities "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/activities/onramp"
	"github.com/codecrypto/cbt-marketplace/internal/durable/temporal/sequences"
)

// MintWorkflowName is the public identifier for registering the workflow.
const MintWorkflowName = "onramp.workflows.Mint"

type MintWorkflowInput struct {
	Request domain.MintRequest
	TraceID string
}

// MintWorkflow mints once for a verified payment intent.
func MintWorkflow(ctx workflow.Context, input MintWorkflowInput) (*domain.MintReceipt, error) {
	logger := workflow.GetLogger(ctx)
	req := input.Request
	logger.Info("MintWorkflow started", withTraceID(input.TraceID, "paymentIntent", req.PaymentIntentID, "wallet", req.Wallet.String())...)

	var receipt domain.MintReceipt
	err := workflow.ExecuteActivity(sequences.WithSingleAttempt(ctx), onrampactivities.MintActivityName, req).Get(ctx, &receipt)
	if err != nil {
		logger.Error("MintWorkflow failed", withTraceID(input.TraceID, "paymentIntent", req.PaymentIntentID, "error", sequences.Cause(err))...)
		return nil, err
	}
	logger.Info("MintWorkflow completed", withTraceID(input.TraceID, "paymentIntent", req.PaymentIntentID, "tx", receipt.TxHash)...)
	return &receipt, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
