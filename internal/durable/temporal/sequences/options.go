package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// singleAttempt runs every ledger write at most once. A retried approve,
// addToCart or mint would repeat an on-chain effect.
func singleAttempt() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
}

// WithSingleAttempt applies the single attempt activity options to ctx.
func WithSingleAttempt(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, singleAttempt())
}

// Cause returns the message of the application error inside err, dropping
// the activity and workflow framing Temporal adds.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
