package checkout

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	checkoutports "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
)

const (
	// ApproveActivityName raises the marketplace allowance when it falls short.
	ApproveActivityName = "checkout.activities.Approve"
	// AddLineActivityName mirrors one cart line into the on-chain cart.
	AddLineActivityName = "checkout.activities.AddLine"
	// SubmitActivityName calls checkout and clears the local cart.
	SubmitActivityName = "checkout.activities.Submit"
	// FailActivityName closes a run that could not finish.
	FailActivityName = "checkout.activities.Fail"
)

// AddLineInput pairs a plan with the line to mirror.
type AddLineInput struct {
	Plan domain.Plan
	Line domain.Line
}

// FailInput carries the message of the step that broke the run.
type FailInput struct {
	Plan  domain.Plan
	Cause string
}

// Activities exposes the checkout steps to Temporal.
type Activities struct {
	service checkoutports.Service
}

func NewActivities(service checkoutports.Service) *Activities {
	return &Activities{service: service}
}

func (a *Activities) Approve(ctx context.Context, plan domain.Plan) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return "", errors.New("checkout activities not initialized")
	}
	logger.Info("Approve activity started", "runId", plan.RunID, "total", plan.Total.String())
	hash, err := a.service.Approve(ctx, plan)
	if err != nil {
		logger.Error("Approve activity failed", "runId", plan.RunID, "error", err)
		return "", err
	}
	logger.Info("Approve activity completed", "runId", plan.RunID, "tx", hash)
	return hash, nil
}

func (a *Activities) AddLine(ctx context.Context, input AddLineInput) (string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return "", errors.New("checkout activities not initialized")
	}
	hash, err := a.service.AddLine(ctx, input.Plan, input.Line)
	if err != nil {
		logger.Error("AddLine activity failed", "runId", input.Plan.RunID, "productId", input.Line.ProductID, "error", err)
		return "", err
	}
	logger.Info("AddLine activity completed", "runId", input.Plan.RunID, "productId", input.Line.ProductID, "tx", hash)
	return hash, nil
}

func (a *Activities) Submit(ctx context.Context, plan domain.Plan) (*domain.Result, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		return nil, errors.New("checkout activities not initialized")
	}
	result, err := a.service.Submit(ctx, plan)
	if err != nil {
		logger.Error("Submit activity failed", "runId", plan.RunID, "error", err)
		return nil, err
	}
	logger.Info("Submit activity completed", "runId", plan.RunID, "tx", result.CheckoutTx)
	return result, nil
}

func (a *Activities) Fail(ctx context.Context, input FailInput) error {
	if a == nil || a.service == nil {
		return errors.New("checkout activities not initialized")
	}
	activity.GetLogger(ctx).Warn("closing failed checkout run", "runId", input.Plan.RunID, "cause", input.Cause)
	return a.service.Fail(ctx, input.Plan, input.Cause)
}
