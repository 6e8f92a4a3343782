package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/application"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/durable/temporal/sequences"
	checkoutworkflows "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/workflows/checkout"
)

var (
	_ ports.Orchestrator = (*TemporalCheckout)(nil)
	_ ports.Orchestrator = (*InlineCheckout)(nil)
)

// TemporalCheckout validates in process and executes the plan as a Temporal workflow.
type TemporalCheckout struct {
	client    client.Client
	service   ports.Service
	taskQueue string
	logger    *slog.Logger
}

func NewTemporalCheckout(c client.Client, service ports.Service, logger *slog.Logger) *TemporalCheckout {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemporalCheckout{client: c, service: service, taskQueue: checkoutworkflows.TaskQueue, logger: logger}
}

// Checkout starts one workflow per wallet; a second checkout while one is
// running is refused.
func (o *TemporalCheckout) Checkout(ctx context.Context, wallet mdomain.Address) (*domain.Result, error) {
	if o == nil || o.client == nil || o.service == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	plan, err := o.service.Prepare(ctx, wallet)
	if err != nil {
		return nil, err
	}
	options := client.StartWorkflowOptions{
		ID:        WorkflowID(wallet),
		TaskQueue: o.taskQueue,
	}
	options.WorkflowExecutionErrorWhenAlreadyStarted = true
	input := checkoutworkflows.CheckoutWorkflowInput{Plan: *plan, TraceID: workflowTraceID(ctx)}
	run, err := o.client.ExecuteWorkflow(ctx, options, checkoutworkflows.CheckoutWorkflowName, input)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			o.recordFailure(ctx, *plan, domain.ErrRunAlreadyInProgress.Error())
			return nil, fmt.Errorf("%w: %w", application.ErrRejected, domain.ErrRunAlreadyInProgress)
		}
		o.recordFailure(ctx, *plan, err.Error())
		return nil, err
	}
	var result domain.Result
	if err := run.Get(ctx, &result); err != nil {
		return nil, workflowError(err)
	}
	return &result, nil
}

func (o *TemporalCheckout) recordFailure(ctx context.Context, plan domain.Plan, cause string) {
	if err := o.service.Fail(ctx, plan, cause); err != nil {
		o.logger.ErrorContext(ctx, "failed to record checkout failure", slog.String("run.id", plan.RunID), slog.String("error", err.Error()))
	}
}

// InlineCheckout runs the steps in process without durable orchestration.
type InlineCheckout struct {
	service ports.Service
}

func NewInlineCheckout(service ports.Service) *InlineCheckout {
	return &InlineCheckout{service: service}
}

func (o *InlineCheckout) Checkout(ctx context.Context, wallet mdomain.Address) (*domain.Result, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.service.Checkout(ctx, wallet)
}

// WorkflowID is the per-wallet checkout workflow id.
func WorkflowID(wallet mdomain.Address) string {
	return "checkout-" + strings.ToLower(wallet.String())
}

// stepError carries the message of the failing step with a usable cause.
type stepError struct {
	msg   string
	cause error
}

func (e *stepError) Error() string { return e.msg }
func (e *stepError) Unwrap() error { return e.cause }

func workflowError(err error) error {
	msg := sequences.Cause(err)
	if strings.Contains(msg, mports.ErrReverted.Error()) {
		return &stepError{msg: msg, cause: mports.ErrReverted}
	}
	return &stepError{msg: msg, cause: err}
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
