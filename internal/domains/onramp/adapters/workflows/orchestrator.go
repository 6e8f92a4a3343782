package workflows

import (
	"context"
	"errors"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	mports "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/ports"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	"github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
	"github.com/codecrypto/cbt-marketplace/internal/durable/temporal/sequences"
	checkoutworkflows "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/workflows/checkout"
	onrampworkflows "github.com/codecrypto/cbt-marketplace/internal/durable/temporal/workflows/onramp"
)

var (
	_ ports.Orchestrator = (*TemporalMint)(nil)
	_ ports.Orchestrator = (*InlineMint)(nil)
)

// TemporalMint verifies in process and mints through a workflow keyed by the
// payment intent, so concurrent requests for one intent share a run.
type TemporalMint struct {
	client    client.Client
	service   ports.Service
	taskQueue string
}

func NewTemporalMint(c client.Client, service ports.Service) *TemporalMint {
	return &TemporalMint{client: c, service: service, taskQueue: checkoutworkflows.TaskQueue}
}

func (o *TemporalMint) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	if o == nil || o.client == nil || o.service == nil {
		return nil, errors.New("temporal mint not configured")
	}
	req = req.Normalize()
	existing, err := o.service.Verify(ctx, req)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	options := client.StartWorkflowOptions{
		ID:        WorkflowID(req.PaymentIntentID),
		TaskQueue: o.taskQueue,
	}
	input := onrampworkflows.MintWorkflowInput{Request: req, TraceID: traceID(ctx)}
	run, err := o.client.ExecuteWorkflow(ctx, options, onrampworkflows.MintWorkflowName, input)
	if err != nil {
		return nil, err
	}
	var receipt domain.MintReceipt
	if err := run.Get(ctx, &receipt); err != nil {
		return nil, workflowError(err)
	}
	return &receipt, nil
}

// InlineMint mints in the calling goroutine.
type InlineMint struct {
	service ports.Service
}

func NewInlineMint(service ports.Service) *InlineMint {
	return &InlineMint{service: service}
}

func (o *InlineMint) Mint(ctx context.Context, req domain.MintRequest) (*domain.MintReceipt, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline mint not configured")
	}
	return o.service.Mint(ctx, req)
}

// WorkflowID is the mint workflow id of a payment intent.
func WorkflowID(paymentIntentID string) string {
	return "onramp-mint-" + strings.TrimSpace(paymentIntentID)
}

type mintError struct {
	msg   string
	cause error
}

func (e *mintError) Error() string { return e.msg }
func (e *mintError) Unwrap() error { return e.cause }

func workflowError(err error) error {
	msg := sequences.Cause(err)
	if strings.Contains(msg, mports.ErrReverted.Error()) {
		return &mintError{msg: msg, cause: mports.ErrReverted}
	}
	return &mintError{msg: msg, cause: err}
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
