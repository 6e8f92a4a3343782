package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	checkoutdomain "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/domain"
	checkoutports "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   checkoutports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core checkout service.
func New(inner checkoutports.Service, opts ...Option) checkoutports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Prepare(ctx context.Context, wallet mdomain.Address) (*checkoutdomain.Plan, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Prepare", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	plan, err := s.inner.Prepare(ctx, wallet)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return nil, s.handleError(ctx, span, err, "checkout rejected", slog.String("wallet", wallet.String()))
	}
	span.SetAttributes(attribute.String("checkout.run_id", plan.RunID), attribute.Int("checkout.lines", len(plan.Lines)))
	s.logInfo(ctx, "checkout prepared",
		slog.String("wallet", wallet.String()),
		slog.String("run.id", plan.RunID),
		slog.String("total", plan.Total.String()),
		slog.Any("sellers", plan.SellerRUCs),
	)
	return plan, nil
}

func (s *Service) Approve(ctx context.Context, plan checkoutdomain.Plan) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Approve", trace.WithAttributes(attribute.String("checkout.run_id", plan.RunID)))
	defer span.End()

	hash, err := s.inner.Approve(ctx, plan)
	if err != nil {
		return "", s.handleError(ctx, span, err, "allowance approval failed", slog.String("run.id", plan.RunID))
	}
	if hash != "" {
		s.logInfo(ctx, "allowance approved", slog.String("run.id", plan.RunID), slog.String("tx", hash))
	}
	return hash, nil
}

func (s *Service) AddLine(ctx context.Context, plan checkoutdomain.Plan, line checkoutdomain.Line) (string, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.AddLine", trace.WithAttributes(
		attribute.String("checkout.run_id", plan.RunID),
		attribute.Int64("product.id", int64(line.ProductID)),
	))
	defer span.End()

	hash, err := s.inner.AddLine(ctx, plan, line)
	if err != nil {
		return "", s.handleError(ctx, span, err, "on-chain cart sync failed", slog.String("run.id", plan.RunID), slog.Uint64("product.id", line.ProductID))
	}
	return hash, nil
}

func (s *Service) Submit(ctx context.Context, plan checkoutdomain.Plan) (*checkoutdomain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Submit", trace.WithAttributes(attribute.String("checkout.run_id", plan.RunID)))
	defer span.End()

	result, err := s.inner.Submit(ctx, plan)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout transaction failed", slog.String("run.id", plan.RunID))
	}
	s.metrics.recordCompleted(ctx)
	s.logInfo(ctx, "checkout completed", slog.String("run.id", plan.RunID), slog.String("tx", result.CheckoutTx))
	return result, nil
}

func (s *Service) Fail(ctx context.Context, plan checkoutdomain.Plan, cause string) error {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Fail", trace.WithAttributes(attribute.String("checkout.run_id", plan.RunID)))
	defer span.End()

	s.metrics.recordFailed(ctx)
	s.logger.LogAttrs(ctx, slog.LevelWarn, "checkout run failed", slog.String("run.id", plan.RunID), slog.String("cause", cause))
	if err := s.inner.Fail(ctx, plan, cause); err != nil {
		return s.handleError(ctx, span, err, "failed to record checkout failure", slog.String("run.id", plan.RunID))
	}
	return nil
}

func (s *Service) Checkout(ctx context.Context, wallet mdomain.Address) (*checkoutdomain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Checkout", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	result, err := s.inner.Checkout(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.String("wallet", wallet.String()))
	}
	return result, nil
}

func (s *Service) Runs(ctx context.Context, wallet mdomain.Address) ([]checkoutdomain.Run, error) {
	ctx, span := s.tracer.Start(ctx, "CheckoutService.Runs", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	runs, err := s.inner.Runs(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list checkout runs", slog.String("wallet", wallet.String()))
	}
	return runs, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	completed metric.Int64Counter
	failed    metric.Int64Counter
	rejected  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	completed, _ := m.Int64Counter("checkout.service.completed", metric.WithDescription("Checkouts mined on chain"))
	failed, _ := m.Int64Counter("checkout.service.failed", metric.WithDescription("Checkout runs that stopped part way"))
	rejected, _ := m.Int64Counter("checkout.service.rejected", metric.WithDescription("Checkouts refused before any transaction"))
	return serviceMetrics{completed: completed, failed: failed, rejected: rejected}
}

func (m serviceMetrics) recordCompleted(ctx context.Context) {
	if m.completed != nil {
		m.completed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context) {
	if m.failed != nil {
		m.failed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1)
	}
}

var _ checkoutports.Service = (*Service)(nil)
