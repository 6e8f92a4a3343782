package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	gatewaydomain "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/domain"
	gatewayports "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/gateway/adapters/observability/service"

type Service struct {
	inner   gatewayports.Service
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

func New(inner gatewayports.Service, opts ...Option) gatewayports.Service {
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

func (s *Service) Order() gatewaydomain.Order {
	return s.inner.Order()
}

func (s *Service) Balance(ctx context.Context, wallet mdomain.Address) (decimal.Decimal, error) {
	ctx, span := s.tracer.Start(ctx, "GatewayService.Balance", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	balance, err := s.inner.Balance(ctx, wallet)
	if err != nil {
		return decimal.Zero, s.handleError(ctx, span, err, "failed to read balance", slog.String("wallet", wallet.String()))
	}
	return balance, nil
}

func (s *Service) Eligibility(ctx context.Context, wallet mdomain.Address) (*gatewaydomain.Eligibility, error) {
	ctx, span := s.tracer.Start(ctx, "GatewayService.Eligibility", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	e, err := s.inner.Eligibility(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check eligibility", slog.String("wallet", wallet.String()))
	}
	span.SetAttributes(attribute.String("gateway.role", string(e.Role)), attribute.String("gateway.status", string(e.Status)))
	return e, nil
}

func (s *Service) Pay(ctx context.Context, wallet mdomain.Address) (*gatewaydomain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "GatewayService.Pay", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	payment, err := s.inner.Pay(ctx, wallet)
	if err != nil {
		s.metrics.recordFailure(ctx)
		return nil, s.handleError(ctx, span, err, "gateway payment failed", slog.String("wallet", wallet.String()))
	}
	s.metrics.recordPaid(ctx, payment.Amount)
	span.SetAttributes(attribute.String("tx.hash", payment.TxHash))
	return payment, nil
}

func (s *Service) Confirm(ctx context.Context, wallet mdomain.Address, txHash string) (*gatewaydomain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "GatewayService.Confirm", trace.WithAttributes(
		attribute.String("wallet", wallet.String()),
		attribute.String("tx.hash", txHash),
	))
	defer span.End()

	payment, err := s.inner.Confirm(ctx, wallet, txHash)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "gateway confirmation failed", slog.String("wallet", wallet.String()), slog.String("tx", txHash))
	}
	s.metrics.recordPaid(ctx, payment.Amount)
	return payment, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	paid     metric.Float64Counter
	failures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	paid, _ := m.Float64Counter("gateway.service.cbt_collected", metric.WithDescription("CBT collected by the gateway"))
	failures, _ := m.Int64Counter("gateway.service.payment_failures")
	return serviceMetrics{paid: paid, failures: failures}
}

func (m serviceMetrics) recordPaid(ctx context.Context, amount decimal.Decimal) {
	if m.paid != nil {
		m.paid.Add(ctx, amount.InexactFloat64())
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context) {
	if m.failures != nil {
		m.failures.Add(ctx, 1)
	}
}

var _ gatewayports.Service = (*Service)(nil)
