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

	onrampdomain "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/domain"
	onrampports "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/ports"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/onramp/adapters/observability/service"

// Service decorates the onramp service with tracing, logging, and metrics.
type Service struct {
	inner   onrampports.Service
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

func New(inner onrampports.Service, opts ...Option) onrampports.Service {
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

func (s *Service) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal) (*onrampdomain.PaymentIntent, error) {
	ctx, span := s.tracer.Start(ctx, "OnrampService.CreatePaymentIntent", trace.WithAttributes(attribute.String("amount", amount.String())))
	defer span.End()

	intent, err := s.inner.CreatePaymentIntent(ctx, amount)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create payment intent", slog.String("amount", amount.String()))
	}
	span.SetAttributes(attribute.String("payment_intent", intent.ID))
	s.metrics.recordIntent(ctx)
	s.logInfo(ctx, "payment intent created", slog.String("payment_intent", intent.ID), slog.Int64("amount_cents", intent.AmountCents))
	return intent, nil
}

func (s *Service) Verify(ctx context.Context, req onrampdomain.MintRequest) (*onrampdomain.MintReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "OnrampService.Verify", trace.WithAttributes(attribute.String("payment_intent", req.PaymentIntentID)))
	defer span.End()

	receipt, err := s.inner.Verify(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "mint request rejected", slog.String("payment_intent", req.PaymentIntentID))
	}
	return receipt, nil
}

func (s *Service) Mint(ctx context.Context, req onrampdomain.MintRequest) (*onrampdomain.MintReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "OnrampService.Mint", trace.WithAttributes(
		attribute.String("payment_intent", req.PaymentIntentID),
		attribute.String("wallet", req.Wallet.String()),
		attribute.String("amount", req.Amount.String()),
	))
	defer span.End()

	receipt, err := s.inner.Mint(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "mint failed", slog.String("payment_intent", req.PaymentIntentID), slog.String("wallet", req.Wallet.String()))
	}
	span.SetAttributes(attribute.String("tx", receipt.TxHash))
	s.metrics.recordMint(ctx, receipt.Amount)
	s.logInfo(ctx, "tokens minted", slog.String("payment_intent", req.PaymentIntentID), slog.String("wallet", receipt.Wallet.String()), slog.String("tx", receipt.TxHash))
	return receipt, nil
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
	intents metric.Int64Counter
	minted  metric.Float64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	intents, _ := m.Int64Counter("onramp.service.intents_created", metric.WithDescription("Payment intents created"))
	minted, _ := m.Float64Counter("onramp.service.cbt_minted", metric.WithDescription("CBT minted for card payments"), metric.WithUnit("{CBT}"))
	return serviceMetrics{intents: intents, minted: minted}
}

func (m serviceMetrics) recordIntent(ctx context.Context) {
	if m.intents != nil {
		m.intents.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordMint(ctx context.Context, amount decimal.Decimal) {
	if m.minted != nil {
		value, _ := amount.Float64()
		m.minted.Add(ctx, value)
	}
}

var _ onrampports.Service = (*Service)(nil)
