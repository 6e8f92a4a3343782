package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
	sellerdomain "github.com/codecrypto/cbt-marketplace/internal/domains/seller/domain"
	sellerports "github.com/codecrypto/cbt-marketplace/internal/domains/seller/ports"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/seller/adapters/observability/service"

type Service struct {
	inner   sellerports.Service
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

func New(inner sellerports.Service, opts ...Option) sellerports.Service {
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

func (s *Service) Dashboard(ctx context.Context, wallet mdomain.Address) (*sellerdomain.Dashboard, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.Dashboard", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	dashboard, err := s.inner.Dashboard(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load seller dashboard", slog.String("wallet", wallet.String()))
	}
	span.SetAttributes(attribute.String("company.ruc", dashboard.Company.RUC), attribute.Int("products", len(dashboard.Products)))
	return dashboard, nil
}

func (s *Service) RegisterProduct(ctx context.Context, wallet mdomain.Address, draft mdomain.ProductDraft) (*mdomain.TxReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.RegisterProduct", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	receipt, err := s.inner.RegisterProduct(ctx, wallet, draft)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register product", slog.String("wallet", wallet.String()), slog.String("product.name", draft.Name))
	}
	s.logInfo(ctx, "product registered", slog.String("wallet", wallet.String()), slog.String("product.name", draft.Name), slog.String("tx", receipt.Hash))
	return receipt, nil
}

func (s *Service) UpdateProduct(ctx context.Context, wallet mdomain.Address, update mdomain.ProductUpdate) (*mdomain.TxReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.UpdateProduct", trace.WithAttributes(
		attribute.String("wallet", wallet.String()),
		attribute.Int64("product.id", int64(update.ID)),
	))
	defer span.End()

	receipt, err := s.inner.UpdateProduct(ctx, wallet, update)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("wallet", wallet.String()), slog.Uint64("product.id", update.ID))
	}
	return receipt, nil
}

func (s *Service) Restock(ctx context.Context, wallet mdomain.Address, productID, amount uint64) (*mdomain.TxReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.Restock", trace.WithAttributes(
		attribute.String("wallet", wallet.String()),
		attribute.Int64("product.id", int64(productID)),
		attribute.Int64("amount", int64(amount)),
	))
	defer span.End()

	receipt, err := s.inner.Restock(ctx, wallet, productID, amount)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to restock product", slog.Uint64("product.id", productID))
	}
	s.logInfo(ctx, "product restocked", slog.Uint64("product.id", productID), slog.Uint64("amount", amount))
	return receipt, nil
}

func (s *Service) BecomeVIP(ctx context.Context, wallet mdomain.Address) (*sellerdomain.VIPSubscription, error) {
	ctx, span := s.tracer.Start(ctx, "SellerService.BecomeVIP", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	sub, err := s.inner.BecomeVIP(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "VIP subscription failed", slog.String("wallet", wallet.String()))
	}
	s.metrics.recordVIP(ctx)
	return sub, nil
}

func (s *Service) NextVIPExpiry(now time.Time) time.Time {
	return s.inner.NextVIPExpiry(now)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
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
	vip metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	vip, _ := m.Int64Counter("seller.service.vip_subscriptions", metric.WithDescription("Paid VIP subscriptions"))
	return serviceMetrics{vip: vip}
}

func (m serviceMetrics) recordVIP(ctx context.Context) {
	if m.vip != nil {
		m.vip.Add(ctx, 1)
	}
}

var _ sellerports.Service = (*Service)(nil)
