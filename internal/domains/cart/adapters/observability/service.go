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

	cartdomain "github.com/codecrypto/cbt-marketplace/internal/domains/cart/domain"
	cartports "github.com/codecrypto/cbt-marketplace/internal/domains/cart/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) View(ctx context.Context, owner mdomain.Address) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.View", trace.WithAttributes(attribute.String("wallet", owner.String())))
	defer span.End()

	cart, err := s.inner.View(ctx, owner)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load cart", slog.String("wallet", owner.String()))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(cart.Items)))
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, owner mdomain.Address, productID uint64) (*cartdomain.Cart, error) {
	attrs := []attribute.KeyValue{attribute.String("wallet", owner.String()), attribute.Int64("product.id", int64(productID))}
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(attrs...))
	defer span.End()

	cart, err := s.inner.AddItem(ctx, owner, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add item", slog.String("wallet", owner.String()), slog.Uint64("product.id", productID))
	}
	s.metrics.recordAdded(ctx)
	s.logInfo(ctx, "item added to cart", slog.String("wallet", owner.String()), slog.Uint64("product.id", productID))
	return cart, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, owner mdomain.Address, productID uint64, quantity int64) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQuantity", trace.WithAttributes(
		attribute.String("wallet", owner.String()),
		attribute.Int64("product.id", int64(productID)),
		attribute.Int64("quantity", quantity),
	))
	defer span.End()

	cart, err := s.inner.UpdateQuantity(ctx, owner, productID, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update quantity", slog.String("wallet", owner.String()), slog.Uint64("product.id", productID))
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, owner mdomain.Address, productID uint64) (*cartdomain.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(attribute.String("wallet", owner.String()), attribute.Int64("product.id", int64(productID))))
	defer span.End()

	cart, err := s.inner.RemoveItem(ctx, owner, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove item", slog.String("wallet", owner.String()), slog.Uint64("product.id", productID))
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, owner mdomain.Address) error {
	ctx, span := s.tracer.Start(ctx, "CartService.Clear", trace.WithAttributes(attribute.String("wallet", owner.String())))
	defer span.End()

	if err := s.inner.Clear(ctx, owner); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("wallet", owner.String()))
	}
	s.logInfo(ctx, "cart cleared", slog.String("wallet", owner.String()))
	return nil
}

func (s *Service) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.PurgeStale")
	defer span.End()

	purged, err := s.inner.PurgeStale(ctx, maxAge)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge stale carts")
	}
	s.logInfo(ctx, "stale carts purged", slog.Int64("purged", purged), slog.Duration("max_age", maxAge))
	return purged, nil
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
	added metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	added, _ := m.Int64Counter("cart.service.items_added", metric.WithDescription("Products added to carts"))
	return serviceMetrics{added: added}
}

func (m serviceMetrics) recordAdded(ctx context.Context) {
	if m.added != nil {
		m.added.Add(ctx, 1)
	}
}

var _ cartports.Service = (*Service)(nil)
