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

	accountdomain "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/domain"
	accountports "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/ports"
	mdomain "github.com/codecrypto/cbt-marketplace/internal/domains/marketplace/domain"
)

const tracerName = "github.com/codecrypto/cbt-marketplace/internal/domains/accounts/adapters/observability/service"

// Service decorates the accounts service with tracing, logging, and metrics.
type Service struct {
	inner   accountports.Service
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

// New wraps the core accounts service.
func New(inner accountports.Service, opts ...Option) accountports.Service {
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

func (s *Service) Challenge(ctx context.Context, wallet string) (*accountdomain.Challenge, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Challenge", trace.WithAttributes(attribute.String("wallet", wallet)))
	defer span.End()

	result, err := s.inner.Challenge(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to issue challenge", slog.String("wallet", wallet))
	}
	s.logInfo(ctx, "challenge issued", slog.String("wallet", result.Wallet.String()))
	return result, nil
}

func (s *Service) Verify(ctx context.Context, wallet, signature string) (*accountdomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Verify", trace.WithAttributes(attribute.String("wallet", wallet)))
	defer span.End()

	result, err := s.inner.Verify(ctx, wallet, signature)
	if err != nil {
		s.metrics.recordSignIn(ctx, false)
		return nil, s.handleError(ctx, span, err, "sign-in rejected", slog.String("wallet", wallet))
	}
	s.metrics.recordSignIn(ctx, true)
	s.logInfo(ctx, "wallet signed in", slog.String("wallet", result.Wallet.String()), slog.String("session.id", result.ID))
	return result, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*accountdomain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Authenticate")
	defer span.End()

	result, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("wallet", result.Wallet.String()))
	return result, nil
}

func (s *Service) Logout(ctx context.Context, wallet mdomain.Address) error {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Logout", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	if err := s.inner.Logout(ctx, wallet); err != nil {
		return s.handleError(ctx, span, err, "failed to close session", slog.String("wallet", wallet.String()))
	}
	s.logInfo(ctx, "wallet signed out", slog.String("wallet", wallet.String()))
	return nil
}

func (s *Service) Describe(ctx context.Context, wallet string) (*accountdomain.Account, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.Describe", trace.WithAttributes(attribute.String("wallet", wallet)))
	defer span.End()

	result, err := s.inner.Describe(ctx, wallet)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to describe account", slog.String("wallet", wallet))
	}
	span.SetAttributes(attribute.Int("account.roles", len(result.Roles)))
	return result, nil
}

func (s *Service) RegisterClient(ctx context.Context, wallet mdomain.Address, profile mdomain.ClientProfile) (*mdomain.TxReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.RegisterClient", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	s.logInfo(ctx, "registering client profile", slog.String("wallet", wallet.String()))
	result, err := s.inner.RegisterClient(ctx, wallet, profile)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register client", slog.String("wallet", wallet.String()))
	}
	s.logInfo(ctx, "client profile registered", slog.String("wallet", wallet.String()), slog.String("tx", result.Hash))
	return result, nil
}

func (s *Service) RequireOwner(ctx context.Context, wallet mdomain.Address) error {
	ctx, span := s.tracer.Start(ctx, "AccountsService.RequireOwner", trace.WithAttributes(attribute.String("wallet", wallet.String())))
	defer span.End()

	if err := s.inner.RequireOwner(ctx, wallet); err != nil {
		s.metrics.recordDenied(ctx)
		return s.handleError(ctx, span, err, "back-office access denied", slog.String("wallet", wallet.String()))
	}
	return nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "AccountsService.PurgeExpired")
	defer span.End()

	purged, err := s.inner.PurgeExpired(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge sessions")
	}
	s.logInfo(ctx, "expired sessions purged", slog.Int64("purged", purged))
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
	signIns metric.Int64Counter
	denied  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	signIns, _ := m.Int64Counter("accounts.service.sign_ins", metric.WithDescription("Wallet sign-in attempts"))
	denied, _ := m.Int64Counter("accounts.service.admin_denied", metric.WithDescription("Back-office requests from non-owner wallets"))
	return serviceMetrics{signIns: signIns, denied: denied}
}

func (m serviceMetrics) recordSignIn(ctx context.Context, ok bool) {
	if m.signIns != nil {
		m.signIns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

func (m serviceMetrics) recordDenied(ctx context.Context) {
	if m.denied != nil {
		m.denied.Add(ctx, 1)
	}
}

var _ accountports.Service = (*Service)(nil)
