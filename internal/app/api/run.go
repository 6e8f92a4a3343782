package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	cbtserver "github.com/codecrypto/cbt-marketplace/go"
	platformobservability "github.com/codecrypto/cbt-marketplace/internal/platform/observability"
	"github.com/codecrypto/cbt-marketplace/internal/platform/ratelimit"
)

const serviceName = "cbt-marketplace-api"

// Run boots the marketplace HTTP API with observability, stores, the ledger
// and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	container, err := Build(ctx, cfg, instruments, BuildOptions{ServiceName: serviceName, Orchestrate: true})
	if err != nil {
		return err
	}
	defer container.Close()

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	sched := cron.New()
	if _, err := sched.AddFunc("@every 1m", func() { limiter.Sweep() }); err != nil {
		return fmt.Errorf("schedule limiter sweep: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	server := cbtserver.NewServer(container.Services,
		cbtserver.WithServiceName(serviceName),
		cbtserver.WithMetrics(container.Metrics),
		cbtserver.WithPaymentLimiter(limiter),
		cbtserver.WithLogger(logger),
	)
	router := server.Router()
	addr := ":" + cfg.Port
	logger.Info("CBT marketplace API listening", slog.String("addr", addr), slog.String("owner", container.Admin.String()))
	if err := router.Run(addr); err != nil {
		logger.Error("CBT marketplace API exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// DialTemporal connects a client with the otel tracing interceptor and the
// process logger.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
