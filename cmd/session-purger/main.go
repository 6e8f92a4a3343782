package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/codecrypto/cbt-marketplace/internal/app/api"
	"github.com/codecrypto/cbt-marketplace/internal/platform/observability"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; nothing to purge")
	}
	logger := observability.NewLogger(cfg.LogLevel)
	container, err := api.Build(ctx, cfg, &observability.Instruments{Logger: logger}, api.BuildOptions{ServiceName: "cbt-session-purger"})
	if err != nil {
		log.Fatalf("failed to wire marketplace: %v", err)
	}
	defer container.Close()

	sessions, carts, err := container.Purge(ctx)
	if err != nil {
		log.Fatalf("failed to purge: %v", err)
	}
	logger.Info("purge completed", slog.Int64("sessions", sessions), slog.Int64("carts", carts))
}
