package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// Connect parses a redis:// URL, dials and pings the server.
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// ConnectOptional mirrors the postgres fallback: nil client and a no-op
// cleanup when url is unset or unreachable.
func ConnectOptional(ctx context.Context, url string, logger *slog.Logger) (*goredis.Client, func()) {
	if strings.TrimSpace(url) == "" {
		return nil, func() {}
	}
	client, err := Connect(ctx, url)
	if err != nil {
		if logger != nil {
			logger.Warn("redis unavailable, carts fall back to the next store", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("redis connection established")
	}
	return client, func() { _ = client.Close() }
}
