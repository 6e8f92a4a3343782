//go:build integration

// Package redistest starts a throwaway Redis for integration tests.
package redistest

import (
	"context"
	"testing"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Start runs redis:7-alpine and returns a connected client.
func Start(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		_ = client.Close()
		_ = container.Terminate(ctx)
	})
	return client
}
