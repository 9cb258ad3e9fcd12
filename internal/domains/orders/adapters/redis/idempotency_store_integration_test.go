//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

func setupRedisContainer(t *testing.T) (*goredis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())

	cleanup := func() {
		_ = client.Close()
		container.Terminate(ctx)
	}
	return client, cleanup
}

func TestIdempotencyStore_SaveClaimsKeyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client, cleanup := setupRedisContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(client, time.Minute)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k-1", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", saved.OrderID)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k-1", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k-1", RequestHash: "h", OrderID: "o-2"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, existing)
	assert.Equal(t, "o-1", existing.OrderID)

	assert.False(t, existing.Committed)
	require.NoError(t, store.MarkCommitted(ctx, "k-1"))
	require.NoError(t, store.MarkCommitted(ctx, "unknown"))
	committed, err := store.Get(ctx, "k-1")
	require.NoError(t, err)
	assert.True(t, committed.Committed)

	ttl, err := client.TTL(ctx, redisKey("k-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "committing keeps the key's expiry")

	missing, err := store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
