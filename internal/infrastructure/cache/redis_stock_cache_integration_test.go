//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/cache"
	"github.com/jhoicas/kardex-api/pkg/config"
)

func startRedis(t *testing.T) *cache.StockCache {
	t.Helper()
	ctx := context.Background()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "debe arrancar el contenedor de Redis")
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	endpoint, err := ctr.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := cache.Connect(ctx, config.RedisConfig{Addr: endpoint})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewStockCache(client, time.Minute)
}

func TestStockCache_SetGetInvalidate(t *testing.T) {
	c := startRedis(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, ok, "sin entrada la cache no debe responder")

	snap := &inventory.StockSnapshot{ProductID: "p-1", Total: 7, ByWarehouse: map[string]int64{"bodega-a": 4, "bodega-b": 3}}
	require.NoError(t, c.Set(ctx, snap))

	got, ok, err := c.Get(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	require.NoError(t, c.Invalidate(ctx, "p-1", "p-2"))
	_, ok, err = c.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, ok, "la invalidación debe borrar la entrada")
}
