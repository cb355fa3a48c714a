//go:build integration

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"userportal/internal/cache"
)

func startRedis(t *testing.T) *cache.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := cache.New(endpoint, "", 0)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx))
	return client
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store := NewRedisStore(startRedis(t))
	ctx := context.Background()

	_, found, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "sid", Admin("root"), time.Minute))
	state, found, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Admin("root"), state)

	require.NoError(t, store.Delete(ctx, "sid"))
	_, found, err = store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Expiry(t *testing.T) {
	store := NewRedisStore(startRedis(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", User("alice"), time.Second))
	assert.Eventually(t, func() bool {
		_, found, err := store.Load(ctx, "sid")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}
