package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/core/cache"
	rediscache "github.com/bykovk-pro/ANY.RUN-Sandbox-Telegram-Bot/internal/infrastructure/cache/redis"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, cache.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rediscache.NewClient(rediscache.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		Password:   "",
		DB:         0,
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestNewClient_Success(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := rediscache.NewClient(rediscache.Config{
		Host: mr.Host(),
		Port: mr.Port(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, client)

	client.Close()
}

func TestClient_SetAndGet(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	err := client.Set(ctx, "session:42", []byte("payload"), time.Minute)
	assert.NoError(t, err)

	result, err := client.Get(ctx, "session:42")
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), result)
}

func TestClient_GetNotFound(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	result, err := client.Get(ctx, "session:missing")

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestClient_SetDefaultTTL(t *testing.T) {
	mr, client := setupMiniredis(t)
	ctx := context.Background()

	err := client.Set(ctx, "session:1", []byte("v"), 0)
	require.NoError(t, err)

	// Default TTL from config applies when ttl is zero.
	assert.Equal(t, time.Minute, mr.TTL("session:1"))
}

func TestClient_Delete(t *testing.T) {
	_, client := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "session:7", []byte("v"), time.Minute))

	deleted, err := client.Delete(ctx, "session:7")
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "session:7")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestClient_Ping(t *testing.T) {
	_, client := setupMiniredis(t)
	assert.NoError(t, client.Ping(context.Background()))
}
