package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)

	return mr, client
}

func TestNewClient_InvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{
			name: "Invalid scheme",
			url:  "invalid://url",
		},
		{
			name: "Empty URL",
			url:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", zap.NewNop())
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestClient_SetAndGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	err := client.Set(ctx, "test:key1", "value1", time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)
}

func TestClient_Get_MissingKey(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	_, err := client.Get(context.Background(), "test:nonexistent")
	assert.ErrorIs(t, err, Nil)
}

func TestClient_Delete(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "test:key1", "value1", time.Minute))
	require.NoError(t, client.Set(ctx, "test:key2", "value2", time.Minute))

	err := client.Delete(ctx, "test:key1", "test:key2")
	require.NoError(t, err)

	n, err := client.Exists(ctx, "test:key1", "test:key2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClient_Incr(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := client.Incr(ctx, "test:counter")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestClient_ExpireAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	_, err := client.Incr(ctx, "test:counter")
	require.NoError(t, err)

	require.NoError(t, client.Expire(ctx, "test:counter", time.Minute))

	ttl, err := client.TTL(ctx, "test:counter")
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	// Key vanishes once the TTL elapses
	mr.FastForward(2 * time.Minute)

	n, err := client.Exists(ctx, "test:counter")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}
