package repository

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要真实 redis：TEST_REDIS_ADDR=127.0.0.1:6379
func TestRedisStore_GetSetRemove(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	s := NewRedisStore(client, "werise-test:")
	t.Cleanup(func() { s.Remove(ctx, KeyPath) })

	_, ok, err := s.Get(ctx, KeyPath)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, KeyPath, []byte(`{"id":"p1"}`)))
	v, ok, err := s.Get(ctx, KeyPath)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"p1"}`, string(v))

	require.NoError(t, s.Remove(ctx, KeyPath))
	_, ok, err = s.Get(ctx, KeyPath)
	require.NoError(t, err)
	assert.False(t, ok)
}
