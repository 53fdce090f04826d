package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisKV(t *testing.T) {
	mr, client := setupTestRedis(t)
	kv := NewRedisKV(client)
	ctx := context.Background()

	_, err := kv.Get(ctx, "ml:model:pricing")
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, kv.Set(ctx, "ml:model:pricing", "ready", time.Minute))
	v, err := kv.Get(ctx, "ml:model:pricing")
	require.NoError(t, err)
	assert.Equal(t, "ready", v)

	mr.FastForward(2 * time.Minute)
	_, err = kv.Get(ctx, "ml:model:pricing")
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, kv.Set(ctx, "a", "1", 0))
	require.NoError(t, kv.Delete(ctx, "a"))
	assert.False(t, mr.Exists("a"))
	require.NoError(t, kv.Delete(ctx))
}

func TestMemoryKV_TTL(t *testing.T) {
	kv := NewMemoryKV()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Second))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, err = kv.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestJSONHelpers(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, SetJSON(ctx, kv, "p", payload{Name: "pricing"}, 0))
	var out payload
	require.NoError(t, GetJSON(ctx, kv, "p", &out))
	assert.Equal(t, "pricing", out.Name)

	require.NoError(t, kv.Set(ctx, "bad", "{", 0))
	assert.Error(t, GetJSON(ctx, kv, "bad", &out))
}
