package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishToStream_StringifiesValues(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	id, err := PublishToStream(ctx, client, "s1", 0, map[string]interface{}{
		"name":   "buffr",
		"count":  3,
		"active": true,
		"tags":   []string{"a", "b"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs, err := ReadRange(ctx, client, "s1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "buffr", msgs[0].Values["name"])
	assert.Equal(t, "3", msgs[0].Values["count"])
	assert.Equal(t, "true", msgs[0].Values["active"])
	assert.Equal(t, `["a","b"]`, msgs[0].Values["tags"])
}

func TestPublishJSONToStream(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	_, err := PublishJSONToStream(ctx, client, "events", 100, map[string]string{"buffrId": "BFR-NA-1"})
	require.NoError(t, err)

	msgs, err := ReadRange(ctx, client, "events", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["data"].(string)), &decoded))
	assert.Equal(t, "BFR-NA-1", decoded["buffrId"])
	assert.NotEmpty(t, msgs[0].Values["timestamp"])
}

func TestReadRange_MissingStream(t *testing.T) {
	client := setupTestRedis(t)

	msgs, err := ReadRange(context.Background(), client, "nope", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
