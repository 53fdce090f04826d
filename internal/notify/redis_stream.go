package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	rediscommon "github.com/thependalorian/buffrhost-sub014/common/redis"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "buffr:cross-project:events"

// RedisStreamNotifier XADDs events to a capped Redis stream.
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

func NewRedisStreamNotifier(client *redis.Client, stream string, maxLen int64) *RedisStreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamNotifier{client: client, stream: stream, maxLen: maxLen}
}

var _ Notifier = (*RedisStreamNotifier)(nil)

func (n *RedisStreamNotifier) Publish(ctx context.Context, ev Event) error {
	if _, err := rediscommon.PublishToStream(ctx, n.client, n.stream, n.maxLen, map[string]interface{}{
		"type":    ev.Type,
		"buffrId": ev.BuffrID,
		"event":   ev,
	}); err != nil {
		return fmt.Errorf("failed to publish %s to stream %s: %w", ev.Type, n.stream, err)
	}
	return nil
}
