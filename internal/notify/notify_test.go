package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rediscommon "github.com/thependalorian/buffrhost-sub014/common/redis"
)

func sampleEvent() Event {
	return Event{
		Type:       EventUserSynced,
		BuffrID:    "BFR-NA-1",
		Projects:   []string{"buffr-host", "buffr-pay"},
		Fields:     []string{"email"},
		OccurredAt: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestRedisStreamNotifier(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	n := NewRedisStreamNotifier(client, "", 100)
	require.NoError(t, n.Publish(ctx, sampleEvent()))

	msgs, err := rediscommon.ReadRange(ctx, client, DefaultStream, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, EventUserSynced, msgs[0].Values["type"])
	assert.Equal(t, "BFR-NA-1", msgs[0].Values["buffrId"])

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["event"].(string)), &ev))
	assert.Equal(t, []string{"buffr-host", "buffr-pay"}, ev.Projects)
}

func TestRedisStreamNotifier_Error(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	err := NewRedisStreamNotifier(client, "s", 0).Publish(context.Background(), sampleEvent())
	assert.Error(t, err)
}

type fakePublisher struct {
	topic   string
	qos     byte
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, qos byte, _ bool, payload []byte) error {
	f.topic, f.qos, f.payload = topic, qos, payload
	return f.err
}

func TestMQTTNotifier(t *testing.T) {
	pub := &fakePublisher{}
	n := NewMQTTNotifier(pub, "", 1)

	require.NoError(t, n.Publish(context.Background(), sampleEvent()))
	assert.Equal(t, DefaultTopic, pub.topic)
	assert.Equal(t, byte(1), pub.qos)

	var ev Event
	require.NoError(t, json.Unmarshal(pub.payload, &ev))
	assert.Equal(t, "BFR-NA-1", ev.BuffrID)

	pub.err = errors.New("not connected")
	assert.Error(t, n.Publish(context.Background(), sampleEvent()))
}

func TestNopNotifier(t *testing.T) {
	assert.NoError(t, NopNotifier{}.Publish(context.Background(), sampleEvent()))
}
