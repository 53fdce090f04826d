package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultTopic is the MQTT topic events are published to.
const DefaultTopic = "buffr/cross-project/events"

// Publisher is the subset of the MQTT client the notifier needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTNotifier publishes events as JSON to one topic.
type MQTTNotifier struct {
	pub   Publisher
	topic string
	qos   byte
}

func NewMQTTNotifier(pub Publisher, topic string, qos byte) *MQTTNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTNotifier{pub: pub, topic: topic, qos: qos}
}

var _ Notifier = (*MQTTNotifier)(nil)

func (n *MQTTNotifier) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	return n.pub.Publish(n.topic, n.qos, false, payload)
}
