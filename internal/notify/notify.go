// Package notify publishes cross-project change events for other services.
package notify

import (
	"context"
	"time"
)

// Event types.
const (
	EventUserCreated     = "user.created"
	EventPropertyCreated = "property.created"
	EventUserSynced      = "user.synced"
)

// Event describes a completed cross-project write.
type Event struct {
	Type       string    `json:"type"`
	BuffrID    string    `json:"buffrId"`
	Projects   []string  `json:"projects"`
	Fields     []string  `json:"fields,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Notifier delivers events. Callers treat failures as non-fatal.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, Event) error { return nil }
