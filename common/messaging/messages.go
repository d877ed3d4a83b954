package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

// Constants for NATS subjects
const (
	// EventSourceStream is the JetStream stream holding lifecycle events
	EventSourceStream = "EVENT_SOURCES"

	// SubjectEventSourceAll matches every lifecycle subject below
	SubjectEventSourceAll = "event_source.>"

	SubjectEventSourceCreated      = "event_source.created"
	SubjectEventSourceUpdated      = "event_source.updated"
	SubjectEventSourceDeleted      = "event_source.deleted"
	SubjectEventSourceRotateSecret = "event_source.rotate_secret"
)

// EventSourceLifecycleMessage is the payload published on every lifecycle subject
type EventSourceLifecycleMessage struct {
	EventSourceID string    `json:"event_source_id"`
	WorkspaceID   string    `json:"workspace_id"`
	Flavor        string    `json:"flavor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PublishLifecycle publishes a lifecycle message on the given subject. Failures
// are logged, not propagated: lifecycle events are best effort and must never
// roll back a committed mutation.
func PublishLifecycle(ctx context.Context, broker *NatsBroker, subject string, msg EventSourceLifecycleMessage) {
	if broker == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to marshal lifecycle message")
		return
	}

	if err := broker.PublishSync(ctx, subject, data); err != nil {
		log.Error().Err(err).
			Str("subject", subject).
			Str("eventSourceID", msg.EventSourceID).
			Msg("Failed to publish lifecycle message")
	}
}
