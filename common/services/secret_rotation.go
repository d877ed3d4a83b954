package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lariatlabs/event-source-service/common/messaging"
	"github.com/lariatlabs/event-source-service/common/work"
)

const rotationDispatchTimeout = 10 * time.Second

// SecretRotator fans rotation requests out to the credential manager through
// the lifecycle stream. Rotation is a one-shot command: accepting it never
// changes the stored representation of the event source.
type SecretRotator struct {
	pool   *work.Pool[struct{}]
	broker *messaging.NatsBroker
}

// NewSecretRotator creates a rotator backed by a worker pool so HTTP requests
// never block on the dispatch round trip.
func NewSecretRotator(ctx context.Context, broker *messaging.NatsBroker, numWorkers int) (*SecretRotator, error) {
	pool, err := work.NewWorkerPool[struct{}](numWorkers, numWorkers*4)
	if err != nil {
		return nil, fmt.Errorf("creating rotation pool: %w", err)
	}
	pool.Start(ctx, "secret-rotation")

	// Results carry no payload; drain them so workers never block on delivery.
	go func() {
		for result := range pool.Results() {
			if !result.IsSuccess() {
				log.Error().Err(result.Error).Str("taskID", result.TaskID).Msg("Secret rotation dispatch failed")
			}
		}
	}()

	return &SecretRotator{pool: pool, broker: broker}, nil
}

// RequestRotation enqueues a rotation dispatch for the given event source
func (s *SecretRotator) RequestRotation(ctx context.Context, eventSourceID, workspaceID, flavor string) error {
	occurredAt := time.Now().UTC()
	task, err := work.SimpleTask(
		func(taskCtx context.Context) error {
			if s.broker == nil {
				log.Warn().Str("eventSourceID", eventSourceID).Msg("No broker configured, dropping rotation request")
				return nil
			}
			return s.broker.PublishSync(taskCtx, messaging.SubjectEventSourceRotateSecret, mustMarshalRotation(eventSourceID, workspaceID, flavor, occurredAt))
		},
		work.WithID[struct{}]("rotate-"+eventSourceID),
		work.WithTimeout[struct{}](rotationDispatchTimeout),
	)
	if err != nil {
		return fmt.Errorf("building rotation task: %w", err)
	}

	if err := s.pool.AddTask(ctx, task); err != nil {
		return fmt.Errorf("enqueueing rotation task: %w", err)
	}

	log.Info().Str("eventSourceID", eventSourceID).Str("workspaceID", workspaceID).Msg("Secret rotation requested")
	return nil
}

// Stop shuts the dispatch pool down, waiting for in-flight tasks
func (s *SecretRotator) Stop() {
	s.pool.Stop()
}

func mustMarshalRotation(eventSourceID, workspaceID, flavor string, occurredAt time.Time) []byte {
	payload, err := json.Marshal(messaging.EventSourceLifecycleMessage{
		EventSourceID: eventSourceID,
		WorkspaceID:   workspaceID,
		Flavor:        flavor,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		// The message is plain data; marshalling cannot fail in practice.
		log.Error().Err(err).Msg("Failed to marshal rotation message")
		return nil
	}
	return payload
}
