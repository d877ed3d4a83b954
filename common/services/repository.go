package services

import (
	"context"

	"github.com/lariatlabs/event-source-service/common/models"
	"github.com/lariatlabs/event-source-service/repository"
)

// EventSourceService defines the store handle for event source operations.
// It extends models.EventSourceStore, the narrow read interface used by lazy
// hydration.
type EventSourceService interface {
	models.EventSourceStore

	// Create persists a new event source built from a request. Workspace and
	// owner come from the calling scope, never from the payload.
	Create(ctx context.Context, req models.EventSourceRequest, workspaceID, userID string) (*models.EventSourceResponse, error)

	// Get returns an event source at the requested hydration level
	Get(ctx context.Context, id string, hydrate bool) (*models.EventSourceResponse, error)

	// Update applies a partial patch and returns the hydrated result
	Update(ctx context.Context, id string, update models.EventSourceUpdate) (*models.EventSourceResponse, error)

	// Query lists unhydrated event sources matching the filter, with the total count
	Query(ctx context.Context, filter models.EventSourceFilter) ([]*models.EventSourceResponse, int64, error)

	// Delete removes an event source
	Delete(ctx context.Context, id string) error
}

// WorkspaceService resolves workspace scope references
type WorkspaceService interface {
	// GetByID gets a workspace by ID
	GetByID(ctx context.Context, id string) (repository.Workspace, error)
}

// UserService resolves owner references
type UserService interface {
	// GetByID gets a user by ID
	GetByID(ctx context.Context, id string) (repository.User, error)
}

// TriggerService enumerates the triggers depending on an event source.
// Read-only: trigger lifetime is managed by an external collaborator.
type TriggerService interface {
	// ListByEventSource lists the triggers referencing an event source
	ListByEventSource(ctx context.Context, eventSourceID string) ([]repository.Trigger, error)
}
