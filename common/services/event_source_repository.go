package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/common/logger"
	"github.com/lariatlabs/event-source-service/common/messaging"
	"github.com/lariatlabs/event-source-service/common/models"
	"github.com/lariatlabs/event-source-service/common/schemas"
	"github.com/lariatlabs/event-source-service/common/storage"
	"github.com/lariatlabs/event-source-service/repository"
)

const responseCacheTTL = 5 * time.Minute

// EventSourceRepository is the PostgreSQL implementation of EventSourceService
type EventSourceRepository struct {
	db            *db.DB
	broker        *messaging.NatsBroker
	rotator       *SecretRotator
	archiver      storage.StorageService
	archiveBucket string
	audit         *logger.LogService
}

// NewEventSourceRepository creates a new PostgreSQL EventSourceRepository.
// Broker, rotator and archiver are optional collaborators; a nil value turns
// the corresponding side effect off.
func NewEventSourceRepository(db *db.DB, broker *messaging.NatsBroker, rotator *SecretRotator, archiver storage.StorageService, archiveBucket string, audit *logger.LogService) EventSourceService {
	return &EventSourceRepository{
		db:            db,
		broker:        broker,
		rotator:       rotator,
		archiver:      archiver,
		archiveBucket: archiveBucket,
		audit:         audit,
	}
}

// GetEventSource implements models.EventSourceStore: the hydration handle
// always returns the hydrated, authoritative state.
func (r *EventSourceRepository) GetEventSource(ctx context.Context, id string) (*models.EventSourceResponse, error) {
	return r.Get(ctx, id, true)
}

// Create persists a new event source and returns its hydrated response
func (r *EventSourceRepository) Create(ctx context.Context, req models.EventSourceRequest, workspaceID, userID string) (*models.EventSourceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := r.ensureNameAvailable(ctx, workspaceID, req.Name); err != nil {
		return nil, err
	}

	schema, err := schemas.EventSourceSchemaFromRequest(req, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row, err := r.db.Queries.CreateEventSource(ctx, repository.CreateEventSourceParams{
		ID:            uuid.NewString(),
		Name:          schema.Name,
		WorkspaceID:   schema.WorkspaceID,
		UserID:        schema.UserID,
		Flavor:        schema.Flavor,
		PluginType:    schema.PluginType,
		PluginSubtype: schema.PluginSubtype,
		Description:   schema.Description,
		Configuration: schema.Configuration,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("inserting event source: %w", err)
	}

	response, err := r.project(ctx, row, true)
	if err != nil {
		return nil, err
	}

	messaging.PublishLifecycle(ctx, r.broker, messaging.SubjectEventSourceCreated, messaging.EventSourceLifecycleMessage{
		EventSourceID: row.ID,
		WorkspaceID:   row.WorkspaceID,
		Flavor:        row.Flavor,
		OccurredAt:    now,
	})

	if r.audit != nil {
		if err := r.audit.SourceCreated(ctx, row.ID, row.WorkspaceID, row.Flavor); err != nil {
			log.Warn().Err(err).Str("eventSourceID", row.ID).Msg("Failed to write audit record")
		}
	}

	return response, nil
}

// Get returns an event source at the requested hydration level
func (r *EventSourceRepository) Get(ctx context.Context, id string, hydrate bool) (*models.EventSourceResponse, error) {
	if hydrate {
		if cached := r.cachedResponse(ctx, id); cached != nil {
			return cached, nil
		}
	}

	row, err := r.db.Queries.GetEventSourceById(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, id)
	}

	response, err := r.project(ctx, row, hydrate)
	if err != nil {
		return nil, err
	}

	if hydrate {
		r.cacheResponse(ctx, response)
	}

	return response, nil
}

// Update applies a partial patch to an event source and returns the hydrated
// result. The patch is applied whole or not at all: any failure before the row
// write leaves the stored state untouched.
func (r *EventSourceRepository) Update(ctx context.Context, id string, update models.EventSourceUpdate) (*models.EventSourceResponse, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	row, err := r.db.Queries.GetEventSourceById(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, id)
	}

	if newName, ok := update.Name.Get(); ok && newName != row.Name {
		if err := r.ensureNameAvailable(ctx, row.WorkspaceID, newName); err != nil {
			return nil, err
		}
	}

	schema := schemaFromRow(row)
	previousBlob := row.Configuration
	configurationChanged := update.Configuration.IsPresent()

	if _, err := schema.ApplyUpdate(update); err != nil {
		return nil, err
	}

	updated, err := r.db.Queries.UpdateEventSource(ctx, repository.UpdateEventSourceParams{
		ID:            schema.ID,
		Name:          schema.Name,
		Description:   schema.Description,
		Configuration: schema.Configuration,
		UpdatedAt:     schema.UpdatedAt,
	})
	if err != nil {
		return nil, translateStoreError(err, id)
	}

	r.invalidateCache(ctx, id)

	if configurationChanged {
		r.archivePreviousConfiguration(ctx, updated, previousBlob)
	}

	if rotate, ok := update.RotateSecret.Get(); ok && rotate && r.rotator != nil {
		if err := r.rotator.RequestRotation(ctx, updated.ID, updated.WorkspaceID, updated.Flavor); err != nil {
			log.Error().Err(err).Str("eventSourceID", updated.ID).Msg("Failed to dispatch secret rotation")
		}
		if r.audit != nil {
			if err := r.audit.SecretRotationRequested(ctx, updated.ID); err != nil {
				log.Warn().Err(err).Str("eventSourceID", updated.ID).Msg("Failed to write audit record")
			}
		}
	}

	messaging.PublishLifecycle(ctx, r.broker, messaging.SubjectEventSourceUpdated, messaging.EventSourceLifecycleMessage{
		EventSourceID: updated.ID,
		WorkspaceID:   updated.WorkspaceID,
		Flavor:        updated.Flavor,
		OccurredAt:    updated.UpdatedAt,
	})

	if r.audit != nil {
		if err := r.audit.SourceUpdated(ctx, updated.ID, update.ChangedFields()); err != nil {
			log.Warn().Err(err).Str("eventSourceID", updated.ID).Msg("Failed to write audit record")
		}
	}

	return r.project(ctx, updated, true)
}

// Query lists unhydrated event sources matching the filter
func (r *EventSourceRepository) Query(ctx context.Context, filter models.EventSourceFilter) ([]*models.EventSourceResponse, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 20
	}

	rows, err := r.db.Queries.ListEventSources(ctx, repository.ListEventSourcesParams{
		WorkspaceID:   filter.WorkspaceID,
		Name:          optionText(filter.Name),
		Flavor:        optionText(filter.Flavor),
		PluginType:    optionText(filter.PluginType),
		PluginSubtype: optionText(filter.PluginSubtype),
		Limit:         int32(perPage),
		Offset:        int32((page - 1) * perPage),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing event sources: %w", err)
	}

	total, err := r.db.Queries.CountEventSources(ctx, repository.CountEventSourcesParams{
		WorkspaceID:   filter.WorkspaceID,
		Name:          optionText(filter.Name),
		Flavor:        optionText(filter.Flavor),
		PluginType:    optionText(filter.PluginType),
		PluginSubtype: optionText(filter.PluginSubtype),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("counting event sources: %w", err)
	}

	responses := make([]*models.EventSourceResponse, 0, len(rows))
	for _, row := range rows {
		// Listing never decodes configurations; hydration happens per
		// response through the attached store handle.
		response, err := schemaFromRow(row).ToResponse(false)
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, response.WithStore(r))
	}

	return responses, total, nil
}

// Delete removes an event source. The workspace cascade is enforced by the
// database schema; this call only handles direct deletion.
func (r *EventSourceRepository) Delete(ctx context.Context, id string) error {
	row, err := r.db.Queries.GetEventSourceById(ctx, id)
	if err != nil {
		return translateStoreError(err, id)
	}

	if err := r.db.Queries.DeleteEventSource(ctx, id); err != nil {
		return translateStoreError(err, id)
	}

	r.invalidateCache(ctx, id)

	messaging.PublishLifecycle(ctx, r.broker, messaging.SubjectEventSourceDeleted, messaging.EventSourceLifecycleMessage{
		EventSourceID: row.ID,
		WorkspaceID:   row.WorkspaceID,
		Flavor:        row.Flavor,
		OccurredAt:    time.Now().UTC(),
	})

	if r.audit != nil {
		if err := r.audit.SourceDeleted(ctx, row.ID); err != nil {
			log.Warn().Err(err).Str("eventSourceID", row.ID).Msg("Failed to write audit record")
		}
	}

	return nil
}

// project builds a response from a row, resolving the scope and owner
// references when hydrating, and attaches the store handle for later upgrades.
func (r *EventSourceRepository) project(ctx context.Context, row repository.EventSource, hydrate bool) (*models.EventSourceResponse, error) {
	response, err := schemaFromRow(row).ToResponse(hydrate)
	if err != nil {
		return nil, err
	}

	if hydrate {
		workspace, err := r.db.Queries.GetWorkspaceById(ctx, row.WorkspaceID)
		if err != nil {
			return nil, translateStoreError(err, row.WorkspaceID)
		}
		response.Metadata.Workspace = &models.WorkspaceResponse{
			ID:          workspace.ID,
			Name:        workspace.Name,
			Description: workspace.Description.String,
			CreatedAt:   workspace.CreatedAt,
		}

		if row.UserID.Valid {
			user, err := r.db.Queries.GetUserById(ctx, row.UserID.String)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("resolving owner %s: %w", row.UserID.String, err)
			}
			if err == nil {
				response.Body.User = &models.UserResponse{
					ID:       user.ID,
					Name:     user.Name,
					IsActive: user.IsActive,
				}
			}
		}
	}

	return response.WithStore(r), nil
}

func (r *EventSourceRepository) cachedResponse(ctx context.Context, id string) *models.EventSourceResponse {
	if r.db.Redis == nil {
		return nil
	}

	var response models.EventSourceResponse
	if err := r.db.Redis.GetJSON(ctx, cacheKey(id), &response); err != nil {
		return nil
	}
	if response.Metadata == nil {
		return nil
	}
	return response.WithStore(r)
}

func (r *EventSourceRepository) cacheResponse(ctx context.Context, response *models.EventSourceResponse) {
	if r.db.Redis == nil {
		return
	}
	if err := r.db.Redis.SetJSON(ctx, cacheKey(response.ID), response, responseCacheTTL); err != nil {
		log.Warn().Err(err).Str("eventSourceID", response.ID).Msg("Failed to cache response")
	}
}

func (r *EventSourceRepository) invalidateCache(ctx context.Context, id string) {
	if r.db.Redis == nil {
		return
	}
	if err := r.db.Redis.Delete(ctx, cacheKey(id)); err != nil {
		log.Warn().Err(err).Str("eventSourceID", id).Msg("Failed to invalidate cached response")
	}
}

// archivePreviousConfiguration stores the superseded blob. Best effort: an
// archive failure is logged and never fails the update that already committed.
func (r *EventSourceRepository) archivePreviousConfiguration(ctx context.Context, row repository.EventSource, previousBlob []byte) {
	if r.archiver == nil || len(previousBlob) == 0 {
		return
	}

	objectName, err := storage.ArchiveConfiguration(ctx, r.archiver, r.archiveBucket, row.WorkspaceID, row.ID, row.UpdatedAt, previousBlob)
	if err != nil {
		log.Warn().Err(err).Str("eventSourceID", row.ID).Msg("Failed to archive superseded configuration")
		return
	}
	log.Info().Str("eventSourceID", row.ID).Str("object", objectName).Msg("Archived superseded configuration")
}

// ensureNameAvailable enforces the per-workspace name uniqueness rule on
// create and rename.
func (r *EventSourceRepository) ensureNameAvailable(ctx context.Context, workspaceID, name string) error {
	_, err := r.db.Queries.GetEventSourceByName(ctx, repository.GetEventSourceByNameParams{
		WorkspaceID: workspaceID,
		Name:        name,
	})
	if err == nil {
		return fmt.Errorf("%w: event source %q already exists in workspace", common.ErrValidation, name)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("checking name uniqueness: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return "event_source:" + id
}

func schemaFromRow(row repository.EventSource) *schemas.EventSourceSchema {
	return &schemas.EventSourceSchema{
		ID:            row.ID,
		Name:          row.Name,
		WorkspaceID:   row.WorkspaceID,
		UserID:        row.UserID,
		Flavor:        row.Flavor,
		PluginType:    row.PluginType,
		PluginSubtype: row.PluginSubtype,
		Description:   row.Description,
		Configuration: row.Configuration,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func optionText(opt mo.Option[string]) pgtype.Text {
	value, ok := opt.Get()
	return pgtype.Text{String: value, Valid: ok}
}

// translateStoreError maps storage-layer failures into the service taxonomy
// without obscuring the original cause.
func translateStoreError(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: event source %s", common.ErrNotFound, id)
	}
	return err
}
