// Package schemas holds the durable row representations and their
// translations to and from the API models.
package schemas

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lariatlabs/event-source-service/common/codec"
	"github.com/lariatlabs/event-source-service/common/models"
)

// EventSourceSchema is the persisted row for an event source. The
// configuration is stored as an opaque encoded blob and only decoded on
// hydrated reads. A row instance is never shared across concurrent callers;
// each read or update obtains its own from the store.
type EventSourceSchema struct {
	ID            string
	Name          string
	WorkspaceID   string
	UserID        pgtype.Text
	Flavor        string
	PluginType    string
	PluginSubtype string
	Description   pgtype.Text
	Configuration []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EventSourceSchemaFromRequest builds a row from a create payload. The
// workspace and owner come from the calling scope, never from the payload
// itself, so a workspace-shaped field smuggled into the request body can
// never move the row across workspaces. ID and timestamps are left for the
// storage layer to assign on insert.
func EventSourceSchemaFromRequest(req models.EventSourceRequest, workspaceID, userID string) (*EventSourceSchema, error) {
	blob, err := codec.Encode(req.Configuration)
	if err != nil {
		return nil, err
	}

	return &EventSourceSchema{
		Name:          req.Name,
		WorkspaceID:   workspaceID,
		UserID:        pgtype.Text{String: userID, Valid: userID != ""},
		Flavor:        req.Flavor,
		PluginType:    req.PluginType,
		PluginSubtype: req.PluginSubtype,
		Description:   pgtype.Text{String: req.Description, Valid: true},
		Configuration: blob,
	}, nil
}

// ToResponse projects the row into a response at the requested hydration
// level. The body is always built from row scalars with no I/O; the metadata
// (decoded configuration, description) is built only when hydrate is true and
// is absent, not zero-valued, otherwise. Resolving the workspace and owner
// references is the store's job since it holds the resolvers.
func (s *EventSourceSchema) ToResponse(hydrate bool) (*models.EventSourceResponse, error) {
	response := &models.EventSourceResponse{
		ID:   s.ID,
		Name: s.Name,
		Body: models.EventSourceResponseBody{
			ScopeInfo: models.ScopeInfo{
				WorkspaceID: s.WorkspaceID,
				UserID:      s.UserID.String,
			},
			Flavor:        s.Flavor,
			PluginType:    s.PluginType,
			PluginSubtype: s.PluginSubtype,
			Timestamps: models.Timestamps{
				Created: s.CreatedAt,
				Updated: s.UpdatedAt,
			},
		},
	}

	if hydrate {
		config, err := codec.Decode(s.Configuration)
		if err != nil {
			return nil, err
		}
		response.Metadata = &models.EventSourceResponseMetadata{
			Description:   s.Description.String,
			Configuration: config,
		}
	}

	return response, nil
}

// ApplyUpdate patches the row in place from the explicitly-set fields of the
// update and returns the row for chaining. Configuration is a whole-value
// replace, re-encoded through the codec. Flavor, PluginType and PluginSubtype
// are immutable and silently ignored even when the payload carries them;
// RotateSecret is an external side effect, never a column write. UpdatedAt
// advances unconditionally: an update that stores nothing still counts as the
// entity being touched. Re-running the same update yields the same row state,
// so the storage layer may retry on conflict.
func (s *EventSourceSchema) ApplyUpdate(update models.EventSourceUpdate) (*EventSourceSchema, error) {
	if name, ok := update.Name.Get(); ok {
		s.Name = name
	}
	if description, ok := update.Description.Get(); ok {
		s.Description = pgtype.Text{String: description, Valid: true}
	}
	if config, ok := update.Configuration.Get(); ok {
		blob, err := codec.Encode(config)
		if err != nil {
			return nil, err
		}
		s.Configuration = blob
	}
	// update.Flavor, update.PluginType, update.PluginSubtype: immutable,
	// ignored. update.RotateSecret: dispatched by the store, not stored.

	s.touch()
	return s, nil
}

// touch advances UpdatedAt. The wall clock can stand still between two calls
// on coarse timers, so the previous value plus a microsecond is the floor.
func (s *EventSourceSchema) touch() {
	now := time.Now().UTC()
	if !now.After(s.UpdatedAt) {
		now = s.UpdatedAt.Add(time.Microsecond)
	}
	s.UpdatedAt = now
}
