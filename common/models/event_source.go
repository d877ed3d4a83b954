package models

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/lariatlabs/event-source-service/common"
)

// EventSourceStore is the read handle used for lazy hydration. Implementations
// must return a hydrated response for the given id.
type EventSourceStore interface {
	GetEventSource(ctx context.Context, id string) (*EventSourceResponse, error)
}

// EventSourceRequest is the create payload for an event source. Scope and
// owner are injected by the calling context, never carried in the payload;
// id and timestamps are assigned by the storage layer.
type EventSourceRequest struct {
	Name          string                 `json:"name"`
	Flavor        string                 `json:"flavor"`
	PluginType    string                 `json:"plugin_type"`
	PluginSubtype string                 `json:"plugin_subtype"`
	Description   string                 `json:"description"`
	Configuration map[string]interface{} `json:"configuration"`
}

// Validate checks field constraints before any persistence attempt.
func (r EventSourceRequest) Validate() error {
	if err := requireBounded("name", r.Name); err != nil {
		return err
	}
	if err := requireBounded("flavor", r.Flavor); err != nil {
		return err
	}
	if err := requireBounded("plugin_type", r.PluginType); err != nil {
		return err
	}
	if err := requireBounded("plugin_subtype", r.PluginSubtype); err != nil {
		return err
	}
	if len(r.Description) > common.StrFieldMaxLength {
		return fmt.Errorf("%w: description exceeds %d characters", common.ErrValidation, common.StrFieldMaxLength)
	}
	if r.Configuration == nil {
		return fmt.Errorf("%w: configuration is required (may be an empty map)", common.ErrValidation)
	}
	return nil
}

// EventSourceUpdate is the partial-patch payload. Every field is optional and
// "unset" is distinguishable from "set to empty": an absent JSON field stays
// None, an explicit value becomes Some. RotateSecret signals a side effect to
// the secret-rotation collaborator and is never stored on the row; Flavor,
// PluginType and PluginSubtype are immutable and silently ignored by the row
// (see schemas.EventSourceSchema.ApplyUpdate).
type EventSourceUpdate struct {
	Name          mo.Option[string]                 `json:"name"`
	Flavor        mo.Option[string]                 `json:"flavor"`
	PluginType    mo.Option[string]                 `json:"plugin_type"`
	PluginSubtype mo.Option[string]                 `json:"plugin_subtype"`
	Description   mo.Option[string]                 `json:"description"`
	Configuration mo.Option[map[string]interface{}] `json:"configuration"`
	RotateSecret  mo.Option[bool]                   `json:"rotate_secret"`
}

// Validate checks the explicitly-set fields against field constraints.
func (u EventSourceUpdate) Validate() error {
	if name, ok := u.Name.Get(); ok {
		if err := requireBounded("name", name); err != nil {
			return err
		}
	}
	if desc, ok := u.Description.Get(); ok {
		if len(desc) > common.StrFieldMaxLength {
			return fmt.Errorf("%w: description exceeds %d characters", common.ErrValidation, common.StrFieldMaxLength)
		}
	}
	if config, ok := u.Configuration.Get(); ok && config == nil {
		return fmt.Errorf("%w: configuration cannot be set to null", common.ErrValidation)
	}
	return nil
}

// ChangedFields names the fields this patch explicitly sets, for audit trails.
// Immutable fields are included even though the row ignores them; the trail
// records what the caller asked for, not what took effect.
func (u EventSourceUpdate) ChangedFields() []string {
	fields := make([]string, 0, 7)
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"name", u.Name.IsPresent()},
		{"flavor", u.Flavor.IsPresent()},
		{"plugin_type", u.PluginType.IsPresent()},
		{"plugin_subtype", u.PluginSubtype.IsPresent()},
		{"description", u.Description.IsPresent()},
		{"configuration", u.Configuration.IsPresent()},
		{"rotate_secret", u.RotateSecret.IsPresent()},
	} {
		if f.set {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// EventSourceResponseBody holds the stable, cheap fields that every read
// returns without extra I/O: the scope/owner references, the behavioral
// identity fields and the timestamps.
type EventSourceResponseBody struct {
	ScopeInfo
	Flavor        string        `json:"flavor"`
	PluginType    string        `json:"plugin_type"`
	PluginSubtype string        `json:"plugin_subtype"`
	User          *UserResponse `json:"user,omitempty"`
	Timestamps
}

// EventSourceResponseMetadata holds the expensive fields returned only on
// hydrated reads: the decoded configuration and the resolved scope.
type EventSourceResponseMetadata struct {
	Workspace     *WorkspaceResponse     `json:"workspace,omitempty"`
	Description   string                 `json:"description"`
	Configuration map[string]interface{} `json:"configuration"`
}

// EventSourceResponse is the read representation of an event source. Metadata
// is nil on unhydrated responses; accessing a metadata-backed field then
// lazily fetches the hydrated version through the attached store handle,
// memoized so at most one round trip happens per response. Without a store
// handle the accessors fail with common.ErrNotHydrated.
//
// A response is not safe for concurrent use; each caller obtains its own from
// the store.
type EventSourceResponse struct {
	ID       string                       `json:"id"`
	Name     string                       `json:"name"`
	Body     EventSourceResponseBody      `json:"body"`
	Metadata *EventSourceResponseMetadata `json:"metadata,omitempty"`

	store EventSourceStore
}

// WithStore attaches the store handle used for lazy hydration and returns the
// response for chaining.
func (r *EventSourceResponse) WithStore(store EventSourceStore) *EventSourceResponse {
	r.store = store
	return r
}

// Hydrated reports whether the metadata section is populated.
func (r *EventSourceResponse) Hydrated() bool {
	return r.Metadata != nil
}

// Hydrate populates the metadata section by re-fetching the authoritative
// state through the store handle. Calling it on an already-hydrated response
// is a no-op, not a re-fetch.
func (r *EventSourceResponse) Hydrate(ctx context.Context) error {
	if r.Metadata != nil {
		return nil
	}
	if r.store == nil {
		return fmt.Errorf("%w: event source %s has no store handle", common.ErrNotHydrated, r.ID)
	}

	hydrated, err := r.store.GetEventSource(ctx, r.ID)
	if err != nil {
		return err
	}
	if hydrated.Metadata == nil {
		return fmt.Errorf("%w: store returned no metadata for event source %s", common.ErrNotHydrated, r.ID)
	}

	// The fetched copy is authoritative, so the cheap fields are refreshed
	// along with the metadata.
	r.Name = hydrated.Name
	r.Body = hydrated.Body
	r.Metadata = hydrated.Metadata
	return nil
}

// Body accessors.

// Flavor returns the immutable flavor of the event source.
func (r *EventSourceResponse) Flavor() string { return r.Body.Flavor }

// PluginType returns the immutable plugin type of the event source.
func (r *EventSourceResponse) PluginType() string { return r.Body.PluginType }

// PluginSubtype returns the immutable plugin subtype of the event source.
func (r *EventSourceResponse) PluginSubtype() string { return r.Body.PluginSubtype }

// Created returns the creation time of the event source.
func (r *EventSourceResponse) Created() time.Time { return r.Body.Created }

// Updated returns the last mutation time of the event source.
func (r *EventSourceResponse) Updated() time.Time { return r.Body.Updated }

// Metadata accessors. Each hydrates on first use.

// Description returns the free-text description, hydrating if needed.
func (r *EventSourceResponse) Description(ctx context.Context) (string, error) {
	if err := r.Hydrate(ctx); err != nil {
		return "", err
	}
	return r.Metadata.Description, nil
}

// Configuration returns the decoded configuration map, hydrating if needed.
func (r *EventSourceResponse) Configuration(ctx context.Context) (map[string]interface{}, error) {
	if err := r.Hydrate(ctx); err != nil {
		return nil, err
	}
	return r.Metadata.Configuration, nil
}

// Workspace returns the resolved scope object, hydrating if needed.
func (r *EventSourceResponse) Workspace(ctx context.Context) (*WorkspaceResponse, error) {
	if err := r.Hydrate(ctx); err != nil {
		return nil, err
	}
	return r.Metadata.Workspace, nil
}

// EventSourceFilter is the optional-field predicate shape consumed by the
// query layer. Matching semantics (exact vs prefix) belong to that layer.
type EventSourceFilter struct {
	WorkspaceID   string            `json:"workspace_id"`
	Name          mo.Option[string] `json:"name"`
	Flavor        mo.Option[string] `json:"flavor"`
	PluginType    mo.Option[string] `json:"plugin_type"`
	PluginSubtype mo.Option[string] `json:"plugin_subtype"`

	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func requireBounded(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", common.ErrValidation, field)
	}
	if len(value) > common.StrFieldMaxLength {
		return fmt.Errorf("%w: %s exceeds %d characters", common.ErrValidation, field, common.StrFieldMaxLength)
	}
	return nil
}
