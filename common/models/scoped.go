package models

import (
	"time"
)

// ScopeInfo identifies the workspace that bounds an entity's existence and
// its optional owner. The workspace is mandatory and cascade-deletes the
// entity; the owner is informational only and is nulled when the user goes
// away.
type ScopeInfo struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id,omitempty"`
}

// Timestamps holds the creation and last-mutation times of an entity. Created
// is set once by the storage layer; Updated advances on every accepted
// mutation.
type Timestamps struct {
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}
