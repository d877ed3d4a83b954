package models

import (
	"time"
)

// WorkspaceResponse is the resolved scope object attached to hydrated
// responses. Workspaces are owned by an external collaborator; this service
// only reads them.
type WorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserResponse is the resolved owner reference on a response body.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// TriggerResponse is a read-only back reference to a trigger depending on an
// event source. Trigger lifetime is managed elsewhere.
type TriggerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	EventSourceID string    `json:"event_source_id"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}
