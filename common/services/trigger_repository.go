package services

import (
	"context"
	"fmt"

	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/repository"
)

// TriggerRepository is the PostgreSQL implementation of TriggerService
type TriggerRepository struct {
	db *db.DB
}

// NewTriggerRepository creates a new PostgreSQL TriggerRepository
func NewTriggerRepository(db *db.DB) TriggerService {
	return &TriggerRepository{db: db}
}

// ListByEventSource lists the triggers referencing an event source
func (r *TriggerRepository) ListByEventSource(ctx context.Context, eventSourceID string) ([]repository.Trigger, error) {
	triggers, err := r.db.Queries.ListTriggersByEventSource(ctx, eventSourceID)
	if err != nil {
		return nil, fmt.Errorf("listing triggers for event source %s: %w", eventSourceID, err)
	}
	return triggers, nil
}
