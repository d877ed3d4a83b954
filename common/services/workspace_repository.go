package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lariatlabs/event-source-service/common"
	"github.com/lariatlabs/event-source-service/common/db"
	"github.com/lariatlabs/event-source-service/repository"
)

// WorkspaceRepository is the PostgreSQL implementation of WorkspaceService
type WorkspaceRepository struct {
	db *db.DB
}

// NewWorkspaceRepository creates a new PostgreSQL WorkspaceRepository
func NewWorkspaceRepository(db *db.DB) WorkspaceService {
	return &WorkspaceRepository{db: db}
}

// GetByID gets a workspace by ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (repository.Workspace, error) {
	workspace, err := r.db.Queries.GetWorkspaceById(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Workspace{}, fmt.Errorf("%w: workspace %s", common.ErrNotFound, id)
		}
		return repository.Workspace{}, err
	}
	return workspace, nil
}
