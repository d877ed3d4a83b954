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

// UserRepository is the PostgreSQL implementation of UserService
type UserRepository struct {
	db *db.DB
}

// NewUserRepository creates a new PostgreSQL UserRepository
func NewUserRepository(db *db.DB) UserService {
	return &UserRepository{db: db}
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (repository.User, error) {
	user, err := r.db.Queries.GetUserById(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.User{}, fmt.Errorf("%w: user %s", common.ErrNotFound, id)
		}
		return repository.User{}, err
	}
	return user, nil
}
