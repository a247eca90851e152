// File: internal/domain/repository/user_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/emilyastranova/forkmost/internal/domain/models"
)

// UserRepository reads user records scoped to a workspace.
type UserRepository interface {
	// FindByEmail looks up a user by email within a workspace. The returned
	// user has its MFA field populated when a second-factor record exists.
	// Returns domain ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string, workspaceID uuid.UUID) (*models.User, error)

	// FindByID looks up a user by id within a workspace, MFA field populated.
	FindByID(ctx context.Context, id, workspaceID uuid.UUID) (*models.User, error)

	// Create inserts a new user. Used by seeding and tests.
	Create(ctx context.Context, user *models.User) error
}
