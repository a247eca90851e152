// File: internal/domain/repository/workspace_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/emilyastranova/forkmost/internal/domain/models"
)

// WorkspaceRepository reads workspace records. MFA policy (enforce_mfa) lives
// on the workspace and is read-only for the auth gate.
type WorkspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)

	// FindByHostname resolves the tenant for an incoming request host.
	// Returns domain ErrWorkspaceNotFound when no workspace matches.
	FindByHostname(ctx context.Context, hostname string) (*models.Workspace, error)

	// FindDefault returns the single workspace of a self-hosted deployment.
	FindDefault(ctx context.Context) (*models.Workspace, error)
}
