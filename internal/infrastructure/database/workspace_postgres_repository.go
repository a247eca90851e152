// File: internal/infrastructure/database/workspace_postgres_repository.go
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
)

type pgxWorkspaceRepository struct {
	db *pgxpool.Pool
}

// NewPgxWorkspaceRepository creates the pgx-backed workspace repository.
func NewPgxWorkspaceRepository(db *pgxpool.Pool) repository.WorkspaceRepository {
	return &pgxWorkspaceRepository{db: db}
}

const workspaceSelectQuery = `
	SELECT id, name, COALESCE(hostname, ''), enforce_mfa, created_at
	FROM workspaces`

func (r *pgxWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	return r.scanWorkspace(r.db.QueryRow(ctx, workspaceSelectQuery+` WHERE id = $1`, id))
}

func (r *pgxWorkspaceRepository) FindByHostname(ctx context.Context, hostname string) (*models.Workspace, error) {
	return r.scanWorkspace(r.db.QueryRow(ctx, workspaceSelectQuery+` WHERE lower(hostname) = lower($1)`, hostname))
}

func (r *pgxWorkspaceRepository) FindDefault(ctx context.Context) (*models.Workspace, error) {
	return r.scanWorkspace(r.db.QueryRow(ctx, workspaceSelectQuery+` ORDER BY created_at LIMIT 1`))
}

func (r *pgxWorkspaceRepository) scanWorkspace(row pgx.Row) (*models.Workspace, error) {
	ws := &models.Workspace{}
	err := row.Scan(&ws.ID, &ws.Name, &ws.Hostname, &ws.EnforceMFA, &ws.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}
	return ws, nil
}

var _ repository.WorkspaceRepository = (*pgxWorkspaceRepository)(nil)
