// File: internal/infrastructure/database/user_mfa_postgres_repository.go
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

type pgxUserMFARepository struct {
	db *pgxpool.Pool
}

// NewPgxUserMFARepository creates the pgx-backed credential store for
// second-factor records.
func NewPgxUserMFARepository(db *pgxpool.Pool) repository.UserMFARepository {
	return &pgxUserMFARepository{db: db}
}

func (r *pgxUserMFARepository) Get(ctx context.Context, userID, workspaceID uuid.UUID) (*models.UserMFA, error) {
	query := `
		SELECT user_id, workspace_id, secret, is_enabled, method, created_at, updated_at
		FROM user_mfa
		WHERE user_id = $1 AND workspace_id = $2`
	record := &models.UserMFA{}
	err := r.db.QueryRow(ctx, query, userID, workspaceID).Scan(
		&record.UserID, &record.WorkspaceID, &record.Secret,
		&record.IsEnabled, &record.Method, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrMFANotFound
		}
		return nil, fmt.Errorf("failed to get user MFA record: %w", err)
	}
	return record, nil
}

func (r *pgxUserMFARepository) Upsert(ctx context.Context, record *models.UserMFA) error {
	// The ON CONFLICT clause is the only write path for enabling or
	// re-enrolling: last write wins on the (user_id, workspace_id) key.
	query := `
		INSERT INTO user_mfa (user_id, workspace_id, secret, is_enabled, method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (user_id, workspace_id) DO UPDATE SET
			secret = EXCLUDED.secret,
			is_enabled = EXCLUDED.is_enabled,
			method = EXCLUDED.method,
			updated_at = now()`
	_, err := r.db.Exec(ctx, query,
		record.UserID, record.WorkspaceID, record.Secret, record.IsEnabled, record.Method,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user MFA record: %w", err)
	}
	return nil
}

func (r *pgxUserMFARepository) Delete(ctx context.Context, userID, workspaceID uuid.UUID) error {
	query := `DELETE FROM user_mfa WHERE user_id = $1 AND workspace_id = $2`
	_, err := r.db.Exec(ctx, query, userID, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to delete user MFA record: %w", err)
	}
	return nil
}

var _ repository.UserMFARepository = (*pgxUserMFARepository)(nil)
