// File: internal/infrastructure/database/user_postgres_repository.go
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
)

type pgxUserRepository struct {
	db *pgxpool.Pool
}

// NewPgxUserRepository creates the pgx-backed user repository.
func NewPgxUserRepository(db *pgxpool.Pool) repository.UserRepository {
	return &pgxUserRepository{db: db}
}

// The LEFT JOIN attaches the optional second-factor record in the same round
// trip; mfa_user_id is NULL when no record exists.
const userSelectQuery = `
	SELECT u.id, u.workspace_id, u.email, u.name, u.password_hash, u.created_at, u.updated_at,
	       m.user_id, m.secret, m.is_enabled, m.method, m.created_at, m.updated_at
	FROM users u
	LEFT JOIN user_mfa m ON m.user_id = u.id AND m.workspace_id = u.workspace_id`

func (r *pgxUserRepository) FindByEmail(ctx context.Context, email string, workspaceID uuid.UUID) (*models.User, error) {
	query := userSelectQuery + ` WHERE lower(u.email) = lower($1) AND u.workspace_id = $2`
	return r.scanUser(r.db.QueryRow(ctx, query, email, workspaceID))
}

func (r *pgxUserRepository) FindByID(ctx context.Context, id, workspaceID uuid.UUID) (*models.User, error) {
	query := userSelectQuery + ` WHERE u.id = $1 AND u.workspace_id = $2`
	return r.scanUser(r.db.QueryRow(ctx, query, id, workspaceID))
}

func (r *pgxUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, workspace_id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.WorkspaceID, user.Email, user.Name, user.PasswordHash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user already exists in workspace: %w", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *pgxUserRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	var (
		mfaUserID                  *uuid.UUID
		mfaSecret                  *string
		mfaEnabled                 *bool
		mfaMethod                  *string
		mfaCreatedAt, mfaUpdatedAt *time.Time
	)
	err := row.Scan(
		&user.ID, &user.WorkspaceID, &user.Email, &user.Name, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
		&mfaUserID, &mfaSecret, &mfaEnabled, &mfaMethod, &mfaCreatedAt, &mfaUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if mfaUserID != nil {
		user.MFA = &models.UserMFA{
			UserID:      *mfaUserID,
			WorkspaceID: user.WorkspaceID,
			Secret:      *mfaSecret,
			IsEnabled:   *mfaEnabled,
			Method:      models.MFAMethod(*mfaMethod),
		}
		if mfaCreatedAt != nil {
			user.MFA.CreatedAt = *mfaCreatedAt
		}
		if mfaUpdatedAt != nil {
			user.MFA.UpdatedAt = *mfaUpdatedAt
		}
	}
	return user, nil
}

var _ repository.UserRepository = (*pgxUserRepository)(nil)
