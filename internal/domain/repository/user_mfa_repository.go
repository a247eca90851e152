// File: internal/domain/repository/user_mfa_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/emilyastranova/forkmost/internal/domain/models"
)

// UserMFARepository is the credential store for second-factor records. It is
// the only component that mutates user_mfa rows; the storage engine's upsert
// and delete atomicity is the sole concurrency control.
type UserMFARepository interface {
	// Get returns the record for (userID, workspaceID) or domain
	// ErrMFANotFound.
	Get(ctx context.Context, userID, workspaceID uuid.UUID) (*models.UserMFA, error)

	// Upsert inserts the record, or on conflict on (user_id, workspace_id)
	// overwrites secret, enabled flag and method and refreshes updated_at.
	// Concurrent enables for the same user converge to last-write-wins.
	Upsert(ctx context.Context, record *models.UserMFA) error

	// Delete removes the record. Idempotent: absence afterwards is the
	// postcondition regardless of prior existence.
	Delete(ctx context.Context, userID, workspaceID uuid.UUID) error
}
