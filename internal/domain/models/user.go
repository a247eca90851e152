// File: internal/domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account inside a single workspace. Email is unique per
// workspace, not globally.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	WorkspaceID  uuid.UUID `json:"workspaceId" db:"workspace_id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// MFA is populated explicitly by the user lookup when a second-factor
	// record exists for this user in this workspace. Nil means no record.
	MFA *UserMFA `json:"mfa,omitempty" db:"-"`
}

// HasEnabledMFA reports whether the user must be challenged at login.
// Existence of an enabled record is the sole signal.
func (u *User) HasEnabledMFA() bool {
	return u.MFA != nil && u.MFA.IsEnabled
}

// UserResponse is the safe projection of User returned by the API.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// ToResponse converts a User to its API projection.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
	}
}
