// File: internal/domain/models/user_mfa.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MFAMethod identifies the kind of second factor bound to a user.
type MFAMethod string

const (
	MFAMethodTOTP MFAMethod = "totp" // Time-based One-Time Password
)

// UserMFA is the second-factor record for one (user, workspace) pair.
// At most one row exists per pair; the enable path upserts with
// IsEnabled=true and the disable path deletes the row outright, so a
// persisted record with IsEnabled=false is only ever transient.
type UserMFA struct {
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	WorkspaceID uuid.UUID `json:"workspaceId" db:"workspace_id"`
	Secret      string    `json:"-" db:"secret"` // base32 TOTP secret, server-generated
	IsEnabled   bool      `json:"isEnabled" db:"is_enabled"`
	Method      MFAMethod `json:"method" db:"method"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
