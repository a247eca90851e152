// File: internal/domain/models/workspace.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is the tenant boundary users and MFA policy are scoped under.
type Workspace struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Hostname   string    `json:"hostname" db:"hostname"`
	EnforceMFA bool      `json:"enforceMfa" db:"enforce_mfa"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
