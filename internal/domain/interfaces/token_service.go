// File: internal/domain/interfaces/token_service.go
package interfaces

import (
	"github.com/google/uuid"
)

// AuthClaims are the validated contents of a session token.
type AuthClaims struct {
	UserID      uuid.UUID
	WorkspaceID uuid.UUID
}

// TokenService mints and validates the opaque bearer token issued once the
// authentication gate clears. The gate treats issuance as atomic: either a
// token comes back or the whole attempt fails.
type TokenService interface {
	IssueAuthToken(userID, workspaceID uuid.UUID) (string, error)
	ValidateAuthToken(token string) (*AuthClaims, error)
}
