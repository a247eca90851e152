// File: internal/domain/models/auth_dtos.go
package models

// LoginRequest carries the primary-authentication credentials. It is
// constructed per request and never persisted.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MFAVerifyRequest completes a challenged login. Credentials are deliberately
// re-submitted so the verify endpoint cannot be used as a password-free bypass.
type MFAVerifyRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// MFAEnableRequest binds a freshly generated secret to the caller once they
// prove possession of a working authenticator.
type MFAEnableRequest struct {
	Secret string `json:"secret" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// MFASetupGenerateRequest is the pre-session variant of secret generation.
type MFASetupGenerateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// MFASetupEnableRequest is the pre-session variant of MFAEnableRequest.
type MFASetupEnableRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

// MFARequirements is returned by the login endpoint instead of a session when
// the attempt must be challenged or enrolled first.
type MFARequirements struct {
	UserHasMFA    bool `json:"userHasMfa"`
	RequiresSetup bool `json:"requiresMfaSetup"`
	IsMFAEnforced bool `json:"isMfaEnforced"`
}

// MFASecretResponse is the result of the generate step. Nothing is persisted
// until the matching enable call validates a code against this secret.
type MFASecretResponse struct {
	Secret     string `json:"secret"`
	OtpauthURL string `json:"otpauthUrl"`
}

// LoginResult is the gate's terminal outcome for a login attempt. Exactly one
// of AuthToken and MFARequirements is set.
type LoginResult struct {
	AuthToken    string
	Requirements *MFARequirements
	User         *User
}
