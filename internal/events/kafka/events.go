// File: internal/events/kafka/events.go
package kafka

import (
	"time"
)

// Event types published by the auth service.
const (
	EventUserLoginSuccess = "auth.user.login_success.v1"
	EventUserLoginFailed  = "auth.user.login_failed.v1"
	EventMFAEnabled       = "auth.mfa.enabled.v1"
	EventMFADisabled      = "auth.mfa.disabled.v1"
)

// Envelope wraps every published payload with its type and emission time.
type Envelope struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginSuccessPayload is emitted when a login attempt fully authenticates.
type LoginSuccessPayload struct {
	UserID      string    `json:"userId"`
	WorkspaceID string    `json:"workspaceId"`
	MFAUsed     bool      `json:"mfaUsed"`
	Timestamp   time.Time `json:"timestamp"`
}

// LoginFailedPayload is emitted on a rejected login attempt. The attempted
// email is included; no indication of which check failed is recorded.
type LoginFailedPayload struct {
	AttemptedEmail string    `json:"attemptedEmail"`
	WorkspaceID    string    `json:"workspaceId"`
	Timestamp      time.Time `json:"timestamp"`
}

// MFAStatusPayload is emitted when a second factor is enabled or disabled.
type MFAStatusPayload struct {
	UserID      string    `json:"userId"`
	WorkspaceID string    `json:"workspaceId"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
}
