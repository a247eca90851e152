// File: internal/domain/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")

	// Authentication errors. ErrInvalidCredentials is deliberately the single
	// outcome for unknown email, wrong password and missing user, so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")

	// User / workspace errors
	ErrUserNotFound      = errors.New("user not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// Second-factor errors
	ErrInvalidMFACode = errors.New("invalid MFA code")
	ErrMFANotEnabled  = errors.New("MFA not enabled for this user")
	ErrMFANotFound    = errors.New("MFA record not found")

	// Rate limiting
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError carries an application error with its HTTP mapping.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWorkspaceNotFound) ||
		errors.Is(err, ErrMFANotFound)
}

// IsUnauthorized reports whether err maps to a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMFANotEnabled)
}

// IsBadRequest reports whether err maps to a 400 response.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidMFACode)
}
