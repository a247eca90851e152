// File: internal/domain/interfaces/totp_service.go
package interfaces

// TOTPService generates TOTP secrets and validates submitted codes.
type TOTPService interface {
	// GenerateSecret produces a new random secret for accountName and the
	// otpauth:// enrollment URI an authenticator app can scan. The secret is
	// not persisted by this call.
	GenerateSecret(accountName string) (secretBase32 string, otpauthURL string, err error)

	// ValidateCode checks code against secretBase32 for the current time step
	// with bounded clock-skew tolerance. A non-matching or malformed code is a
	// normal false result; an error means the secret itself is unusable.
	ValidateCode(secretBase32 string, code string) (bool, error)
}
