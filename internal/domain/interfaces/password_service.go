// File: internal/domain/interfaces/password_service.go
package interfaces

// PasswordService hashes passwords and verifies them against stored hashes.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// CheckPasswordHash compares password with encodedHash using a
	// constant-time comparison. A mismatch is (false, nil); an error means the
	// stored hash could not be parsed.
	CheckPasswordHash(password, encodedHash string) (bool, error)
}
