// File: internal/infrastructure/security/pquerna_totp_service.go
package security

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
)

// pquernaTOTPService implements the TOTPService interface using pquerna/otp.
type pquernaTOTPService struct {
	issuer string
}

// NewPquernaTOTPService creates a new TOTP service. issuer is the name shown
// by authenticator apps next to the account label.
func NewPquernaTOTPService(issuer string) domainInterfaces.TOTPService {
	if strings.TrimSpace(issuer) == "" {
		issuer = "Forkmost"
	}
	return &pquernaTOTPService{issuer: issuer}
}

// GenerateSecret creates a new 160-bit TOTP secret and its otpauth:// URI.
// Nothing is persisted here; the enable step commits the secret only after a
// code validates against it.
func (s *pquernaTOTPService) GenerateSecret(accountName string) (string, string, error) {
	if strings.TrimSpace(accountName) == "" {
		return "", "", fmt.Errorf("accountName cannot be empty for TOTP secret generation")
	}
	if strings.Contains(accountName, ":") {
		return "", "", fmt.Errorf("accountName cannot contain a colon character")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      30,                // Standard TOTP period
		Digits:      otp.DigitsSix,     // Standard 6 digits
		Algorithm:   otp.AlgorithmSHA1, // Standard algorithm
		SecretSize:  20,                // 160 bits
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	return key.Secret(), key.URL(), nil
}

// ValidateCode checks the submitted code against the secret for the current
// 30-second step with a skew of one step on either side (±30s clock drift).
// A malformed or non-matching code is a normal false result.
func (s *pquernaTOTPService) ValidateCode(secretBase32 string, code string) (bool, error) {
	if strings.TrimSpace(secretBase32) == "" {
		return false, fmt.Errorf("secret cannot be empty")
	}
	if !isSixDigits(code) {
		return false, nil
	}

	valid, err := totp.ValidateCustom(code, secretBase32, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		// ValidateCustom only errors on an unusable secret; a wrong code is
		// reported through the boolean.
		return false, fmt.Errorf("error during TOTP code validation: %w", err)
	}

	return valid, nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var _ domainInterfaces.TOTPService = (*pquernaTOTPService)(nil)
