// File: internal/infrastructure/security/pquerna_totp_service_test.go
package security

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	secret, enrollmentURL, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, secret)
	assert.True(t, strings.HasPrefix(enrollmentURL, "otpauth://totp/"))

	parsed, err := url.Parse(enrollmentURL)
	require.NoError(t, err)
	assert.Equal(t, "/Forkmost:user@example.com", parsed.Path)
	assert.Equal(t, "Forkmost", parsed.Query().Get("issuer"))
	assert.Equal(t, secret, parsed.Query().Get("secret"))
}

func TestGenerateSecret_Unique(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	first, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)
	second, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateSecret_InvalidAccountName(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	_, _, err := svc.GenerateSecret("")
	assert.Error(t, err)

	_, _, err = svc.GenerateSecret("bad:name")
	assert.Error(t, err)
}

func TestValidateCode_RoundTrip(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	secret, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now().UTC())
	require.NoError(t, err)

	valid, err := svc.ValidateCode(secret, code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateCode_AcceptsAdjacentStep(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	secret, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	// One step behind is inside the configured skew.
	code, err := totp.GenerateCode(secret, time.Now().UTC().Add(-30*time.Second))
	require.NoError(t, err)

	valid, err := svc.ValidateCode(secret, code)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateCode_RejectsDistantStep(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	secret, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCodeCustom(secret, time.Now().UTC().Add(-10*time.Minute), totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	require.NoError(t, err)

	valid, err := svc.ValidateCode(secret, code)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestValidateCode_MalformedCode(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	secret, _, err := svc.GenerateSecret("user@example.com")
	require.NoError(t, err)

	for _, code := range []string{"", "12345", "1234567", "12a456", "abcdef"} {
		valid, err := svc.ValidateCode(secret, code)
		require.NoError(t, err)
		assert.False(t, valid, "code %q should not validate", code)
	}
}

func TestValidateCode_EmptySecret(t *testing.T) {
	svc := NewPquernaTOTPService("Forkmost")

	_, err := svc.ValidateCode("", "123456")
	assert.Error(t, err)
}
