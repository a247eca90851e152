// File: internal/infrastructure/security/password_argon2_test.go
package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPasswordService(t *testing.T) *argon2idPasswordService {
	t.Helper()
	// Small parameters keep the test fast; correctness does not depend on cost.
	svc, err := NewArgon2idPasswordService(Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)
	return svc.(*argon2idPasswordService)
}

func TestHashPassword_Format(t *testing.T) {
	svc := testPasswordService(t)

	hash, err := svc.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestCheckPasswordHash(t *testing.T) {
	svc := testPasswordService(t)

	hash, err := svc.HashPassword("password123")
	require.NoError(t, err)

	match, err := svc.CheckPasswordHash("password123", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = svc.CheckPasswordHash("password124", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	svc := testPasswordService(t)

	first, err := svc.HashPassword("password123")
	require.NoError(t, err)
	second, err := svc.HashPassword("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	svc := testPasswordService(t)

	for _, encoded := range []string{"", "not-a-hash", "$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"} {
		_, err := svc.CheckPasswordHash("password123", encoded)
		assert.Error(t, err, "hash %q should be rejected", encoded)
	}
}

func TestNewArgon2idPasswordService_RequiresParams(t *testing.T) {
	_, err := NewArgon2idPasswordService(Argon2idParams{})
	assert.Error(t, err)

	_, err = NewArgon2idPasswordService(DefaultArgon2idParams())
	assert.NoError(t, err)
}
