package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	claims := NewTokenClaims("u-1", "alice", "ws-1", "admin", true, time.Now().Add(time.Hour).Unix())

	token, err := GenerateJWT(claims, secret)
	require.NoError(t, err)

	parsed, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", parsed.User)
	assert.Equal(t, "ws-1", parsed.Workspace)
	assert.Equal(t, "admin", parsed.Role)
	assert.True(t, parsed.IsAdmin)
}

func TestJWTExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := NewTokenClaims("u-1", "alice", "ws-1", "admin", false, time.Now().Add(-time.Hour).Unix())

	token, err := GenerateJWT(claims, secret)
	require.NoError(t, err)

	_, err = VerifyToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidJWT)
}

func TestJWTWrongSecret(t *testing.T) {
	claims := NewTokenClaims("u-1", "alice", "ws-1", "read_only", false, time.Now().Add(time.Hour).Unix())

	token, err := GenerateJWT(claims, []byte("secret-a"))
	require.NoError(t, err)

	_, err = VerifyToken(token, []byte("secret-b"))
	assert.Error(t, err)
}
