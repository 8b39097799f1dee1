package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64f000000000000000000001", "john_doe", "bettor", "session-123")
	require.NoError(t, err)

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, "john_doe", claims.Username)
	assert.Equal(t, "bettor", claims.Role)
	assert.Equal(t, "session-123", claims.SessionID)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestGenerateJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("id", "user", "bettor", "")
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &JwtCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestTokenBlacklist(t *testing.T) {
	assert.False(t, IsTokenBlacklisted("some-token"))

	BlacklistToken("some-token", time.Now().Add(time.Hour))
	assert.True(t, IsTokenBlacklisted("some-token"))
}
