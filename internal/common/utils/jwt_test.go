package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestParseJWT(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		token, err := SignJWT(secret, "https://issuer", "user-1", "Ana", []string{ScopeRead}, time.Hour)
		require.NoError(t, err)

		claims, err := ParseJWT(token, secret, "https://issuer")
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "Ana", claims.Name)
		assert.True(t, HasScope(claims, ScopeRead))
		assert.False(t, HasScope(claims, ScopeWrite))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignJWT([]byte("other"), "", "user-1", "", nil, time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret, "")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignJWT(secret, "", "user-1", "", nil, -time.Minute)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret, "")
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := SignJWT(secret, "https://elsewhere", "user-1", "", nil, time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret, "https://issuer")
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("missing expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString(secret)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret, "")
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, err := SignJWT(secret, "", "", "", nil, time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(token, secret, "")
		assert.EqualError(t, err, "token has no subject")
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "abc", "Basic abc", "Bearer", "Bearer a b"} {
		_, err := ExtractBearerToken(header)
		assert.Error(t, err, header)
	}
}

func TestHeaderValue(t *testing.T) {
	headers := map[string]string{"authorization": "Bearer x"}
	assert.Equal(t, "Bearer x", HeaderValue(headers, "Authorization"))
	assert.Equal(t, "", HeaderValue(headers, "X-Request-Id"))
}
