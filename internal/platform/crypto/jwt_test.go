package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, jti, err := GenerateToken("test-secret-key", "user-123", "USER", time.Hour)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, jti, 32)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret-key"
	userID := "user-123"

	t.Run("valid token", func(t *testing.T) {
		token, _, err := GenerateToken(secret, userID, "USER", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.Sub)
		assert.Equal(t, "USER", claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("invalid signature", func(t *testing.T) {
		token, _, err := GenerateToken("wrong-secret", userID, "USER", time.Hour)
		require.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Sub: userID,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other signing method", func(t *testing.T) {
		c := Claims{Sub: userID}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, c).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, _, err := GenerateToken(secret, "", "USER", time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(secret, token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken(secret, "invalid.token.here")
		assert.Error(t, err)
	})
}

func TestGenerateToken_UniqueJTIs(t *testing.T) {
	token1, jti1, err1 := GenerateToken("s", "u", "USER", time.Hour)
	token2, jti2, err2 := GenerateToken("s", "u", "USER", time.Hour)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, jti1, jti2)
	assert.NotEqual(t, token1, token2)
}
