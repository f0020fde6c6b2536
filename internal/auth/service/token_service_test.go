package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)

	assert.NotNil(t, ts)
	assert.Equal(t, "access-secret", ts.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", ts.RefreshTokenSecret)
	assert.Equal(t, 15*time.Minute, ts.AccessTokenExpiry)
	assert.Equal(t, 168*time.Hour, ts.RefreshTokenExpiry)
}

func TestTokenService_Generate(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)

	accessToken, refreshToken, err := ts.Generate("user-123", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	t.Run("access token carries subject and email", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("refresh token carries subject and email", func(t *testing.T) {
		claims, err := ts.VerifyRefreshToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(168*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("secrets are independent", func(t *testing.T) {
		// An access token must not verify as a refresh token and vice versa.
		_, err := ts.VerifyRefreshToken(accessToken)
		assert.Error(t, err)

		_, err = ts.VerifyAccessToken(refreshToken)
		assert.Error(t, err)
	})
}

func TestTokenService_Verify_Failures(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.VerifyAccessToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", "other-refresh", 15*time.Minute, 168*time.Hour)
		accessToken, _, err := other.Generate("user-123", "test@example.com")
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)
		accessToken, refreshToken, err := expired.Generate("user-123", "test@example.com")
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(accessToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)

		_, err = ts.VerifyRefreshToken(refreshToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("rejects non-HMAC signing method", func(t *testing.T) {
		// alg=none style tokens must be refused.
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-123"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ts.VerifyAccessToken(signed)
		assert.Error(t, err)
	})
}
