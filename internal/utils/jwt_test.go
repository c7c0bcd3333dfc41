package utils

import (
	"testing"
	"time"

	"mcadesk/internal/config"
	"mcadesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{
		JWTSecret:       "test-secret",
		Issuer:          "mcadesk-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := newTestIssuer()
	access, refresh, err := issuer.GenerateTokens(&models.UserClaims{
		UserID:       12,
		Email:        "uw@example.com",
		Role:         models.RoleUnderwriter,
		Permissions:  models.GetDefaultPermissions(models.RoleUnderwriter),
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := issuer.ParseToken(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.True(t, claims.HasPermission(models.PermissionDealDecide))
	assert.Equal(t, "12", claims.Subject)

	refreshClaims, err := issuer.ParseToken(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Empty(t, refreshClaims.Permissions)

	_, err = issuer.ParseToken(refresh, TokenTypeAccess)
	assert.Error(t, err)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := newTestIssuer()
	access, _, err := issuer.GenerateTokens(&models.UserClaims{UserID: 1})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer(config.AuthConfig{JWTSecret: "other", Issuer: "mcadesk-test", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Minute})
		_, err := other.ParseToken(access, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		late := newTestIssuer()
		late.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := late.ParseToken(access, TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.ParseToken("not-a-token", TokenTypeAccess)
		assert.Error(t, err)
	})
}
