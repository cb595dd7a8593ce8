// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dajow/dajow-backend/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "dajow-test"
	cfg.JWT.Secret = "test-secret-key-for-signing-tokens"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	return cfg
}

func TestJWTManager_AccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "ada@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestJWTManager_RefreshTokenHasNoAdminClaim(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateRefreshToken(42, "ada@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)

	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	manager := NewJWTManager(testConfig())

	refresh, err := manager.GenerateRefreshToken(1, "ada@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := manager.GenerateAccessToken(1, "ada@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(1, "ada@example.com", false)
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "a-completely-different-secret"
	other := NewJWTManager(otherCfg)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken(1, "ada@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader(""))
	assert.Empty(t, ExtractTokenFromHeader("Bearer"))
}
