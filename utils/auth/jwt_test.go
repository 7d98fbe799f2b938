package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	mgr := testJWTManager()

	token, jti, err := mgr.GenerateAccessToken(42, "user@example.com", "TEACHER", 3)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "TEACHER", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	mgr := testJWTManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour, RefreshExpiry: time.Hour, Issuer: "test"})

	token, _, err := mgr.GenerateAccessToken(1, "user@example.com", "STUDENT", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	mgr := testJWTManager()

	_, err := mgr.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	mgr := NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "test",
	})

	token, _, err := mgr.GenerateAccessToken(1, "user@example.com", "STUDENT", 0)
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshAccessTokenRequiresRefreshType(t *testing.T) {
	mgr := testJWTManager()

	access, _, err := mgr.GenerateAccessToken(1, "user@example.com", "STUDENT", 0)
	require.NoError(t, err)

	_, _, err = mgr.RefreshAccessToken(access, "STUDENT", 0)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessTokenPropagatesCurrentRole(t *testing.T) {
	mgr := testJWTManager()

	refresh, _, err := mgr.GenerateRefreshToken(7, "user@example.com", "STUDENT", 0)
	require.NoError(t, err)

	// The account was promoted since the refresh token was minted
	access, _, err := mgr.RefreshAccessToken(refresh, "TEACHER", 1)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "TEACHER", claims.Role)
	assert.Equal(t, 1, claims.TokenVersion)
	assert.Equal(t, "access", claims.TokenType)
}

func TestGetTokenExpiry(t *testing.T) {
	mgr := testJWTManager()

	token, _, err := mgr.GenerateAccessToken(1, "user@example.com", "STUDENT", 0)
	require.NoError(t, err)

	expiry, err := mgr.GetTokenExpiry(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, time.Minute)
}
