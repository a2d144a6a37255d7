package jwt

import (
	"context"
	"testing"
	"time"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", nil)

	token := svc.GenerateTokenUser("11111111-1111-1111-1111-111111111111", domain.RoleUser)
	require.NotEmpty(t, token)

	userID, role, err := svc.GetUserIDByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", userID)
	assert.Equal(t, domain.RoleUser, role)
}

func TestTokenSignedWithOtherSecretIsInvalid(t *testing.T) {
	token := NewJWTService("secret-a", nil).GenerateTokenUser("user", domain.RoleUser)

	_, _, err := NewJWTService("secret-b", nil).GetUserIDByToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestExpiredTokenIsReported(t *testing.T) {
	svc := NewJWTService("test-secret", nil).(*jwtService)
	svc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	token := svc.GenerateTokenUser("user", domain.RoleUser)

	_, _, err := svc.GetUserIDByToken(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestRevokedTokenIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewJWTService("test-secret", NewMemoryDenylist())

	token := svc.GenerateTokenUser("user", domain.RoleUser)
	other := svc.GenerateTokenUser("user", domain.RoleUser)
	require.NoError(t, svc.RevokeToken(ctx, token))

	_, _, err := svc.GetUserIDByToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrTokenRevoked)

	_, _, err = svc.GetUserIDByToken(ctx, other)
	assert.NoError(t, err, "revoking one token must not affect another session")
}

func TestResetTokenCannotAuthenticate(t *testing.T) {
	svc := NewJWTService("test-secret", nil)

	reset, err := svc.GenerateTokenForgetPassword(map[string]any{"email": "cook@example.com"}, 15*time.Minute)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(context.Background(), reset)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	claims, err := svc.ValidateTokenForgetPassword(reset)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", claims["email"])
}

func TestUserTokenIsNotAResetToken(t *testing.T) {
	svc := NewJWTService("test-secret", nil)
	token := svc.GenerateTokenUser("user", domain.RoleUser)

	_, err := svc.ValidateTokenForgetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestMemoryDenylistExpires(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDenylist().(*memoryDenylist)
	now := time.Now()
	d.now = func() time.Time { return now }

	require.NoError(t, d.Revoke(ctx, "jti", time.Minute))
	revoked, err := d.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
