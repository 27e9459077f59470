package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService("test-secret", "15m", "24h", false)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "24h", false)
	assert.Error(t, err)
}

func TestGenerateAccessToken_Claims(t *testing.T) {
	svc := newTestService(t)
	managerID := "mgr-1"
	u := user.User{ID: "emp-1", Email: "emp@example.com", Role: user.RoleEmployee, ManagerID: &managerID}

	token, _, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	id, err := IdentityFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", id.UserID)
	assert.Equal(t, user.RoleEmployee, id.Role)
	assert.Equal(t, "mgr-1", id.ManagerID)
	assert.Equal(t, TokenTypeAccess, claims["type"])
	assert.False(t, id.IsManager())
}

func TestValidateSSEToken(t *testing.T) {
	svc := newTestService(t)

	sse, expiresIn, err := svc.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(sse)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(refresh)
	assert.Error(t, err, "refresh token must not open a stream")
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestService(t)

	first, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	userID, err := svc.ValidateRefreshToken(first)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = svc.ValidateRefreshToken("not-a-token")
	assert.Error(t, err)
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService(t)
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc", svc.now().Unix()+3600)
	assert.True(t, svc.IsTokenRevoked("abc"))
}

func TestIdentityFromContext(t *testing.T) {
	svc := newTestService(t)
	ctx, err := WithIdentity(context.Background(), svc.JWTAuth(), Identity{UserID: "m-1", Role: user.RoleManager})
	require.NoError(t, err)

	id, err := IdentityFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m-1", id.UserID)
	assert.True(t, id.IsManager())

	_, err = IdentityFromClaims(map[string]interface{}{"role": "manager"})
	assert.ErrorIs(t, err, ErrMissingIdentity)
}
