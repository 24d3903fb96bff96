package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	svc, err := NewTokenService("access-secret", "refresh-secret", time.Hour, 168*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty secrets", func(t *testing.T) {
		_, err := NewTokenService("", "refresh", time.Hour, time.Hour)
		require.Error(t, err)
	})

	t.Run("rejects identical secrets", func(t *testing.T) {
		_, err := NewTokenService("same", "same", time.Hour, time.Hour)
		require.Error(t, err)
	})
}

func TestTokenService_IssuePair(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	pair, err := svc.IssuePair("user-1", "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	require.Equal(t, int64(3600), pair.ExpiresIn)

	t.Run("access token carries identity", func(t *testing.T) {
		claims, err := svc.VerifyAccess(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
		require.Equal(t, "jane@example.com", claims.Email)
		require.NotEmpty(t, claims.TokenID)
	})

	t.Run("refresh token verifies as refresh", func(t *testing.T) {
		claims, err := svc.VerifyRefresh(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, "user-1", claims.UserID)
	})
}

func TestTokenService_Verify(t *testing.T) {
	t.Parallel()
	svc := newTestTokenService(t)

	pair, err := svc.IssuePair("user-1", "jane@example.com")
	require.NoError(t, err)

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.VerifyRefresh(pair.AccessToken)
		require.Error(t, err)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.VerifyAccess(pair.RefreshToken)
		require.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := svc.VerifyAccess("not.a.token")
		require.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other, err := NewTokenService("other-access", "other-refresh", time.Hour, time.Hour)
		require.NoError(t, err)

		foreign, err := other.IssueAccess("user-1", "jane@example.com")
		require.NoError(t, err)

		_, err = svc.VerifyAccess(foreign)
		require.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired, err := NewTokenService("access-secret", "refresh-secret", -time.Minute, time.Hour)
		require.NoError(t, err)

		token, err := expired.IssueAccess("user-1", "jane@example.com")
		require.NoError(t, err)

		_, err = svc.VerifyAccess(token)
		require.Error(t, err)
	})

	t.Run("all rejections read the same", func(t *testing.T) {
		_, errGarbage := svc.VerifyAccess("garbage")
		_, errWrongType := svc.VerifyAccess(pair.RefreshToken)
		require.EqualError(t, errWrongType, errGarbage.Error())
	})
}
