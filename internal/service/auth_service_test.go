package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-shop-backend/internal/model"
	"go-shop-backend/pkg/apierror"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) SetRefreshToken(ctx context.Context, userID string, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *mockUserStore) ClearRefreshTokenByValue(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_SignUp(t *testing.T) {
	tokens := newTestTokenService(t)

	t.Run("creates user with hashed password", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(false, nil)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			if u.ID == "" || u.Email != "jane@example.com" {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
		})).Return(nil)

		err := svc.SignUp(context.Background(), "jane@example.com", "secret123")

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("taken email fails validation on the email field", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(true, nil)

		err := svc.SignUp(context.Background(), "jane@example.com", "secret123")

		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "email", apiErr.Fields[0].Field)

		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	tokens := newTestTokenService(t)

	user := model.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: hashPassword(t, "secret123"),
	}

	t.Run("issues a pair and stores the refresh token", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)
		users.On("SetRefreshToken", mock.Anything, "user-1", mock.AnythingOfType("string")).Return(nil)

		pair, err := svc.Login(context.Background(), "jane@example.com", "secret123")

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		users.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, model.ErrUserNotFound)
		users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)

		_, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret123")
		_, errWrongPass := svc.Login(context.Background(), "jane@example.com", "wrong-password")

		require.Error(t, errUnknown)
		require.Error(t, errWrongPass)
		assert.EqualError(t, errWrongPass, errUnknown.Error())

		users.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	tokens := newTestTokenService(t)

	issue := func(t *testing.T) model.TokenPair {
		t.Helper()
		pair, err := tokens.IssuePair("user-1", "jane@example.com")
		require.NoError(t, err)
		return pair
	}

	t.Run("mints a new access token without rotating", func(t *testing.T) {
		pair := issue(t)
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{
			ID:           "user-1",
			Email:        "jane@example.com",
			RefreshToken: pair.RefreshToken,
		}, nil)

		access, err := svc.Refresh(context.Background(), pair.RefreshToken)

		require.NoError(t, err)
		claims, err := tokens.VerifyAccess(access)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)

		users.AssertNotCalled(t, "SetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a token that is no longer the stored one", func(t *testing.T) {
		pair := issue(t)
		// A newer login replaced the stored token.
		newer := issue(t)
		require.NotEqual(t, pair.RefreshToken, newer.RefreshToken)

		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{
			ID:           "user-1",
			Email:        "jane@example.com",
			RefreshToken: newer.RefreshToken,
		}, nil)

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.Error(t, err)
	})

	t.Run("rejects when the stored token was cleared by logout", func(t *testing.T) {
		pair := issue(t)
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{
			ID:    "user-1",
			Email: "jane@example.com",
		}, nil)

		_, err := svc.Refresh(context.Background(), pair.RefreshToken)
		require.Error(t, err)
	})

	t.Run("rejects an access token presented as refresh", func(t *testing.T) {
		pair := issue(t)
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		_, err := svc.Refresh(context.Background(), pair.AccessToken)

		require.Error(t, err)
		users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("failure modes share one message", func(t *testing.T) {
		pair := issue(t)
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("FindByID", mock.Anything, "user-1").Return(model.User{}, model.ErrUserNotFound)

		_, errGarbage := svc.Refresh(context.Background(), "garbage")
		_, errGone := svc.Refresh(context.Background(), pair.RefreshToken)
		assert.EqualError(t, errGone, errGarbage.Error())
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokens := newTestTokenService(t)

	t.Run("clears the stored token", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		users.On("ClearRefreshTokenByValue", mock.Anything, "some-token").Return(nil)

		err := svc.Logout(context.Background(), "some-token")

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("empty token is a no-op", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(tokens, users)

		err := svc.Logout(context.Background(), "  ")

		assert.NoError(t, err)
		users.AssertNotCalled(t, "ClearRefreshTokenByValue", mock.Anything, mock.Anything)
	})
}
