package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-shop-backend/internal/model"
	"go-shop-backend/pkg/apierror"
)

// UserStore is the slice of the user repository AuthService needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	SetRefreshToken(ctx context.Context, userID string, token string) error
	ClearRefreshTokenByValue(ctx context.Context, token string) error
}

type AuthService struct {
	tokens *TokenService
	users  UserStore
}

func NewAuthService(tokens *TokenService, users UserStore) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// SignUp registers a new user with an empty cart. A taken email surfaces
// as a field-level validation failure, same shape as the other input
// checks performed at the boundary.
func (s *AuthService) SignUp(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return apierror.Validation(apierror.FieldError{Field: "email", Message: "email is already registered"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies the credentials and mints a token pair. The refresh token
// is persisted on the user row, replacing any prior value: one active
// session per user. Unknown email and wrong password produce the exact
// same error.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.TokenPair{}, errBadCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, errBadCredentials()
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return model.TokenPair{}, err
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new access token. Beyond the
// signature and expiry check the presented token must equal the value
// stored on the user row; a mismatch, a cleared value and a deleted user
// are all reported identically so a caller learns nothing about which
// check failed. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", errRefreshRejected()
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", errRefreshRejected()
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return "", errRefreshRejected()
	}

	return s.tokens.IssueAccess(user.ID, user.Email)
}

// RefreshTTL exposes the refresh token lifetime so the transport layer
// can give the cookie a matching max age.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

// Logout revokes the refresh token by clearing the stored value. Always
// succeeds from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.users.ClearRefreshTokenByValue(ctx, refreshToken)
}

func errBadCredentials() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "invalid email or password", "", http.StatusUnauthorized)
}

func errRefreshRejected() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "invalid refresh token", "", http.StatusUnauthorized)
}
