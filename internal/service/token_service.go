package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-shop-backend/internal/model"
	"go-shop-backend/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenService mints and verifies the session credentials. Access and
// refresh tokens are signed with independent secrets so one kind can never
// pass verification as the other. Verification is stateless; the
// stored-value check for refresh tokens lives in AuthService.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret string, refreshSecret string, accessTTL time.Duration, refreshTTL time.Duration) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssuePair mints a fresh access/refresh token pair for the user.
func (s *TokenService) IssuePair(userID string, email string) (model.TokenPair, error) {
	accessToken, err := s.IssueAccess(userID, email)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.sign(userID, email, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *TokenService) IssueAccess(userID string, email string) (string, error) {
	return s.sign(userID, email, tokenTypeAccess, s.accessSecret, s.accessTTL)
}

// VerifyAccess checks signature, expiry and token type. No database
// lookup: access tokens are valid until they expire.
func (s *TokenService) VerifyAccess(tokenString string) (*model.AuthClaims, error) {
	return s.verify(tokenString, s.accessSecret, tokenTypeAccess)
}

func (s *TokenService) VerifyRefresh(tokenString string) (*model.AuthClaims, error) {
	return s.verify(tokenString, s.refreshSecret, tokenTypeRefresh)
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) sign(userID string, email string, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"typ":   tokenType,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})

	return token.SignedString(secret)
}

// verify rejects every failure mode with the same error so callers cannot
// distinguish a bad signature from an expired or mistyped token.
func (s *TokenService) verify(tokenString string, secret []byte, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errTokenRejected()
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errTokenRejected()
	}

	if typ, _ := claimsMap["typ"].(string); typ != expectedType {
		return nil, errTokenRejected()
	}

	claims := &model.AuthClaims{Type: expectedType}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, errTokenRejected()
	}

	return claims, nil
}

func errTokenRejected() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized)
}
