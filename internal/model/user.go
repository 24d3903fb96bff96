package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthClaims is the verified content of an access or refresh token.
type AuthClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

// TokenPair is what a successful login mints. The refresh token travels in
// an httpOnly cookie, never in the JSON body.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}
