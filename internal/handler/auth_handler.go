package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-shop-backend/internal/model"
	"go-shop-backend/internal/service"
	"go-shop-backend/pkg/apierror"
)

// refreshCookieName is the cookie the refresh token travels in. The
// access token is the client's problem; the refresh token never leaves
// the cookie jar.
const refreshCookieName = "refreshToken"

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errInvalidJSON())
		return
	}

	if err := validateStruct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.SignUp(r.Context(), payload.Email, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"message": "user created"}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, errInvalidJSON())
		return
	}

	if err := validateStruct(payload); err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, model.LoginResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
	}, nil)
}

// Refresh swaps the cookie's refresh token for a new access token. The
// cookie itself is left alone.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, apierror.New("UNAUTHORIZED", "invalid refresh token", "", http.StatusUnauthorized))
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.RefreshResponse{AccessToken: accessToken}, nil)
}

// Logout revokes the stored refresh token and drops the cookie. Succeeds
// even without a cookie so a confused client can always log out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}

	h.clearRefreshCookie(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.service.RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func errInvalidJSON() *apierror.APIError {
	return apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
}
