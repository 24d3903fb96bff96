//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	accessToken, refreshCookie := env.signUpAndLogin(t, "jane@example.com", "secret123")

	t.Run("access token opens the shop", func(t *testing.T) {
		resp, _ := env.doJSON(t, http.MethodGet, "/shop/cart", nil, accessToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no token means 401", func(t *testing.T) {
		resp, parsed := env.doJSON(t, http.MethodGet, "/shop/cart", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.NotNil(t, parsed.Error)
		assert.Equal(t, "UNAUTHORIZED", parsed.Error.Code)
	})

	t.Run("refresh cookie mints a new access token", func(t *testing.T) {
		resp, parsed := env.doJSON(t, http.MethodPost, "/auth/refresh-token", nil, "", refreshCookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var refreshed struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(parsed.Data, &refreshed))
		require.NotEmpty(t, refreshed.AccessToken)

		shopResp, _ := env.doJSON(t, http.MethodGet, "/shop/cart", nil, refreshed.AccessToken)
		assert.Equal(t, http.StatusOK, shopResp.StatusCode)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		resp, _ := env.doJSON(t, http.MethodPost, "/auth/logout", nil, "", refreshCookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, parsed := env.doJSON(t, http.MethodPost, "/auth/refresh-token", nil, "", refreshCookie)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.NotNil(t, parsed.Error)
	})
}

func TestAuthValidation(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signup rejects mismatched passwords", func(t *testing.T) {
		resp, parsed := env.doJSON(t, http.MethodPost, "/auth/signup", map[string]string{
			"email":           "jane@example.com",
			"password":        "secret123",
			"passwordConfirm": "different",
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, parsed.Error)
		require.NotEmpty(t, parsed.Error.Fields)
		assert.Equal(t, "passwordConfirm", parsed.Error.Fields[0].Field)
	})

	t.Run("duplicate email fails on the email field", func(t *testing.T) {
		env.signUpAndLogin(t, "taken@example.com", "secret123")

		resp, parsed := env.doJSON(t, http.MethodPost, "/auth/signup", map[string]string{
			"email":           "taken@example.com",
			"password":        "secret123",
			"passwordConfirm": "secret123",
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.NotNil(t, parsed.Error)
		require.NotEmpty(t, parsed.Error.Fields)
		assert.Equal(t, "email", parsed.Error.Fields[0].Field)
	})

	t.Run("wrong password and unknown email answer alike", func(t *testing.T) {
		env.signUpAndLogin(t, "known@example.com", "secret123")

		_, wrongPass := env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "known@example.com",
			"password": "not-the-password",
		}, "")
		_, unknown := env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": "whatever1",
		}, "")

		require.NotNil(t, wrongPass.Error)
		require.NotNil(t, unknown.Error)
		assert.Equal(t, unknown.Error.Code, wrongPass.Error.Code)
		assert.Equal(t, unknown.Error.Message, wrongPass.Error.Message)
	})
}
