//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-shop-backend/internal/asset"
	"go-shop-backend/internal/config"
	"go-shop-backend/internal/database"
	"go-shop-backend/internal/event"
	"go-shop-backend/internal/handler"
	"go-shop-backend/internal/middleware"
	"go-shop-backend/internal/repository"
	"go-shop-backend/internal/router"
	"go-shop-backend/internal/service"
	"go-shop-backend/internal/websocket"
)

// memAssetStore stands in for the S3 bucket so the suite only needs a
// database.
type memAssetStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemAssetStore() *memAssetStore {
	return &memAssetStore{objects: map[string][]byte{}}
}

func (s *memAssetStore) Upload(_ context.Context, ext string, _ string, body io.Reader) (asset.Stored, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return asset.Stored{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := "products/" + uuid.NewString() + ext
	s.objects[key] = data
	return asset.Stored{Key: key, URL: "https://assets.test/" + key}, nil
}

func (s *memAssetStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memAssetStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type testEnv struct {
	server *httptest.Server
	assets *memAssetStore
	bus    *event.InMemoryBus
}

// newTestEnv wires the full HTTP stack against the database named by
// TEST_DATABASE_URL and wipes the tables so every test starts clean.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 5, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, "TRUNCATE users, products, cart_items CASCADE")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db.Pool)
	productRepo := repository.NewProductRepository(db.Pool)
	cartRepo := repository.NewCartRepository(db.Pool)

	tokens, err := service.NewTokenService("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(tokens, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(tokens)
	authHandler := handler.NewAuthHandler(authService)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	assets := newMemAssetStore()
	productService := service.NewProductService(productRepo, cartRepo, assets, bus, 64)
	productHandler := handler.NewProductHandler(productService, 10<<20)

	cartService := service.NewCartService(cartRepo, productRepo)
	cartHandler := handler.NewCartHandler(cartService)

	cfg := &config.Config{
		RequestTimeout:   30 * time.Second,
		RateLimitRPM:     0,
		AuthRateLimitRPM: 10000,
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware, authHandler, productHandler, cartHandler, hub, nil))
	t.Cleanup(server.Close)

	return &testEnv{server: server, assets: assets, bus: bus}
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"fields"`
	} `json:"error"`
	Meta *struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func (env *testEnv) doJSON(t *testing.T, method string, path string, payload any, accessToken string, cookies ...*http.Cookie) (*http.Response, apiResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, env.server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

// signUpAndLogin registers a fresh user and returns the access token plus
// the refresh cookie the login set.
func (env *testEnv) signUpAndLogin(t *testing.T, email string, password string) (string, *http.Cookie) {
	t.Helper()

	resp, _ := env.doJSON(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":           email,
		"password":        password,
		"passwordConfirm": password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, parsed := env.doJSON(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &login))
	require.NotEmpty(t, login.AccessToken)

	var refreshCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "refreshToken" {
			refreshCookie = cookie
		}
	}
	require.NotNil(t, refreshCookie, "login must set the refreshToken cookie")

	return login.AccessToken, refreshCookie
}

func testPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16))))
	return buf.Bytes()
}

// createProduct posts a multipart product form and returns the created
// product's id.
func (env *testEnv) createProduct(t *testing.T, accessToken string, title string, price float64) string {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("title", title))
	require.NoError(t, form.WriteField("price", fmt.Sprintf("%.2f", price)))
	require.NoError(t, form.WriteField("description", "integration test product"))

	part, err := form.CreateFormFile("image", "product.png")
	require.NoError(t, err)
	_, err = part.Write(testPNG(t))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/shop/products", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create product: %+v", parsed.Error)

	var product struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(parsed.Data, &product))
	require.NotEmpty(t, product.ID)
	return product.ID
}
