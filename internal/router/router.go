package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-shop-backend/internal/config"
	"go-shop-backend/internal/handler"
	"go-shop-backend/internal/middleware"
	"go-shop-backend/internal/websocket"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	hub *websocket.Hub,
	healthCheck func() error,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if healthCheck != nil {
			if err := healthCheck(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unhealthy"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The socket feed stays outside the timeout handler: the connection
	// is long-lived and the timeout wrapper would break hijacking.
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWS(hub, w, r)
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Use(middleware.Timeout(cfg.RequestTimeout))
		auth.Post("/signup", authHandler.SignUp)
		auth.Post("/login", authHandler.Login)
		auth.Post("/logout", authHandler.Logout)
		auth.Post("/refresh-token", authHandler.Refresh)
	})

	r.Route("/shop", func(shop chi.Router) {
		shop.Use(middleware.Timeout(cfg.RequestTimeout))
		shop.Use(authMiddleware.RequireAuth)

		shop.Get("/products", productHandler.List)
		shop.Post("/products", productHandler.Create)
		shop.Get("/products/{id}", productHandler.Get)
		shop.Put("/products/{id}", productHandler.Update)
		shop.Delete("/products/{id}", productHandler.Delete)

		shop.Get("/cart", cartHandler.Get)
		shop.Post("/cart", cartHandler.Add)
		shop.Put("/cart", cartHandler.Adjust)
		shop.Delete("/cart", cartHandler.Remove)
	})

	return r
}
