package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	slog.Info("database ready")

	assetStore, err := asset.NewS3Store(context.Background(), asset.S3Options{
		Region:    cfg.AssetRegion,
		Bucket:    cfg.AssetBucket,
		KeyPrefix: cfg.AssetKeyPrefix,
		Endpoint:  cfg.AssetEndpoint,
		CDNDomain: cfg.AssetCDNDomain,
		AccessKey: cfg.AssetAccessKey,
		SecretKey: cfg.AssetSecretKey,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize asset store: %w", err)
	}

	tokenService, err := service.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	authService := service.NewAuthService(tokenService, userRepo)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	authHandler := handler.NewAuthHandler(authService)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	productService := service.NewProductService(productRepo, cartRepo, assetStore, bus, cfg.ThumbnailSize)
	productHandler := handler.NewProductHandler(productService, cfg.MaxUploadSize)

	cartService := service.NewCartService(cartRepo, productRepo)
	cartHandler := handler.NewCartHandler(cartService)

	healthCheck := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.Health(ctx)
	}

	appRouter := router.New(cfg, authMiddleware, authHandler, productHandler, cartHandler, hub, healthCheck)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
