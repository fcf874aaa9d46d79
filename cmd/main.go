package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "bookingportal/docs"
	"bookingportal/internal/caching"
	"bookingportal/internal/config"
	"bookingportal/internal/handlers"
	"bookingportal/internal/jobs/background"
	"bookingportal/internal/logging"
	"bookingportal/internal/middleware"
	"bookingportal/internal/repositories"
	"bookingportal/internal/servicem8"
	"bookingportal/internal/services"
	"bookingportal/pkg/database"
)

const version = "1.0.0"

// @title Booking Portal API
// @version 1.0
// @description Customer booking portal backed by ServiceM8.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Cache (Redis optional)
	cacheSvc := caching.NewNoopCacheService()
	if cfg.RedisEnabled() {
		cacheSvc = caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := cacheSvc.Ping(ctx); err != nil {
			logger.Warn(ctx, "redis unreachable at startup", "addr", cfg.RedisAddr, "error", err)
		}
	} else {
		logger.Info(ctx, "REDIS_ADDR not set, session cache and login rate limiting disabled")
	}
	defer cacheSvc.Close()

	// Attachment mirror (MinIO optional)
	var store services.AttachmentStore
	if cfg.MinioEnabled() {
		store, err = services.NewMinioAttachmentStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
		if err != nil {
			return fmt.Errorf("failed to create minio client: %w", err)
		}
		if err := store.EnsureBucketExists(ctx); err != nil {
			logger.Warn(ctx, "attachment bucket unavailable, mirroring disabled", "bucket", cfg.MinioBucket, "error", err)
			store = nil
		}
	}

	if cfg.SM8APIKey == "" {
		logger.Warn(ctx, "SM8_API_KEY not set, ServiceM8 calls will be rejected")
	}
	sm8 := servicem8.NewClient(servicem8.Config{
		BaseURL: cfg.SM8BaseURL,
		APIKey:  cfg.SM8APIKey,
		Timeout: cfg.SM8Timeout,
	}, logger.With("component", "servicem8"))

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)
	messageRepo := repositories.NewBookingMessageRepo(pool)

	// Services
	authService := services.NewAuthService(userRepo, sessionRepo, sm8, cacheSvc, services.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTTTL,
		SessionTTL:      cfg.SessionTTL,
		BcryptCost:      cfg.BcryptCost,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	}, logger.With("component", "auth"))
	bookingService := services.NewBookingService(sm8, messageRepo, cfg.SM8FanoutLimit, logger.With("component", "bookings"))
	attachmentService := services.NewAttachmentService(sm8, store, services.DefaultMaxMirrorSize, logger.With("component", "attachments"))

	// Background jobs
	scheduler, err := background.NewJobScheduler(authService, cfg.SessionCleanupInterval, logger.With("component", "scheduler"))
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error(context.Background(), "scheduler shutdown failed", "error", err)
		}
	}()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger.With("component", "http")))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.VersionHeader(version))

	cookies := handlers.CookieConfig{
		Name:     cfg.CookieName,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSite(),
		Domain:   cfg.CookieDomain,
		MaxAge:   cfg.SessionTTL,
	}

	handlers.Routes{
		Auth:         handlers.NewAuthHandlers(authService, cookies, logger),
		Bookings:     handlers.NewBookingHandlers(bookingService, logger),
		Messages:     handlers.NewMessageHandlers(bookingService, logger),
		Attachments:  handlers.NewAttachmentHandlers(attachmentService, logger),
		Health:       handlers.NewHealthHandlers(pool, cacheSvc, store, version),
		SessionAuth:  middleware.SessionAuth(authService, cfg.CookieName, logger),
		SessionToken: middleware.SessionToken(authService, cfg.CookieName),
	}.Register(e)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	serverErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "server starting", "addr", addr, "env", cfg.Env, "version", version)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
