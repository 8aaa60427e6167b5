// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/angelamos/wholesale-api/internal/admin"
	"github.com/angelamos/wholesale-api/internal/audit"
	"github.com/angelamos/wholesale-api/internal/auth"
	"github.com/angelamos/wholesale-api/internal/config"
	"github.com/angelamos/wholesale-api/internal/core"
	"github.com/angelamos/wholesale-api/internal/health"
	"github.com/angelamos/wholesale-api/internal/metrics"
	"github.com/angelamos/wholesale-api/internal/middleware"
	"github.com/angelamos/wholesale-api/internal/order"
	"github.com/angelamos/wholesale-api/internal/product"
	"github.com/angelamos/wholesale-api/internal/rbac"
	"github.com/angelamos/wholesale-api/internal/server"
	"github.com/angelamos/wholesale-api/internal/user"
)

const drainDelay = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(configPath)
	},
}

//nolint:funlen // bootstrap code is inherently verbose
func runServe(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	auditRepo := audit.NewRepository(db.DB)
	auditSvc := audit.NewService(auditRepo, logger)
	auditHandler := audit.NewHandler(auditSvc)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, auditSvc)
	userHandler := user.NewHandler(userSvc)

	rbacRepo := rbac.NewRepository(db.DB)
	rbacSvc := rbac.NewService(rbacRepo, userSvc, auditSvc)
	rbacHandler := rbac.NewHandler(rbacSvc)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, userSvc, jwtManager, auditSvc, logger)
	authHandler := auth.NewHandler(authSvc)

	productRepo := product.NewRepository(db.DB)
	orderRepo := order.NewRepository(db.DB, productRepo)
	orderSvc := order.NewService(orderRepo, auditSvc)
	orderHandler := order.NewHandler(orderSvc)

	healthHandler := health.NewHandler(db, redis, cfg.App.Version)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(metrics.Instrument)
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Handle("/metrics", metrics.Handler())
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authenticator := middleware.Authenticator(jwtManager, authSvc)
	signatureAuth := middleware.SignatureAuthenticator(jwtManager)
	permit := func(resource, action string) func(http.Handler) http.Handler {
		return middleware.RequirePermission(rbacSvc, resource, action)
	}

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, signatureAuth)
		userHandler.RegisterRoutes(
			r, authenticator, permit, rbacHandler.UserRoutes(permit))
		rbacHandler.RegisterRoutes(r, authenticator, permit)
		orderHandler.RegisterRoutes(r, authenticator, permit)
		auditHandler.RegisterRoutes(
			r, authenticator, permit("audit_logs", "read"))
		adminHandler.RegisterRoutes(
			r, authenticator, permit("system", "read"))
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
