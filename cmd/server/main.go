// Package main is the entry point of the deal workflow API.
// It loads configuration, connects to PostgreSQL and Redis, sets up the
// HTTP server and shuts it down gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mcadesk/internal/config"
	"mcadesk/internal/logger"
	"mcadesk/internal/metrics"
	"mcadesk/internal/repositories"
	"mcadesk/internal/repositories/cache"
	"mcadesk/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		logger.L.Error("server stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	envErr := config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	log := logger.L
	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer repositories.CloseDB(db)

	ctx := context.Background()
	var cacheService *cache.CacheService
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			// Redis is optional; reads fall through to PostgreSQL.
			log.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			cacheService = cache.NewCacheService(client, cfg.Redis.DealTTL)
			defer func() {
				if err := cacheService.Close(); err != nil {
					log.Warn("failed to close redis connection", zap.Error(err))
				}
			}()
			log.Info("Redis connected", zap.String("address", cfg.Redis.Address))
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        cfg.HTTP.LoginRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	routes.SetupRoutes(app, routes.Dependencies{
		DB:      db,
		Config:  cfg,
		Cache:   cacheService,
		Metrics: metrics.NewCollector(prometheus.DefaultRegisterer),
		Logger:  log,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + strconv.Itoa(cfg.HTTP.Port)
		log.Info("HTTP server listening", zap.String("addr", addr), zap.String("environment", cfg.App.Environment))
		errCh <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
