package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"mcadesk/internal/config"
	apperrors "mcadesk/internal/errors"
	"mcadesk/internal/logger"
	"mcadesk/internal/models"
	"mcadesk/internal/repositories"
	"mcadesk/internal/repositories/cache"
	"mcadesk/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	reset := flag.Bool("reset", false, "drop and recreate every table before seeding")
	flag.Parse()

	envErr := config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := logger.Init(cfg.Logging.Level, "console"); err != nil {
		fatal("failed to initialise logger", err)
	}
	defer logger.Sync()
	log := logger.L
	if envErr != nil {
		log.Debug("no .env file loaded", zap.Error(envErr))
	}

	adminEmail := config.GetEnv("ADMIN_EMAIL", "")
	adminPassword := config.GetEnv("ADMIN_PASSWORD", "")
	adminName := config.GetEnv("ADMIN_NAME", "Administrator")

	v := validation.New()
	v.Email("ADMIN_EMAIL", adminEmail)
	v.Password("ADMIN_PASSWORD", adminPassword)
	if err := v.Err(); err != nil {
		fatal("invalid admin credentials", err)
	}

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer repositories.CloseDB(db)

	if *reset {
		if err := repositories.ResetDatabase(db); err != nil {
			fatal("failed to reset database", err)
		}
		log.Warn("database reset")
		flushCache(cfg, log)
	}

	ctx := context.Background()
	users := repositories.NewUserRepository(db)

	if _, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Info("admin user already exists", zap.String("email", adminEmail))
		return
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		fatal("failed to look up admin user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), config.GetIntEnv("BCRYPT_COST", bcrypt.DefaultCost))
	if err != nil {
		fatal("failed to hash password", err)
	}

	admin := &models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         adminName,
		Role:         models.RoleAdmin,
		Status:       "active",
		TokenVersion: 1,
	}
	if err := users.Create(ctx, admin); err != nil {
		fatal("failed to create admin user", err)
	}

	log.Info("admin account created", zap.Uint("user_id", admin.ID), zap.String("email", admin.Email))
}

// flushCache drops cached deals that no longer exist after a reset.
func flushCache(cfg *config.Config, log *zap.Logger) {
	if !cfg.Redis.Enabled {
		return
	}
	ctx := context.Background()
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, cache not flushed", zap.Error(err))
		return
	}
	svc := cache.NewCacheService(client, cfg.Redis.DealTTL)
	defer svc.Close()

	if err := svc.FlushAll(ctx); err != nil {
		log.Warn("failed to flush redis cache", zap.Error(err))
		return
	}
	log.Info("redis cache flushed")
}

func fatal(msg string, err error) {
	logger.L.Error(msg, zap.Error(err))
	logger.Sync()
	os.Exit(1)
}
