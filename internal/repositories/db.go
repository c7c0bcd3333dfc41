// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"fmt"
	"time"

	"mcadesk/internal/config"
	"mcadesk/internal/logger"
	"mcadesk/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Merchant{},
		&models.MerchantOwner{},
		&models.Deal{},
		&models.StageHistory{},
		&models.Comment{},
		&models.Document{},
		&models.UnderwritingDecision{},
	}
}

// InitDB opens the PostgreSQL connection, configures the pool and,
// when enabled, migrates the schema.
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	DB = db
	logger.L.Info("PostgreSQL connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Bool("auto_migrate", cfg.AutoMigrate),
	)
	return db, nil
}

// CloseDB closes the underlying connection pool.
func CloseDB(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.L.Warn("failed to get database instance", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.L.Warn("failed to close database connection", zap.Error(err))
	}
}

// ResetDatabase drops and recreates every table.
func ResetDatabase(db *gorm.DB) error {
	tables := Models()
	for i := len(tables) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(tables[i]); err != nil {
			return err
		}
	}
	return db.AutoMigrate(tables...)
}

// newGormLogger routes gorm output through zap and ignores "record not found".
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		logger.GormWriter{},
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
