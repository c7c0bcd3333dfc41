package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const insecureSecret = "change-me"

var defaults = map[string]interface{}{
	"app.name":                    "mcadesk",
	"app.environment":             "development",
	"http.port":                   3000,
	"http.allow_origins":          "http://localhost:5173",
	"http.login_rate_limit":       5,
	"http.shutdown_timeout":       10 * time.Second,
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "postgres",
	"database.name":               "mcadesk",
	"database.sslmode":            "disable",
	"database.max_idle_conns":     10,
	"database.max_open_conns":     100,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,
	"database.auto_migrate":       true,
	"redis.enabled":               true,
	"redis.address":               "localhost:6379",
	"redis.password":              "",
	"redis.db":                    0,
	"redis.deal_ttl":              5 * time.Minute,
	"auth.jwt_secret":             insecureSecret,
	"auth.access_token_ttl":       15 * time.Minute,
	"auth.refresh_token_ttl":      7 * 24 * time.Hour,
	"auth.issuer":                 "mcadesk-api",
	"logging.level":               "info",
	"logging.format":              "json",
}

// Load reads an optional config.yaml and environment overrides such as
// DATABASE_HOST or AUTH_JWT_SECRET, in increasing precedence. Call LoadEnv
// first to populate the environment from .env.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", cfg.HTTP.Port)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if cfg.App.IsProduction() && cfg.Auth.JWTSecret == insecureSecret {
		return errors.New("auth.jwt_secret must be set in production")
	}
	if cfg.Auth.AccessTokenTTL <= 0 || cfg.Auth.RefreshTokenTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	return nil
}
