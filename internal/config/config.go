// Package config loads application configuration with viper: environment
// variables first, an optional config.yaml second, defaults last.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Log      LogConfig
	Blob     BlobConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string // development, production
	Port string
}

// DatabaseConfig holds the SQLite settings.
type DatabaseConfig struct {
	Path string
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// Expiration returns the token lifetime as a duration.
func (c JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // console, json
}

// BlobConfig selects and configures the media backend.
type BlobConfig struct {
	Backend      string // local, s3
	LocalDir     string
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Load reads configuration from SKILLERY_* environment variables and an
// optional config.yaml in the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "skillery")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.path", "./data/skillery.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expirationhours", 24)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("blob.backend", "local")
	v.SetDefault("blob.localdir", "./data/uploads")
	v.SetDefault("blob.usepathstyle", true)

	v.SetEnvPrefix("SKILLERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.Env == "production" && cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required in production")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-only-secret-change-me"
	}

	return cfg, nil
}
