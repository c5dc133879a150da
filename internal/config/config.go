// Package config loads application configuration from flags, environment
// variables, and a .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Auth    AuthConfig
	Data    DataConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	PublicURL    string // Base URL clients reach the server at.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AuthConfig holds authentication configuration.
// The PASETO signing key itself is loaded or generated at startup from the
// data directory, not from configuration.
type AuthConfig struct {
	AccessTokenDuration time.Duration
}

// DataConfig holds relational storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the SQLite database and signing keys.
	BasePath string
}

// StorageConfig holds object storage configuration for offer images.
type StorageConfig struct {
	// BasePath is the directory holding uploaded image objects.
	BasePath string
	// TempPrefix marks keys in the temporary, garbage-collected namespace.
	TempPrefix string
	// PresignTTL is how long a signed upload URL stays valid.
	PresignTTL time.Duration
	// TempObjectTTL is how long an unpromoted temporary object survives
	// before the cleanup sweep removes it.
	TempObjectTTL time.Duration
}

// Load reads configuration with precedence: flags > env vars > .env > defaults.
func Load() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")
	storagePath := flag.String("storage-path", "", "Base path for image object storage")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	publicURL := flag.String("public-url", "", "Public base URL of the server")
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")
	presignTTL := flag.String("presign-ttl", "", "Signed upload URL lifetime (default: 15m)")
	tempObjectTTL := flag.String("temp-object-ttl", "", "Temporary image lifetime before cleanup (default: 24h)")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env if present; real env vars keep precedence.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:      getValue(*serverPort, "SERVER_PORT", "8080"),
			PublicURL: getValue(*publicURL, "SERVER_PUBLIC_URL", "http://localhost:8080"),
		},
		Data: DataConfig{
			BasePath: getValue(*dataPath, "DATA_PATH", ""),
		},
		Storage: StorageConfig{
			BasePath:   getValue(*storagePath, "STORAGE_PATH", ""),
			TempPrefix: getValue("", "STORAGE_TEMP_PREFIX", "pre-"),
		},
	}

	var err error
	if cfg.Auth.AccessTokenDuration, err = parseDuration(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h"); err != nil {
		return nil, err
	}
	if cfg.Storage.PresignTTL, err = parseDuration(*presignTTL, "STORAGE_PRESIGN_TTL", "15m"); err != nil {
		return nil, err
	}
	if cfg.Storage.TempObjectTTL, err = parseDuration(*tempObjectTTL, "STORAGE_TEMP_OBJECT_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = parseDuration("", "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDuration("", "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDuration("", "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}
	if c.Storage.BasePath == "" {
		return errors.New("storage base path cannot be empty after expansion")
	}
	if c.Storage.TempPrefix == "" {
		return errors.New("storage temp prefix cannot be empty")
	}

	return nil
}

// expandPaths resolves ~ and relative paths, applying defaults under the
// user's home directory.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.Data.BasePath, err = expandPath(c.Data.BasePath, filepath.Join(homeDir, "Oferta", "data"))
	if err != nil {
		return fmt.Errorf("invalid data path: %w", err)
	}

	c.Storage.BasePath, err = expandPath(c.Storage.BasePath, filepath.Join(c.Data.BasePath, "images"))
	if err != nil {
		return fmt.Errorf("invalid storage path: %w", err)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute. An empty path takes the
// default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getValue returns the first non-empty value from flag, env var, or default.
func getValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// parseDuration resolves a duration setting from flag, env var, or default.
func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
}
