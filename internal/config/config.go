// Package config provides configuration management using Viper.
// It loads configuration from environment variables, .env files, and config
// files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerPort         = 8080
	defaultServerHost         = "0.0.0.0"
	defaultReadTimeout        = 30 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultDatabasePath       = "./data/marquee.db"
	defaultLogLevel           = "info"
	defaultLogPretty          = false
	defaultLogMaxSizeMB       = 50
	defaultLogMaxBackups      = 3
	defaultCatalogBaseURL     = "http://localhost:9000"
	defaultCatalogTimeout     = 10 * time.Second
	defaultCatalogRefreshWait = 6 * time.Hour
	defaultStreamHost         = "localhost:9000"
	envPrefix                 = "MARQUEE"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Catalog  CatalogConfig
	Stream   StreamConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration. A non-empty File enables
// rotated file output alongside stdout.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// CatalogConfig holds upstream catalog API configuration
type CatalogConfig struct {
	BaseURL         string
	Timeout         time.Duration
	RefreshInterval time.Duration
}

// StreamConfig holds streaming host configuration
type StreamConfig struct {
	Host string
}

// Load reads configuration from .env file, config files, environment
// variables, and defaults
func Load() (*Config, error) {
	// .env files are optional in production and CI where env vars are set
	// directly
	_ = godotenv.Load() // nolint:errcheck // .env file is optional

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/marquee")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
		// No config file is fine, defaults and env vars apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.host", defaultServerHost)
	v.SetDefault("server.readtimeout", defaultReadTimeout)
	v.SetDefault("server.writetimeout", defaultWriteTimeout)

	v.SetDefault("database.path", defaultDatabasePath)

	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.pretty", defaultLogPretty)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.maxsizemb", defaultLogMaxSizeMB)
	v.SetDefault("logging.maxbackups", defaultLogMaxBackups)

	v.SetDefault("catalog.baseurl", defaultCatalogBaseURL)
	v.SetDefault("catalog.timeout", defaultCatalogTimeout)
	v.SetDefault("catalog.refreshinterval", defaultCatalogRefreshWait)

	v.SetDefault("stream.host", defaultStreamHost)
}

// Validate checks that configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("invalid read timeout: %v (must be > 0)", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("invalid write timeout: %v (must be > 0)", c.Server.WriteTimeout)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.Logging.Level, strings.Join(validLevels, ", "))
	}

	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL must not be empty")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("invalid catalog timeout: %v (must be > 0)", c.Catalog.Timeout)
	}
	if c.Catalog.RefreshInterval <= 0 {
		return fmt.Errorf("invalid catalog refresh interval: %v (must be > 0)", c.Catalog.RefreshInterval)
	}

	if c.Stream.Host == "" {
		return fmt.Errorf("stream host must not be empty")
	}

	return nil
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
