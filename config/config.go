package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Recalls   RecallsConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Favorites FavoritesConfig
	Watch     WatchConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RecallsConfig holds recall feed configuration
type RecallsConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Limit         int           `mapstructure:"limit"`        // Records per exact or text query
	LatestLimit   int           `mapstructure:"latest_limit"` // Records for the recent recalls view
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
}

// CatalogConfig holds product catalog configuration
type CatalogConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Country       string        `mapstructure:"country"`
	PageSize      int           `mapstructure:"page_size"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // Requests per minute per client IP
}

// FavoritesConfig holds favorites storage configuration
type FavoritesConfig struct {
	Driver string `mapstructure:"driver"` // "badger" or "sqlite"
	Path   string `mapstructure:"path"`
}

// WatchConfig holds favorites watch loop configuration
type WatchConfig struct {
	Interval    time.Duration `mapstructure:"interval"` // 0 disables the scheduler
	Concurrency int           `mapstructure:"concurrency"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/rappelscan/")

	// RAPPELSCAN_RECALLS_BASE_URL -> recalls.base_url
	v.SetEnvPrefix("RAPPELSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the environment without overriding variables that
// are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default so that
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("recalls.base_url", "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/rappelconso-v2-gtin-trie")
	v.SetDefault("recalls.limit", 20)
	v.SetDefault("recalls.latest_limit", 100)
	v.SetDefault("recalls.rate_per_second", 5.0)
	v.SetDefault("recalls.burst", 10)
	v.SetDefault("recalls.timeout", "15s")
	v.SetDefault("recalls.max_retries", 3)

	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.country", "France")
	v.SetDefault("catalog.page_size", 50)
	v.SetDefault("catalog.rate_per_second", 2.0)
	v.SetDefault("catalog.burst", 5)
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.max_retries", 2)
	v.SetDefault("catalog.user_agent", "RappelScan/1.0 (contact@rappelscan.fr)")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "15m")

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("favorites.driver", "badger")
	v.SetDefault("favorites.path", "./data/favorites")

	v.SetDefault("watch.interval", "6h")
	v.SetDefault("watch.concurrency", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Recalls.BaseURL == "" {
		return fmt.Errorf("recall feed base URL is required (set RAPPELSCAN_RECALLS_BASE_URL)")
	}

	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required (set RAPPELSCAN_CATALOG_BASE_URL)")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Favorites.Driver != "badger" && config.Favorites.Driver != "sqlite" {
		return fmt.Errorf("favorites driver must be 'badger' or 'sqlite', got: %s", config.Favorites.Driver)
	}

	if config.Favorites.Path == "" {
		return fmt.Errorf("favorites path is required (set RAPPELSCAN_FAVORITES_PATH)")
	}

	if config.Watch.Concurrency <= 0 {
		return fmt.Errorf("watch concurrency must be positive, got: %d", config.Watch.Concurrency)
	}

	if config.Watch.Interval < 0 {
		return fmt.Errorf("watch interval must not be negative, got: %s", config.Watch.Interval)
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
