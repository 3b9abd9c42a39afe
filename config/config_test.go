package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs Load from an empty directory so no config.yaml or .env is picked up
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func validConfig() *Config {
	return &Config{
		Recalls:   RecallsConfig{BaseURL: "https://feed.example.com"},
		Catalog:   CatalogConfig{BaseURL: "https://catalog.example.com"},
		Cache:     CacheConfig{Type: "memory"},
		Favorites: FavoritesConfig{Driver: "badger", Path: "./data"},
		Watch:     WatchConfig{Interval: time.Hour, Concurrency: 2},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/rappelconso-v2-gtin-trie", cfg.Recalls.BaseURL)
		assert.Equal(t, 20, cfg.Recalls.Limit)
		assert.Equal(t, 100, cfg.Recalls.LatestLimit)
		assert.Equal(t, 15*time.Second, cfg.Recalls.Timeout)
		assert.Equal(t, "https://world.openfoodfacts.org", cfg.Catalog.BaseURL)
		assert.Equal(t, "France", cfg.Catalog.Country)
		assert.Equal(t, 50, cfg.Catalog.PageSize)
		assert.Equal(t, "memory", cfg.Cache.Type)
		assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
		assert.Equal(t, 100, cfg.RateLimit.PerIP)
		assert.Equal(t, "badger", cfg.Favorites.Driver)
		assert.Equal(t, 6*time.Hour, cfg.Watch.Interval)
		assert.Equal(t, 4, cfg.Watch.Concurrency)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("RAPPELSCAN_SERVER_PORT", "9090")
		t.Setenv("RAPPELSCAN_SERVER_ENVIRONMENT", "production")
		t.Setenv("RAPPELSCAN_RECALLS_BASE_URL", "https://feed.example.com")
		t.Setenv("RAPPELSCAN_RECALLS_LIMIT", "10")
		t.Setenv("RAPPELSCAN_CATALOG_COUNTRY", "Belgique")
		t.Setenv("RAPPELSCAN_CACHE_TTL", "1h")
		t.Setenv("RAPPELSCAN_RATELIMIT_PER_IP", "200")
		t.Setenv("RAPPELSCAN_FAVORITES_DRIVER", "sqlite")
		t.Setenv("RAPPELSCAN_FAVORITES_PATH", "/tmp/favorites.db")
		t.Setenv("RAPPELSCAN_WATCH_INTERVAL", "30m")
		t.Setenv("RAPPELSCAN_WATCH_CONCURRENCY", "8")
		t.Setenv("RAPPELSCAN_LOG_LEVEL", "debug")
		t.Setenv("RAPPELSCAN_LOG_FORMAT", "json")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "production", cfg.Server.Environment)
		assert.Equal(t, "https://feed.example.com", cfg.Recalls.BaseURL)
		assert.Equal(t, 10, cfg.Recalls.Limit)
		assert.Equal(t, "Belgique", cfg.Catalog.Country)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
		assert.Equal(t, 200, cfg.RateLimit.PerIP)
		assert.Equal(t, "sqlite", cfg.Favorites.Driver)
		assert.Equal(t, "/tmp/favorites.db", cfg.Favorites.Path)
		assert.Equal(t, 30*time.Minute, cfg.Watch.Interval)
		assert.Equal(t, 8, cfg.Watch.Concurrency)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("reads config.yaml from the working directory", func(t *testing.T) {
		isolate(t)
		yaml := "catalog:\n  country: Suisse\nwatch:\n  concurrency: 2\n"
		require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Suisse", cfg.Catalog.Country)
		assert.Equal(t, 2, cfg.Watch.Concurrency)
	})

	t.Run("fails validation for unknown favorites driver", func(t *testing.T) {
		isolate(t)
		t.Setenv("RAPPELSCAN_FAVORITES_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "favorites driver")
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		isolate(t)
		t.Setenv("RAPPELSCAN_CACHE_TYPE", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cache type")
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		isolate(t)
		assert.NoError(t, loadEnvFile())
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		isolate(t)
		envContent := "# Comment line\nRAPPELSCAN_TEST_VAR_1=value1\n\nRAPPELSCAN_TEST_VAR_2=value2\n"
		require.NoError(t, os.WriteFile(".env", []byte(envContent), 0o644))
		t.Cleanup(func() {
			os.Unsetenv("RAPPELSCAN_TEST_VAR_1")
			os.Unsetenv("RAPPELSCAN_TEST_VAR_2")
		})

		require.NoError(t, loadEnvFile())
		assert.Equal(t, "value1", os.Getenv("RAPPELSCAN_TEST_VAR_1"))
		assert.Equal(t, "value2", os.Getenv("RAPPELSCAN_TEST_VAR_2"))
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("RAPPELSCAN_TEST_OVERRIDE", "existing-value")
		require.NoError(t, os.WriteFile(".env", []byte("RAPPELSCAN_TEST_OVERRIDE=new-value"), 0o644))

		require.NoError(t, loadEnvFile())
		assert.Equal(t, "existing-value", os.Getenv("RAPPELSCAN_TEST_OVERRIDE"))
	})

	t.Run(".env values feed Load", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".env", []byte("RAPPELSCAN_SERVER_PORT=7070"), 0o644))
		t.Cleanup(func() { os.Unsetenv("RAPPELSCAN_SERVER_PORT") })

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "sqlite driver", mutate: func(c *Config) { c.Favorites.Driver = "sqlite" }},
		{name: "scheduler disabled", mutate: func(c *Config) { c.Watch.Interval = 0 }},
		{name: "missing feed URL", mutate: func(c *Config) { c.Recalls.BaseURL = "" }, wantErr: "recall feed base URL"},
		{name: "missing catalog URL", mutate: func(c *Config) { c.Catalog.BaseURL = "" }, wantErr: "catalog base URL"},
		{name: "unknown cache", mutate: func(c *Config) { c.Cache.Type = "redis" }, wantErr: "cache type"},
		{name: "unknown driver", mutate: func(c *Config) { c.Favorites.Driver = "mongo" }, wantErr: "favorites driver"},
		{name: "empty path", mutate: func(c *Config) { c.Favorites.Path = "" }, wantErr: "favorites path"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Watch.Concurrency = 0 }, wantErr: "watch concurrency"},
		{name: "negative interval", mutate: func(c *Config) { c.Watch.Interval = -time.Second }, wantErr: "watch interval"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: "log level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
