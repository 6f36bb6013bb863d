package config

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://stats.nba.com/stats", cfg.StatsBaseURL)
	assert.Equal(t, 600*time.Millisecond, cfg.StatsRequestInterval)
	assert.Equal(t, 5, cfg.LookbackSeasons)
	assert.True(t, cfg.CatalogActiveOnly)
	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 82, cfg.SeasonGameLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Minute, cfg.CachePicksTTL())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("STATS_REQUEST_INTERVAL", "1s")
	t.Setenv("LOOKBACK_SEASONS", "3")
	t.Setenv("CATALOG_ACTIVE_ONLY", "false")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.StatsRequestInterval)
	assert.Equal(t, 3, cfg.LookbackSeasons)
	assert.False(t, cfg.CatalogActiveOnly)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			DatabasePassword:     "secret",
			StatsRequestInterval: time.Second,
			LookbackSeasons:      5,
			ProgressEvery:        25,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing password", func(c *Config) { c.DatabasePassword = "" }, "DATABASE_PASSWORD"},
		{"zero interval", func(c *Config) { c.StatsRequestInterval = 0 }, "STATS_REQUEST_INTERVAL"},
		{"no seasons", func(c *Config) { c.LookbackSeasons = 0 }, "LOOKBACK_SEASONS"},
		{"negative retries", func(c *Config) { c.RetryAttempts = -1 }, "RETRY_ATTEMPTS"},
		{"zero progress", func(c *Config) { c.ProgressEvery = 0 }, "PROGRESS_EVERY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := Config{
		DatabaseHost:     "db",
		DatabasePort:     5433,
		DatabaseName:     "nba",
		DatabaseUser:     "u",
		DatabasePassword: "p",
		DatabaseSSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5433/nba?sslmode=disable", cfg.DatabaseDSN())
}

func TestDatabaseDSN_EscapesCredentials(t *testing.T) {
	cfg := Config{
		DatabaseHost:     "db",
		DatabasePort:     5432,
		DatabaseName:     "nba",
		DatabaseUser:     "svc@ingest",
		DatabasePassword: "p/ss?w#rd%1:x",
		DatabaseSSLMode:  "require",
	}

	u, err := url.Parse(cfg.DatabaseDSN())
	require.NoError(t, err)

	pass, ok := u.User.Password()
	require.True(t, ok)
	assert.Equal(t, "svc@ingest", u.User.Username())
	assert.Equal(t, "p/ss?w#rd%1:x", pass)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/nba", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}
