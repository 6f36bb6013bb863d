package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// stats.nba.com
	StatsBaseURL         string        `envconfig:"STATS_BASE_URL" default:"https://stats.nba.com/stats"`
	StatsTimeout         time.Duration `envconfig:"STATS_TIMEOUT" default:"30s"`
	StatsRequestInterval time.Duration `envconfig:"STATS_REQUEST_INTERVAL" default:"600ms"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nba_betting"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"postgres"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Ingestion
	LookbackSeasons      int           `envconfig:"LOOKBACK_SEASONS" default:"5"`
	CatalogActiveOnly    bool          `envconfig:"CATALOG_ACTIVE_ONLY" default:"true"`
	ProgressEvery        int           `envconfig:"PROGRESS_EVERY" default:"25"`
	RetryAttempts        int           `envconfig:"RETRY_ATTEMPTS" default:"2"`
	RetryInitialInterval time.Duration `envconfig:"RETRY_INITIAL_INTERVAL" default:"2s"`
	SeasonGameLimit      int           `envconfig:"SEASON_GAME_LIMIT" default:"82"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	IngestCron         string `envconfig:"INGEST_CRON" default:"0 6 * * *"`

	// API
	APIPort       int      `envconfig:"API_PORT" default:"5000"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	CacheTTLPicks int      `envconfig:"CACHE_TTL_PICKS" default:"600"` // 10 minutes
	PropsLimit    int      `envconfig:"PROPS_LIMIT" default:"50"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.StatsRequestInterval <= 0 {
		return fmt.Errorf("STATS_REQUEST_INTERVAL must be positive")
	}

	if c.LookbackSeasons < 1 {
		return fmt.Errorf("LOOKBACK_SEASONS must be at least 1")
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("RETRY_ATTEMPTS cannot be negative")
	}

	if c.ProgressEvery < 1 {
		return fmt.Errorf("PROGRESS_EVERY must be at least 1")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection URL with credentials escaped
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     net.JoinHostPort(c.DatabaseHost, strconv.Itoa(c.DatabasePort)),
		Path:     "/" + c.DatabaseName,
		RawQuery: url.Values{"sslmode": {c.DatabaseSSLMode}}.Encode(),
	}
	return u.String()
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// CachePicksTTL returns the picks cache lifetime
func (c *Config) CachePicksTTL() time.Duration {
	return time.Duration(c.CacheTTLPicks) * time.Second
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
