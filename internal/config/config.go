package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Primary provider (The Odds API). Checked at run time, not at load,
	// so a missing key surfaces as a failed grading run.
	OddsAPIKey      string `envconfig:"ODDS_API_KEY"`
	OddsAPIBaseURL  string `envconfig:"ODDS_API_BASE_URL" default:"https://api.the-odds-api.com/v4"`
	OddsAPIDaysFrom int    `envconfig:"ODDS_API_DAYS_FROM" default:"3"`

	// ESPN (no auth)
	ESPNBaseURL string `envconfig:"ESPN_BASE_URL" default:"https://site.api.espn.com/apis/site/v2/sports"`
	ESPNEnabled bool   `envconfig:"ESPN_ENABLED" default:"true"`

	// SportsDataIO
	SportsDataAPIKey  string `envconfig:"SPORTSDATA_API_KEY"`
	SportsDataBaseURL string `envconfig:"SPORTSDATA_BASE_URL" default:"https://api.sportsdata.io/v3"`

	// CollegeFootballData / CollegeBasketballData
	CFBDAPIKey  string `envconfig:"CFBD_API_KEY"`
	CFBDBaseURL string `envconfig:"CFBD_BASE_URL" default:"https://api.collegefootballdata.com"`
	CBBDBaseURL string `envconfig:"CBBD_BASE_URL" default:"https://api.collegebasketballdata.com"`

	// TheSportsDB (free key "3" is used when unset)
	SportsDBAPIKey  string `envconfig:"SPORTSDB_API_KEY" default:"3"`
	SportsDBBaseURL string `envconfig:"SPORTSDB_BASE_URL" default:"https://www.thesportsdb.com/api/v1/json"`
	SportsDBEnabled bool   `envconfig:"SPORTSDB_ENABLED" default:"true"`

	// Provider behaviour
	ProviderTimeout    time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"8s"`
	ProviderRatePerMin int           `envconfig:"PROVIDER_RATE_PER_MIN" default:"60"`
	ProviderBurst      int           `envconfig:"PROVIDER_BURST" default:"5"`
	Leagues            []string      `envconfig:"LEAGUES" default:"nba,ncaab,nfl,ncaaf,nhl"`
	AlwaysSupplement   []string      `envconfig:"ALWAYS_SUPPLEMENT" default:"ncaab,ncaaf"`
	MaxParallelLeagues int           `envconfig:"MAX_PARALLEL_LEAGUES" default:"5"`
	ReferenceTZ        string        `envconfig:"REFERENCE_TZ" default:"America/New_York"`
	AliasesFile        string        `envconfig:"ALIASES_FILE" default:""`

	// Job budget
	JobTimeout     time.Duration `envconfig:"JOB_TIMEOUT" default:"25s"`
	PersistTimeout time.Duration `envconfig:"PERSIST_TIMEOUT" default:"10s"`

	// Prediction store
	PicksBaseURL string `envconfig:"PICKS_BASE_URL" default:""`
	PicksToken   string `envconfig:"PICKS_TOKEN" default:""`
	PicksDir     string `envconfig:"PICKS_DIR" default:"./predictions"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"greenbier"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"greenbier_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`
	AutoMigrate      bool   `envconfig:"AUTO_MIGRATE" default:"false"`

	// Redis (optional provider result cache)
	RedisEnabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"6h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     int    `envconfig:"PORT" default:"8080"`

	// Trigger auth
	CronSecret           string `envconfig:"CRON_SECRET" default:""`
	SchedulerHeader      string `envconfig:"SCHEDULER_HEADER" default:"X-Scheduler-Trigger"`
	SchedulerHeaderValue string `envconfig:"SCHEDULER_HEADER_VALUE" default:""`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	GradeCron       string `envconfig:"GRADE_CRON" default:"0 6 * * *"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
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

	if _, err := time.LoadLocation(c.ReferenceTZ); err != nil {
		return fmt.Errorf("REFERENCE_TZ %q is not a valid time zone: %w", c.ReferenceTZ, err)
	}

	if c.MaxParallelLeagues < 1 {
		return fmt.Errorf("MAX_PARALLEL_LEAGUES must be at least 1")
	}

	if c.ProviderTimeout <= 0 || c.JobTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT and JOB_TIMEOUT must be positive")
	}

	if c.IsProduction() && c.CronSecret == "" && c.SchedulerHeaderValue == "" {
		return fmt.Errorf("CRON_SECRET or SCHEDULER_HEADER_VALUE must be set in production")
	}

	return nil
}

// Location returns the reference time zone used to resolve "yesterday"
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReferenceTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
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
