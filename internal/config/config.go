// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MinJWTSecretLength is the minimum HS256 key size accepted in release mode.
const MinJWTSecretLength = 32

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"-"` // SERVER_TIMEOUT_SECONDS

	// Database Configuration
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBSQLitePath      string        `mapstructure:"DB_SQLITE_PATH"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"-"` // DB_CONN_MAX_LIFETIME_MINUTES

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// JWT Configuration
	JWTSecretKey              string        `mapstructure:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiry      time.Duration `mapstructure:"-"` // JWT_ACCESS_TOKEN_EXPIRY_MINUTES
	JWTIssuer                 string        `mapstructure:"JWT_ISSUER"`
	TokenBlocklistCleanupTime time.Duration `mapstructure:"-"` // TOKEN_BLOCKLIST_CLEANUP_MINUTES

	// HTTP surface
	CORSAllowedOrigins     []string `mapstructure:"-"` // CORS_ALLOWED_ORIGINS
	AuthRateLimitPerMinute int      `mapstructure:"AUTH_RATE_LIMIT_PER_MINUTE"`
	AuthRateLimitBurst     int      `mapstructure:"AUTH_RATE_LIMIT_BURST"`
	MetricsEnabled         bool     `mapstructure:"METRICS_ENABLED"`
	ImageStoragePath       string   `mapstructure:"IMAGE_STORAGE_PATH"`

	// Application Specific Configuration
	DefaultProductLifespanDays int `mapstructure:"DEFAULT_PRODUCT_LIFESPAN_DAYS"`

	// Cron Jobs
	ProductExpiryJobSchedule string `mapstructure:"PRODUCT_EXPIRY_JOB_SCHEDULE"`
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Durations are configured as plain integers and decoded by hand.
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute
	cfg.TokenBlocklistCleanupTime = time.Duration(v.GetInt("TOKEN_BLOCKLIST_CLEANUP_MINUTES")) * time.Minute

	// Env vars arrive as a single comma separated string.
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "charity_marketplace_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "charity_marketplace.db")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "charity_marketplace_backend")
	v.SetDefault("TOKEN_BLOCKLIST_CLEANUP_MINUTES", 10)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AUTH_RATE_LIMIT_PER_MINUTE", 20)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 5)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("IMAGE_STORAGE_PATH", "./uploads")

	v.SetDefault("DEFAULT_PRODUCT_LIFESPAN_DAYS", 30)
	v.SetDefault("PRODUCT_EXPIRY_JOB_SCHEDULE", "@daily")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY is not set")
	}
	if c.IsRelease() && len(c.JWTSecretKey) < MinJWTSecretLength {
		return fmt.Errorf("FATAL: JWT_SECRET_KEY must be at least %d bytes in release mode", MinJWTSecretLength)
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.DBDriver)
	}
	if c.JWTAccessTokenExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY_MINUTES must be positive")
	}
	if c.DefaultProductLifespanDays <= 0 {
		return fmt.Errorf("DEFAULT_PRODUCT_LIFESPAN_DAYS must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
