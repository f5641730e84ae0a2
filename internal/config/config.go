package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Fine policies understood by the fine ledger.
const (
	FinePolicyFlat  = "flat"
	FinePolicyDaily = "daily"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL   string `env:"DATABASE_URL" required:"true"`
	DBMaxConns    int    `env:"DB_MAX_CONNS" default:"10"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" default:"true"`

	// Authentication
	JWTSecret string `env:"JWT_SECRET" required:"true"`

	// Token TTLs
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`

	// Redis
	RedisURL        string        `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	SummaryCacheTTL time.Duration `env:"SUMMARY_CACHE_TTL" default:"30s"`

	// Loans and fines
	LoanPeriod     time.Duration `env:"LOAN_PERIOD" default:"360h"`
	FinePolicy     string        `env:"FINE_POLICY" default:"flat"`
	FineFlatAmount float64       `env:"FINE_FLAT_AMOUNT" default:"50"`
	FineDailyRate  float64       `env:"FINE_DAILY_RATE" default:"5"`
	FineMaxAmount  float64       `env:"FINE_MAX_AMOUNT" default:"0"`

	// Overdue scan job
	OverdueScanInterval time.Duration `env:"OVERDUE_SCAN_INTERVAL" default:"1h"`
	OverdueScanWorkers  int           `env:"OVERDUE_SCAN_WORKERS" default:"4"`
	OverdueScanLease    time.Duration `env:"OVERDUE_SCAN_LEASE" default:"10m"`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"json"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxConns, "DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.DBAutoMigrate, "DB_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379/0"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SummaryCacheTTL, "SUMMARY_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	// Loans and fines
	if err := loadEnvDuration(&config.LoanPeriod, "LOAN_PERIOD", 15*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.FinePolicy, "FINE_POLICY", FinePolicyFlat); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.FineFlatAmount, "FINE_FLAT_AMOUNT", 50); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.FineDailyRate, "FINE_DAILY_RATE", 5); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.FineMaxAmount, "FINE_MAX_AMOUNT", 0); err != nil {
		return nil, err
	}

	// Overdue scan
	if err := loadEnvDuration(&config.OverdueScanInterval, "OVERDUE_SCAN_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.OverdueScanWorkers, "OVERDUE_SCAN_WORKERS", 4); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.OverdueScanLease, "OVERDUE_SCAN_LEASE", 10*time.Minute); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvFloat(&config.RateLimitRPS, "RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitBurst, "RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	// Logging
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "info"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "json"); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvBool(target *bool, key string, defaultValue bool) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// HS256 keys shorter than the hash output are weak
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.LoanPeriod <= 0 {
		errors = append(errors, "LOAN_PERIOD must be positive")
	}

	switch c.FinePolicy {
	case FinePolicyFlat:
		if c.FineFlatAmount < 0 {
			errors = append(errors, "FINE_FLAT_AMOUNT must not be negative")
		}
	case FinePolicyDaily:
		if c.FineDailyRate < 0 {
			errors = append(errors, "FINE_DAILY_RATE must not be negative")
		}
	default:
		errors = append(errors, fmt.Sprintf("FINE_POLICY must be one of: %s, %s", FinePolicyFlat, FinePolicyDaily))
	}
	if c.FineMaxAmount < 0 {
		errors = append(errors, "FINE_MAX_AMOUNT must not be negative")
	}

	if c.OverdueScanWorkers < 1 {
		errors = append(errors, "OVERDUE_SCAN_WORKERS must be at least 1")
	}
	// the lease is renewed every third of its ttl
	if c.OverdueScanLease < 3*time.Millisecond {
		errors = append(errors, "OVERDUE_SCAN_LEASE must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errors = append(errors, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
