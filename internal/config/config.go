package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notification recipients for comment events.
const (
	RecipientOwner = "owner"
	RecipientActor = "actor"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service Ports
	HTTPHost string `env:"HTTP_HOST" default:"127.0.0.1"`
	HTTPPort int    `env:"HTTP_PORT" default:"8000"`

	// Database
	DBDriver       string        `env:"DB_DRIVER" default:"sqlite"`
	DatabaseURL    string        `env:"DATABASE_URL" default:"blog.db"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	DBConnMaxLife  time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"30m"`

	// Authentication
	JWTSecret                string        `env:"JWT_SECRET" required:"true"`
	JWTExpiry                time.Duration `env:"JWT_EXPIRY" default:"24h"`
	RequireEmailConfirmation bool          `env:"REQUIRE_EMAIL_CONFIRMATION" default:"false"`

	// Redis (rate limiting)
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Rate limiting of /api/auth
	RateLimitEnabled        bool          `env:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitCapacity       int           `env:"RATE_LIMIT_CAPACITY" default:"20"`
	RateLimitRefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" default:"3s"`
	RateLimitTTL            time.Duration `env:"RATE_LIMIT_TTL" default:"10m"`

	// Message broker (activity events)
	AMQPURL       string `env:"AMQP_URL"`
	ActivityQueue string `env:"ACTIVITY_QUEUE" default:"blog.activity"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"info"`
	LogFormat   string   `env:"LOG_FORMAT" default:"json"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"*"`

	// File Storage
	UploadDir     string `env:"UPLOAD_DIR" default:"uploads"`
	UploadMaxSize int64  `env:"UPLOAD_MAX_SIZE" default:"10485760"`

	// Comment notifications
	NotifyRecipient string `env:"NOTIFY_RECIPIENT" default:"owner"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	config := &Config{}

	loadEnvString(&config.GoEnv, "GO_ENV", "development")
	loadEnvString(&config.HTTPHost, "HTTP_HOST", "127.0.0.1")
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8000); err != nil {
		return nil, err
	}

	// Database
	loadEnvString(&config.DBDriver, "DB_DRIVER", "sqlite")
	loadEnvString(&config.DatabaseURL, "DATABASE_URL", "blog.db")
	if err := loadEnvInt(&config.DBMaxOpenConns, "DB_MAX_OPEN_CONNS", 20); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.DBMaxIdleConns, "DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.DBConnMaxLife, "DB_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.JWTExpiry, "JWT_EXPIRY", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvBool(&config.RequireEmailConfirmation, "REQUIRE_EMAIL_CONFIRMATION", false); err != nil {
		return nil, err
	}

	// Redis
	loadEnvString(&config.RedisURL, "REDIS_URL", "")
	loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", "")

	// Rate limiting
	if err := loadEnvBool(&config.RateLimitEnabled, "RATE_LIMIT_ENABLED", true); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitCapacity, "RATE_LIMIT_CAPACITY", 20); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RateLimitRefillInterval, "RATE_LIMIT_REFILL_INTERVAL", 3*time.Second); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RateLimitTTL, "RATE_LIMIT_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	// Message broker
	loadEnvString(&config.AMQPURL, "AMQP_URL", "")
	loadEnvString(&config.ActivityQueue, "ACTIVITY_QUEUE", "blog.activity")

	// Development
	loadEnvString(&config.LogLevel, "LOG_LEVEL", "info")
	loadEnvString(&config.LogFormat, "LOG_FORMAT", "json")
	loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"*"})

	// File Storage
	loadEnvString(&config.UploadDir, "UPLOAD_DIR", "uploads")
	if err := loadEnvInt64(&config.UploadMaxSize, "UPLOAD_MAX_SIZE", 10<<20); err != nil {
		return nil, err
	}

	loadEnvString(&config.NotifyRecipient, "NOTIFY_RECIPIENT", RecipientOwner)

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
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

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
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

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validDrivers := []string{"sqlite", "postgres", "mysql"}
	if !contains(validDrivers, c.DBDriver) {
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: %s", strings.Join(validDrivers, ", ")))
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}
	if c.JWTExpiry <= 0 {
		errors = append(errors, "JWT_EXPIRY must be positive")
	}

	if c.RateLimitCapacity < 1 {
		errors = append(errors, "RATE_LIMIT_CAPACITY must be at least 1")
	}
	if c.RateLimitRefillInterval <= 0 {
		errors = append(errors, "RATE_LIMIT_REFILL_INTERVAL must be positive")
	}

	if c.UploadMaxSize <= 0 {
		errors = append(errors, "UPLOAD_MAX_SIZE must be positive")
	}

	validRecipients := []string{RecipientOwner, RecipientActor}
	if !contains(validRecipients, c.NotifyRecipient) {
		errors = append(errors, fmt.Sprintf("NOTIFY_RECIPIENT must be one of: %s", strings.Join(validRecipients, ", ")))
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

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
