package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Store      StoreConfig
	Attendance AttendanceConfig
	Refresh    RefreshConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// StoreConfig selects the record store adapter ("postgres" or "memory")
type StoreConfig struct {
	Driver string
}

type AttendanceConfig struct {
	DefaultAbsenceQuota int
	LateGraceMinutes    int
	RecountInterval     time.Duration
}

// RefreshConfig tunes the live dashboard re-fetch loop
type RefreshConfig struct {
	Debounce     time.Duration
	MaxWait      time.Duration
	RetryBackoff time.Duration
	MaxRetries   int
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "barbershop_payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	config.Store = StoreConfig{
		Driver: getEnv("STORE_DRIVER", "postgres"),
	}

	// Attendance configuration
	defaultQuota, err := strconv.Atoi(getEnv("ABSENCE_DEFAULT_QUOTA", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_DEFAULT_QUOTA: %w", err)
	}
	graceMinutes, err := strconv.Atoi(getEnv("LATE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_GRACE_MINUTES: %w", err)
	}
	recountInterval, err := time.ParseDuration(getEnv("ABSENCE_RECOUNT_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_RECOUNT_INTERVAL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultAbsenceQuota: defaultQuota,
		LateGraceMinutes:    graceMinutes,
		RecountInterval:     recountInterval,
	}

	// Live refresh configuration
	debounce, err := time.ParseDuration(getEnv("REFRESH_DEBOUNCE", "300ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_DEBOUNCE: %w", err)
	}
	maxWait, err := time.ParseDuration(getEnv("REFRESH_MAX_WAIT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_MAX_WAIT: %w", err)
	}
	backoff, err := time.ParseDuration(getEnv("REFRESH_RETRY_BACKOFF", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_RETRY_BACKOFF: %w", err)
	}
	maxRetries, err := strconv.Atoi(getEnv("REFRESH_MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_MAX_RETRIES: %w", err)
	}

	config.Refresh = RefreshConfig{
		Debounce:     debounce,
		MaxWait:      maxWait,
		RetryBackoff: backoff,
		MaxRetries:   maxRetries,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.Driver != "postgres" && c.Store.Driver != "memory" {
		return fmt.Errorf("STORE_DRIVER must be 'postgres' or 'memory'")
	}
	if c.Store.Driver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.DefaultAbsenceQuota < 0 {
		return fmt.Errorf("ABSENCE_DEFAULT_QUOTA must be non-negative")
	}
	if c.Attendance.LateGraceMinutes < 0 {
		return fmt.Errorf("LATE_GRACE_MINUTES must be non-negative")
	}
	if c.Refresh.MaxWait < c.Refresh.Debounce {
		return fmt.Errorf("REFRESH_MAX_WAIT must not be shorter than REFRESH_DEBOUNCE")
	}
	if c.Refresh.MaxRetries < 0 {
		return fmt.Errorf("REFRESH_MAX_RETRIES must be non-negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
