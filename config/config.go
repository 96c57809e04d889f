// Package config provides centralized configuration for the profile editor service
// with validation and typed accessors.
//
// Configuration Sources:
//  1. Default values (hardcoded)
//  2. .env file (local development via godotenv)
//  3. Environment variables
//
// Usage:
//
//	import "github.com/duynhne/profile-editor/config"
//
//	func main() {
//	    cfg := config.Load()
//	    if err := cfg.Validate(); err != nil {
//	        log.Fatal(err)
//	    }
//	    // Use cfg.Store.Backend, cfg.Service.Port, etc.
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends understood by repository.Open.
const (
	BackendBolt     = "bolt"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Service   ServiceConfig   // Service settings (port, bind address, name, version)
	Tracing   TracingConfig   // OpenTelemetry configuration
	Profiling ProfilingConfig // Pyroscope continuous profiling
	Logging   LoggingConfig   // Structured logging (Zap)
	Metrics   MetricsConfig   // Prometheus metrics
	Store     StoreConfig     // Key-value store selection
	Database  DatabaseConfig  // PostgreSQL backend settings
	Redis     RedisConfig     // Redis backend settings
	// DateLocale is the BCP 47 tag used to format dates chosen with the picker - from DATE_LOCALE env (default: "en-US")
	DateLocale      string
	ShutdownTimeout int // Graceful shutdown timeout in seconds - from SHUTDOWN_TIMEOUT env (default: 10)
	// ReadinessDrainDelay: seconds /ready reports 503 before the HTTP server stops.
	// From READINESS_DRAIN_DELAY env (default: 0s, max: 30s).
	ReadinessDrainDelay int
}

// ServiceConfig defines basic service configuration
type ServiceConfig struct {
	Name        string // Service name - from SERVICE_NAME env
	Port        string // HTTP server port (default: "8080") - from PORT env
	BindAddress string // Listen address (default: "127.0.0.1") - from BIND_ADDRESS env
	Version     string // Service version (optional) - from VERSION env
	Env         string // Environment (dev/staging/production) - from ENV env
}

// TracingConfig defines OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled            bool    // Enable tracing (default: false) - from TRACING_ENABLED env
	Endpoint           string  // OTel Collector endpoint - from OTEL_COLLECTOR_ENDPOINT env
	SampleRate         float64 // Trace sampling rate (0.0-1.0) - from OTEL_SAMPLE_RATE env
	ServiceName        string  // Service name for traces (defaults to ServiceConfig.Name)
	MaxExportBatchSize int     // Max spans per batch (default: 512)
}

// ProfilingConfig defines Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled     bool   // Enable profiling (default: false) - from PROFILING_ENABLED env
	Endpoint    string // Pyroscope endpoint - from PYROSCOPE_ENDPOINT env
	ServiceName string // Application name reported to Pyroscope
}

// LoggingConfig defines structured logging configuration
type LoggingConfig struct {
	Level  string // Log level: debug, info, warn, error (default: "info") - from LOG_LEVEL env
	Format string // Log format: json, console (default: "json") - from LOG_FORMAT env
}

// MetricsConfig defines Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool   // Enable metrics (default: true) - from METRICS_ENABLED env
	Path    string // Metrics endpoint path (default: "/metrics") - from METRICS_PATH env
}

// StoreConfig selects and locates the key-value store holding the profile records
type StoreConfig struct {
	Backend   string // bolt, sqlite, postgres, redis, memory (default: "bolt") - from STORE_BACKEND env
	Path      string // File path for bolt and sqlite (default: "profile.db") - from STORE_PATH env
	Namespace string // Key prefix for shared backends (default: "profile") - from STORE_NAMESPACE env
}

// DatabaseConfig defines PostgreSQL configuration for the postgres backend
type DatabaseConfig struct {
	Host           string // Database host - from DB_HOST env
	Port           string // Database port - from DB_PORT env (default: "5432")
	Name           string // Database name - from DB_NAME env
	User           string // Database user - from DB_USER env
	Password       string // Database password - from DB_PASSWORD env
	SSLMode        string // SSL mode - from DB_SSLMODE env (default: "disable")
	MaxConnections int    // Max connections - from DB_POOL_MAX_CONNECTIONS env (default: 4)
}

// RedisConfig defines the redis backend connection
type RedisConfig struct {
	Addr     string // host:port - from REDIS_ADDR env (default: "127.0.0.1:6379")
	Password string // from REDIS_PASSWORD env
	DB       int    // logical database - from REDIS_DB env (default: 0)
}

// BuildDSN constructs PostgreSQL connection string from config
func (c *DatabaseConfig) BuildDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConnections)
}

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded first; real env vars win.
func Load() *Config {
	_ = godotenv.Load()

	name := getEnv("SERVICE_NAME", "profile-editor")
	return &Config{
		Service: ServiceConfig{
			Name:        name,
			Port:        getEnv("PORT", "8080"),
			BindAddress: getEnv("BIND_ADDRESS", "127.0.0.1"),
			Version:     getEnv("VERSION", "dev"),
			Env:         getEnv("ENV", "development"),
		},
		Tracing: TracingConfig{
			Enabled:            getEnvBool("TRACING_ENABLED", false),
			Endpoint:           getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate:         getEnvFloat("OTEL_SAMPLE_RATE", 1.0),
			ServiceName:        name,
			MaxExportBatchSize: getEnvInt("OTEL_BATCH_SIZE", 512),
		},
		Profiling: ProfilingConfig{
			Enabled:     getEnvBool("PROFILING_ENABLED", false),
			Endpoint:    getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
			ServiceName: name,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Store: StoreConfig{
			Backend:   strings.ToLower(getEnv("STORE_BACKEND", BackendBolt)),
			Path:      getEnv("STORE_PATH", "profile.db"),
			Namespace: getEnv("STORE_NAMESPACE", "profile"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", ""),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", ""),
			User:           getEnv("DB_USER", ""),
			Password:       getEnv("DB_PASSWORD", ""),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_POOL_MAX_CONNECTIONS", 4),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		DateLocale:          getEnv("DATE_LOCALE", "en-US"),
		ShutdownTimeout:     getEnvDurationSecondsWithMax("SHUTDOWN_TIMEOUT", 10, 60),
		ReadinessDrainDelay: getEnvDurationSecondsWithMax("READINESS_DRAIN_DELAY", 0, 30),
	}
}

// Validate checks every field and reports all problems at once
func (c *Config) Validate() error {
	var errors []string

	if c.Service.Name == "" {
		errors = append(errors, "SERVICE_NAME is required")
	}
	if _, err := strconv.Atoi(c.Service.Port); err != nil {
		errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Service.Port))
	}
	validEnvs := []string{"development", "dev", "staging", "stage", "production", "prod"}
	if !contains(validEnvs, c.Service.Env) {
		errors = append(errors, fmt.Sprintf("ENV must be one of %v, got: %s", validEnvs, c.Service.Env))
	}

	if c.Tracing.Enabled {
		if c.Tracing.Endpoint == "" {
			errors = append(errors, "OTEL_COLLECTOR_ENDPOINT is required when tracing is enabled")
		}
		if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
			errors = append(errors, fmt.Sprintf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got: %.2f", c.Tracing.SampleRate))
		}
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		errors = append(errors, "PYROSCOPE_ENDPOINT is required when profiling is enabled")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logging.Level) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of %v, got: %s", validLogLevels, c.Logging.Level))
	}
	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, c.Logging.Format) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of %v, got: %s", validLogFormats, c.Logging.Format))
	}

	validBackends := []string{BackendBolt, BackendSQLite, BackendPostgres, BackendRedis, BackendMemory}
	if !contains(validBackends, c.Store.Backend) {
		errors = append(errors, fmt.Sprintf("STORE_BACKEND must be one of %v, got: %s", validBackends, c.Store.Backend))
	}
	switch c.Store.Backend {
	case BackendBolt, BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			errors = append(errors, "STORE_PATH is required for file backends")
		}
	case BackendPostgres:
		if c.Database.Host == "" {
			errors = append(errors, "DB_HOST is required when STORE_BACKEND=postgres")
		}
		if c.Database.Name == "" {
			errors = append(errors, "DB_NAME is required when STORE_BACKEND=postgres")
		}
		if c.Database.User == "" {
			errors = append(errors, "DB_USER is required when STORE_BACKEND=postgres")
		}
		if _, err := strconv.Atoi(c.Database.Port); err != nil {
			errors = append(errors, fmt.Sprintf("DB_PORT must be a valid number, got: %s", c.Database.Port))
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			errors = append(errors, "REDIS_ADDR is required when STORE_BACKEND=redis")
		}
	}

	if strings.TrimSpace(c.DateLocale) == "" {
		errors = append(errors, "DATE_LOCALE must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Service.Env)
	return env == "development" || env == "dev"
}

// ListenAddr joins the bind address and port
func (c *Config) ListenAddr() string {
	return c.Service.BindAddress + ":" + c.Service.Port
}

// GetShutdownTimeoutDuration returns shutdown timeout as time.Duration
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// GetReadinessDrainDelayDuration returns readiness drain delay as time.Duration.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.ReadinessDrainDelay) * time.Second
}

// getEnv reads an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts "true", "1", "yes" for true; anything else set is false
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvDurationSecondsWithMax reads a Go duration ("5s", "1m") and returns whole seconds.
// Invalid, negative or over-limit values fall back to the default.
func getEnvDurationSecondsWithMax(key string, defaultValueSeconds int, maxSeconds int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValueSeconds
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValueSeconds
	}

	seconds := int(d.Seconds())
	if seconds < 0 || seconds > maxSeconds {
		return defaultValueSeconds
	}
	return seconds
}

// contains checks if a string slice contains a specific value (case-insensitive)
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
