// Package config provides centralized configuration for the student portal
// state service with validation and type safety.
//
// Configuration Sources (12-factor app principles):
//  1. Default values (hardcoded)
//  2. .env file (local development via godotenv)
//  3. Environment variables (runtime)
//
// Usage:
//
//	import "github.com/rsjournalism/student-portal/config"
//
//	func main() {
//	    cfg := config.Load()
//	    if err := cfg.Validate(); err != nil {
//	        log.Fatal(err)
//	    }
//	    // Use cfg.Service.Port, cfg.API.BaseURL, etc.
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

// Base API URLs for the remote learner-portal backend, switched by environment.
const (
	devAPIURL  = "http://localhost:3002"
	prodAPIURL = "https://gke-api.republicschoolofjournalism.com"
)

// Config holds all configuration for the portal state service
type Config struct {
	Service         ServiceConfig   // Service-specific settings (port, name, version)
	API             APIConfig       // Remote backend API configuration
	Storage         StorageConfig   // Durable key-value storage configuration
	Tracing         TracingConfig   // OpenTelemetry tracing configuration
	Profiling       ProfilingConfig // Pyroscope continuous profiling
	Logging         LoggingConfig   // Structured logging (Zap)
	Metrics         MetricsConfig   // Prometheus metrics
	ShutdownTimeout int             // Graceful shutdown timeout in seconds - from SHUTDOWN_TIMEOUT env (default: 10)
	// ReadinessDrainDelay: delay after failing readiness before shutting down the HTTP server.
	// From READINESS_DRAIN_DELAY env (default: 5s, max: 30s).
	ReadinessDrainDelay int
}

// ServiceConfig defines basic service configuration
type ServiceConfig struct {
	Name    string // Service name - from SERVICE_NAME env
	Port    string // HTTP server port (default: "8080") - from PORT env
	Version string // Service version (optional) - from VERSION env
	Env     string // Environment (dev/staging/production) - from ENV env
}

// APIConfig defines the remote backend API the flows talk to.
// BaseURL defaults by environment (localhost backend in dev, GKE ingress in
// prod) and can be overridden with API_BASE_URL.
type APIConfig struct {
	BaseURL string        // Remote backend base URL - from API_BASE_URL env
	Timeout time.Duration // Per-request timeout for outbound calls - from API_TIMEOUT env (default: 15s)
}

// Endpoint path templates consumed by the flows. Defined here so every
// remote route this service depends on is visible in one place.

func (c *APIConfig) RequestOTPPath() string { return "/api/auth/request-otp" }
func (c *APIConfig) VerifyOTPPath() string  { return "/api/auth/verify-otp" }

func (c *APIConfig) UserGetPath(userID string) string {
	return "/api/users/get/" + userID
}

func (c *APIConfig) UserUpdatePath(userID string) string {
	return "/api/users/update/" + userID
}

func (c *APIConfig) PaymentHistoryPath(userID string) string {
	return "/api/payment/get-payment-history/" + userID
}

// StorageConfig defines the durable key-value store backing the session
// mirror and profile shadow. An empty Path selects the in-memory store
// (non-durable; every start is a fresh logged-out state).
type StorageConfig struct {
	Path string // SQLite file path - from STORAGE_PATH env (default: "portal.db")
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
	ServiceName string // Service name for profiling (defaults to ServiceConfig.Name)
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

// Load reads configuration from environment variables with defaults.
// It automatically loads a .env file if present (for local development).
//
// Priority: .env file < environment variables
func Load() *Config {
	// godotenv.Load() fails silently if .env doesn't exist - fine in production
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "student-portal"),
			Port:    getEnv("PORT", "8080"),
			Version: getEnv("VERSION", "dev"),
			Env:     env,
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", defaultBaseURL(env)),
			Timeout: getEnvDuration("API_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Path: getEnv("STORAGE_PATH", "portal.db"),
		},
		Tracing: TracingConfig{
			Enabled:            getEnvBool("TRACING_ENABLED", false),
			Endpoint:           getEnv("OTEL_COLLECTOR_ENDPOINT", "localhost:4318"),
			SampleRate:         getEnvFloat("OTEL_SAMPLE_RATE", 0.1),
			ServiceName:        getEnv("SERVICE_NAME", "student-portal"),
			MaxExportBatchSize: getEnvInt("OTEL_BATCH_SIZE", 512),
		},
		Profiling: ProfilingConfig{
			Enabled:     getEnvBool("PROFILING_ENABLED", false),
			Endpoint:    getEnv("PYROSCOPE_ENDPOINT", "http://localhost:4040"),
			ServiceName: getEnv("SERVICE_NAME", "student-portal"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		ShutdownTimeout:     getEnvDurationSeconds("SHUTDOWN_TIMEOUT", 10, 60),
		ReadinessDrainDelay: getEnvDurationSeconds("READINESS_DRAIN_DELAY", 5, 30),
	}
}

// defaultBaseURL mirrors the environment switch the web client performs:
// local backend during development, the GKE ingress everywhere else.
func defaultBaseURL(env string) string {
	switch strings.ToLower(env) {
	case "development", "dev":
		return devAPIURL
	default:
		return prodAPIURL
	}
}

// Validate performs comprehensive validation of all configuration fields.
// Errors are collected so a misconfigured deployment fails with every
// problem listed at once.
func (c *Config) Validate() error {
	var errors []string

	if c.Service.Port == "" {
		errors = append(errors, "PORT is required (e.g., '8080')")
	} else if _, err := strconv.Atoi(c.Service.Port); err != nil {
		errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Service.Port))
	}
	validEnvs := []string{"development", "dev", "staging", "stage", "production", "prod"}
	if !contains(validEnvs, c.Service.Env) {
		errors = append(errors, fmt.Sprintf("ENV must be one of %v, got: %s", validEnvs, c.Service.Env))
	}

	if c.API.BaseURL == "" {
		errors = append(errors, "API_BASE_URL is required (remote backend base URL)")
	} else if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errors = append(errors, fmt.Sprintf("API_BASE_URL must start with http:// or https://, got: %s", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errors = append(errors, fmt.Sprintf("API_TIMEOUT must be positive, got: %s", c.API.Timeout))
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
	if !contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of %v, got: %s", validLogLevels, c.Logging.Level))
	}
	validLogFormats := []string{"json", "console"}
	if !contains(validLogFormats, strings.ToLower(c.Logging.Format)) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of %v, got: %s", validLogFormats, c.Logging.Format))
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

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Service.Env)
	return env == "production" || env == "prod"
}

// GetShutdownTimeoutDuration returns shutdown timeout as time.Duration
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// GetReadinessDrainDelayDuration returns readiness drain delay as time.Duration.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.ReadinessDrainDelay) * time.Second
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool reads a boolean environment variable with a default fallback
// Accepts: "true", "1", "yes" for true | "false", "0", "no" for false
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

// getEnvDuration reads a Go duration environment variable (e.g. "15s", "1m").
// Returns default on invalid or non-positive values.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// getEnvDurationSeconds reads a duration env var and returns seconds as int.
// Accepts Go duration format (e.g., "10s", "30s", "1m").
// Returns default on invalid values (silent fallback for startup safety).
func getEnvDurationSeconds(key string, defaultValueSeconds, maxSeconds int) int {
	timeoutStr := os.Getenv(key)
	if timeoutStr == "" {
		return defaultValueSeconds
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return defaultValueSeconds
	}

	seconds := int(timeout.Seconds())
	if seconds <= 0 || seconds > maxSeconds {
		return defaultValueSeconds
	}

	return seconds
}

// contains checks if a string slice contains a specific value
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
