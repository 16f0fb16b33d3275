// Package config loads service configuration from environment variables.
// A .env file, when present, is loaded by main before Load is called.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServiceConfig identifies the running service instance.
type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// AuthConfig holds the authentication policy.
type AuthConfig struct {
	// AllowedDomains is the list of email domains permitted to log in.
	AllowedDomains []string

	// SessionSecret is configured for parity with earlier deployments but is
	// not applied anywhere: sessions are opaque random identifiers looked up
	// server-side, with no signed client-held state.
	SessionSecret string
}

// UpstreamConfig describes the Headless RAG API this service proxies to.
type UpstreamConfig struct {
	URL            string
	APIKey         string
	TimeoutSeconds int
}

// SessionConfig controls the session store.
type SessionConfig struct {
	// Backend selects the store implementation: "memory" or "redis".
	Backend              string
	TTLHours             int
	SweepIntervalMinutes int
}

// RedisConfig holds connection settings for the redis session backend.
type RedisConfig struct {
	Addr     string
	Password string
}

// CORSConfig holds the fixed CORS policy inputs.
type CORSConfig struct {
	FrontendURL string
}

// LoggingConfig controls zerolog.
type LoggingConfig struct {
	Level string
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig controls Pyroscope.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// Config is the full service configuration.
type Config struct {
	Service   ServiceConfig
	Auth      AuthConfig
	Upstream  UpstreamConfig
	Session   SessionConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig

	ShutdownTimeoutSeconds     int
	ReadinessDrainDelaySeconds int
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "chat-bff"),
			Version: getEnv("SERVICE_VERSION", "1.0.0"),
			Env:     getEnv("APP_ENV", "development"),
			Port:    getEnv("PORT", "3000"),
		},
		Auth: AuthConfig{
			AllowedDomains: splitList(getEnv("ALLOWED_DOMAINS", "example.com")),
			SessionSecret:  getEnv("SESSION_SECRET", "dev-secret-change-in-production"),
		},
		Upstream: UpstreamConfig{
			URL:            getEnv("RAG_API_URL", "http://localhost:8080"),
			APIKey:         getEnv("RAG_API_KEY", ""),
			TimeoutSeconds: getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			Backend:              getEnv("SESSION_BACKEND", "memory"),
			TTLHours:             getEnvInt("SESSION_TTL_HOURS", 7*24),
			SweepIntervalMinutes: getEnvInt("SWEEP_INTERVAL_MINUTES", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		CORS: CORSConfig{
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		ShutdownTimeoutSeconds:     getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
		ReadinessDrainDelaySeconds: getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0),
	}
}

// Validate checks invariants that must hold before the service starts.
func (c *Config) Validate() error {
	if len(c.Auth.AllowedDomains) == 0 {
		return fmt.Errorf("ALLOWED_DOMAINS must list at least one domain")
	}
	if c.Upstream.URL == "" {
		return fmt.Errorf("RAG_API_URL is required")
	}
	if c.IsProduction() && c.Upstream.APIKey == "" {
		return fmt.Errorf("RAG_API_KEY is required in production")
	}
	switch c.Session.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", "memory", "redis", c.Session.Backend)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Service.Env == "production"
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// SweepInterval returns the interval between expired-session sweeps.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepIntervalMinutes) * time.Minute
}

// UpstreamTimeout returns the per-request timeout for buffered proxy calls.
// Streaming calls are bounded by the caller's context only.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Upstream.TimeoutSeconds) * time.Second
}

// GetShutdownTimeoutDuration returns the graceful-shutdown timeout.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns how long to fail readiness before
// shutting the HTTP server down.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.ReadinessDrainDelaySeconds) * time.Second
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
