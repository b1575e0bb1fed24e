package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App    AppConfig
	API    APIConfig
	Redis  RedisConfig
	Logger LoggerConfig
	Events EventsConfig
	Wallet WalletConfig
}

// AppConfig controls the HTTP server the UI talks to.
type AppConfig struct {
	Addr            string
	SessionTTLHours int
}

// APIConfig points at the backend REST API.
type APIConfig struct {
	BaseURL            string
	HTTPTimeoutSeconds int
}

// RedisConfig holds the durable store connection.
type RedisConfig struct {
	URL           string
	RefreshPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
}

// EventsConfig names the topics UI signals and telemetry are published on.
type EventsConfig struct {
	SignalTopic    string
	TelemetryTopic string
}

// WalletConfig optionally logs a development wallet in on startup.
type WalletConfig struct {
	DevPrivateKey string
	DevAddress    string
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := strconv.Atoi(getEnv("PORTAL_HTTP_TIMEOUT_SECONDS", "0"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid PORTAL_HTTP_TIMEOUT_SECONDS: %q", os.Getenv("PORTAL_HTTP_TIMEOUT_SECONDS"))
	}

	sessionTTL, err := strconv.Atoi(getEnv("PORTAL_SESSION_TTL_HOURS", "24"))
	if err != nil || sessionTTL <= 0 {
		return nil, fmt.Errorf("invalid PORTAL_SESSION_TTL_HOURS: %q", os.Getenv("PORTAL_SESSION_TTL_HOURS"))
	}

	cfg := &Config{
		App: AppConfig{
			Addr:            getEnv("PORTAL_ADDR", ":9000"),
			SessionTTLHours: sessionTTL,
		},
		API: APIConfig{
			BaseURL:            getEnv("PORTAL_API_BASE", "http://localhost:3000"),
			HTTPTimeoutSeconds: timeout,
		},
		Redis: RedisConfig{
			URL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RefreshPrefix: getEnv("PORTAL_REFRESH_PREFIX", "portal:"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Events: EventsConfig{
			SignalTopic:    getEnv("PORTAL_SIGNAL_TOPIC", "portal.ui"),
			TelemetryTopic: getEnv("PORTAL_TELEMETRY_TOPIC", "portal.telemetry"),
		},
		Wallet: WalletConfig{
			DevPrivateKey: os.Getenv("PORTAL_DEV_PRIVATE_KEY"),
			DevAddress:    os.Getenv("PORTAL_DEV_ADDRESS"),
		},
	}

	return cfg, nil
}

// SessionTTL returns how long a UI session stays valid.
func (a AppConfig) SessionTTL() time.Duration {
	return time.Duration(a.SessionTTLHours) * time.Hour
}

// HTTPTimeout returns the outbound request timeout; zero leaves the transport default.
func (a APIConfig) HTTPTimeout() time.Duration {
	return time.Duration(a.HTTPTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
