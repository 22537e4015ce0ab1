package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer      string // Issuer claim for access tokens (default: carbonpath-api)
	SiteBaseURL string // Frontend base URL embedded in invite accept links

	MailerAPIKey string // Optional: email provider API key; unset logs email instead
	MailerFrom   string // Sender address for outgoing email

	NumKeys              int           // Optional: number of signing keys to generate (default: 3)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./csrd.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	// InviteFallback controls whether invite validation answers with a
	// synthetic record when the store is unavailable. "allow" only has
	// effect in the dev environment; everywhere else validation fails
	// closed regardless of this setting.
	InviteFallback string
}

// InviteFallbackAllowed resolves the fallback policy against the
// environment. Prod and staging always fail closed.
func (c Config) InviteFallbackAllowed() bool {
	return c.Env == "dev" && c.InviteFallback == "allow"
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("ISSUER", "carbonpath-api"),
		SiteBaseURL:          getEnvOrDefault("SITE_BASE_URL", "http://localhost:3000"),
		MailerAPIKey:         os.Getenv("MAILER_API_KEY"),
		MailerFrom:           getEnvOrDefault("MAILER_FROM", "invites@carbonpath.example"),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "csrd.db"),
		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		InviteFallback:       os.Getenv("INVITE_FALLBACK"),
	}

	// Parse number of signing keys (default handled by the key manager)
	if numKeysStr := os.Getenv("NUM_KEYS"); numKeysStr != "" {
		if numKeys, err := strconv.Atoi(numKeysStr); err == nil {
			cfg.NumKeys = numKeys
		}
	}

	// Dev defaults to the fallback being on unless explicitly denied.
	if cfg.Env == "dev" && cfg.InviteFallback == "" {
		cfg.InviteFallback = "allow"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
