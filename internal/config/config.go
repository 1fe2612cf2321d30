// Package config loads server configuration from environment variables.
package config

import (
	"os"
	"time"
)

// Config holds all server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port string
	// DBPath is the SQLite database file path.
	DBPath string
	// NATSURL, when set, bridges settlement-change signals through NATS so
	// multiple server instances share live subscriptions. Empty means
	// in-process only.
	NATSURL string

	// DefaultCurrency is the group standard currency assigned when a group
	// is created without one.
	DefaultCurrency string

	// RatesBaseURL is the ExchangeRate-API endpoint.
	RatesBaseURL string
	// RatesCacheTTL is how long fetched rate tables are reused.
	RatesCacheTTL time.Duration

	// EmailJS identifiers for the reminder relay. Reminders are disabled
	// when the service ID is empty.
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSUserID     string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		DBPath:            getEnv("DB_PATH", "./data/splitbill.db"),
		NATSURL:           os.Getenv("NATS_URL"),
		DefaultCurrency:   getEnv("DEFAULT_CURRENCY", "RON"),
		RatesBaseURL:      getEnv("RATES_BASE_URL", "https://api.exchangerate-api.com"),
		RatesCacheTTL:     getDuration("RATES_CACHE_TTL", 10*time.Minute),
		EmailJSServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
		EmailJSTemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
		EmailJSUserID:     os.Getenv("EMAILJS_USER_ID"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
