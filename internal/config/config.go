package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote API
	APIBaseURL string
	InitData   string
	APITimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string

	// Row index
	RowCacheSize int
	RowCacheTTL  time.Duration

	// Display
	DisplayTZ string

	// AMQP change feed, disabled when AMQPURL is empty
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

func Load() *Config {
	return &Config{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000"),
		InitData:   strings.TrimSpace(os.Getenv("TELEGRAM_INIT_DATA")),
		APITimeout: getEnvDuration("API_TIMEOUT", 15*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "dompet.log"),

		RowCacheSize: getEnvInt("ROW_CACHE_SIZE", 256),
		RowCacheTTL:  getEnvDuration("ROW_CACHE_TTL", 10*time.Minute),

		DisplayTZ: getEnv("DISPLAY_TZ", "Local"),

		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "dompet"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "transaction.changed"),
	}
}

// HasSession reports whether a host session token was provided.
func (c *Config) HasSession() bool {
	return c.InitData != ""
}

// Location resolves DisplayTZ, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.DisplayTZ); err == nil {
		return loc
	}
	return time.Local
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate API base URL
	if c.APIBaseURL == "" {
		errors = append(errors, "API base URL cannot be empty")
	} else if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
	} else if parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': missing host", c.APIBaseURL))
	}

	if c.APITimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at least 1 second", c.APITimeout))
	} else if c.APITimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid API timeout %v: must be at most 5 minutes", c.APITimeout))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFile == "" {
		errors = append(errors, "log file cannot be empty")
	}

	if c.RowCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid row cache size %d: must be at least 1", c.RowCacheSize))
	} else if c.RowCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid row cache size %d: must be at most 10000", c.RowCacheSize))
	}
	if c.RowCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid row cache TTL %v: must be at least 1 second", c.RowCacheTTL))
	}

	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		errors = append(errors, fmt.Sprintf("invalid display timezone '%s': %v", c.DisplayTZ, err))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
