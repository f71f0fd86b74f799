package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the client configuration, resolved from the environment
// with a .env file as an optional source.
type Config struct {
	APIURL         string        `json:"api_url"`
	Timeout        time.Duration `json:"timeout"`
	PageSize       int           `json:"page_size"`
	SearchDebounce time.Duration `json:"search_debounce"`
}

const (
	// DefaultPageSize matches the server's page sizing; the client
	// always requests full pages of this size.
	DefaultPageSize = 9

	DefaultAPIURL         = "http://localhost:8080"
	DefaultTimeout        = 30 * time.Second
	DefaultSearchDebounce = 300 * time.Millisecond
)

func Load() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	godotenv.Load()

	config := &Config{
		APIURL:         getEnvOrDefault("CIRCLE_API_URL", DefaultAPIURL),
		Timeout:        parseDurationOrDefault("CIRCLE_TIMEOUT", DefaultTimeout),
		PageSize:       parseIntOrDefault("CIRCLE_PAGE_SIZE", DefaultPageSize),
		SearchDebounce: parseDurationOrDefault("CIRCLE_SEARCH_DEBOUNCE", DefaultSearchDebounce),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("invalid API URL: %s (must start with http:// or https://)", c.APIURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.PageSize)
	}

	if c.SearchDebounce < 0 {
		return fmt.Errorf("search debounce must be non-negative, got: %v", c.SearchDebounce)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func IsDebugEnabled() bool {
	return os.Getenv("CIRCLE_DEBUG") == "true" || os.Getenv("CIRCLE_DEBUG") == "1"
}
