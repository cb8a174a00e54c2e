package config

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Ledger catalog
	DBPath string
	House  string

	// Ledger processing
	Workers     int
	MetricsFile string

	// Summary notice
	HouseName   string
	HouseEmail  string
	SquareEmail string
	GroupEmail  string
}

func Load() *Config {
	cfg := &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		DBPath: getEnv("DB_PATH", "./data/housesplit.db"),
		House:  getEnv("HOUSE", ""),

		Workers:     getEnvInt("WORKERS", 1),
		MetricsFile: getEnv("METRICS_FILE", ""),

		HouseName:   getEnv("HOUSE_NAME", "Housetub"),
		HouseEmail:  getEnv("HOUSE_EMAIL", "housetub@gmail.com"),
		SquareEmail: getEnv("SQUARE_EMAIL", "cash@square.com"),
		GroupEmail:  getEnv("GROUP_EMAIL", "housetub@googlegroups.com"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	validFormats := []string{"text", "json"}
	if !slices.Contains(validFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}

	if c.Workers < 1 {
		errors = append(errors, fmt.Sprintf("invalid workers %d: must be at least 1", c.Workers))
	} else if c.Workers > 256 {
		errors = append(errors, fmt.Sprintf("invalid workers %d: must be at most 256", c.Workers))
	}

	// Metrics file directory must exist
	if c.MetricsFile != "" {
		dir := filepath.Dir(c.MetricsFile)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errors = append(errors, fmt.Sprintf("metrics file directory does not exist: %s", dir))
		}
	}

	if c.HouseName == "" {
		errors = append(errors, "house name cannot be empty")
	}

	for _, addr := range []struct{ key, value string }{
		{"HOUSE_EMAIL", c.HouseEmail},
		{"SQUARE_EMAIL", c.SquareEmail},
		{"GROUP_EMAIL", c.GroupEmail},
	} {
		if addr.value == "" {
			continue
		}
		if _, err := mail.ParseAddress(addr.value); err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", addr.key, addr.value, err))
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
