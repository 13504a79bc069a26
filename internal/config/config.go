package config

import (
	"os"
	"strconv"
	"time"

	"macropanel/domain/core"
	"macropanel/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Source SourceConfig
	Cache  CacheConfig
	Output OutputConfig
}

// SourceConfig holds World Bank API settings
type SourceConfig struct {
	BaseURL     string
	HTTPTimeout time.Duration
	Years       core.YearRange
	PerPage     int
}

// CacheConfig holds the flat-file cache settings
type CacheConfig struct {
	Path string
}

// OutputConfig holds result bundle output settings
type OutputConfig struct {
	BundlePath string
	SQLitePath string
	ExcelPath  string
	// WriteSQLite/WriteExcel enable the optional reporting-layer outputs
	// alongside the JSON bundle.
	WriteSQLite bool
	WriteExcel  bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Source: loadSourceConfig(),
		Cache:  loadCacheConfig(),
		Output: loadOutputConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadSourceConfig() SourceConfig {
	return SourceConfig{
		BaseURL:     getEnvOrDefault("WDI_BASE_URL", "https://api.worldbank.org/v2"),
		HTTPTimeout: getEnvDurationOrDefault("WDI_HTTP_TIMEOUT", 60*time.Second),
		Years: core.YearRange{
			Start: core.Year(getEnvIntOrDefault("WDI_START_YEAR", 2000)),
			End:   core.Year(getEnvIntOrDefault("WDI_END_YEAR", 2023)),
		},
		PerPage: getEnvIntOrDefault("WDI_PER_PAGE", 20000),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Path: getEnvOrDefault("WDI_CACHE_FILE", "data/wdi_panel.csv"),
	}
}

func loadOutputConfig() OutputConfig {
	return OutputConfig{
		BundlePath:  getEnvOrDefault("RESULT_BUNDLE_FILE", "output/result_bundle.json"),
		SQLitePath:  getEnvOrDefault("RESULT_SQLITE_FILE", "output/results.db"),
		ExcelPath:   getEnvOrDefault("RESULT_EXCEL_FILE", "output/results.xlsx"),
		WriteSQLite: getEnvBoolOrDefault("WRITE_SQLITE", true),
		WriteExcel:  getEnvBoolOrDefault("WRITE_EXCEL", false),
	}
}

func validateConfig(config *Config) error {
	if config.Source.BaseURL == "" {
		return errors.ConfigInvalid("WDI_BASE_URL cannot be empty")
	}
	if !config.Source.Years.Valid() {
		return errors.ConfigInvalid("WDI_START_YEAR/WDI_END_YEAR do not form a valid range")
	}
	if config.Cache.Path == "" {
		return errors.ConfigInvalid("WDI_CACHE_FILE cannot be empty")
	}
	if config.Output.BundlePath == "" {
		return errors.ConfigInvalid("RESULT_BUNDLE_FILE cannot be empty")
	}
	if config.Output.WriteSQLite && config.Output.SQLitePath == "" {
		return errors.ConfigInvalid("RESULT_SQLITE_FILE required when WRITE_SQLITE is set")
	}
	if config.Output.WriteExcel && config.Output.ExcelPath == "" {
		return errors.ConfigInvalid("RESULT_EXCEL_FILE required when WRITE_EXCEL is set")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
