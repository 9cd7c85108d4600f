// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.risen/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Storage: SQLite database path and startup retry policy
//   - Limits: per-field size ceilings and sequence count ceilings
//   - Pagination: defaults and ceilings for search and experiment listing
//   - Health: thresholds used by the health report
//   - Debug/ErrorDetails: diagnostic toggles, off in production
//
// Error Handling:
//   - Sentinel errors for Go-idiomatic checking with errors.Is()
//   - Wrapped with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment identifiers used in Config.Environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Startup retry policy for the database connection. A failed open is retried
// a fixed number of times with a fixed delay before the process exits.
const (
	ConnectAttempts     = 3
	ConnectRetryDelay   = 2 * time.Second
	DefaultDatabaseFile = "risen_prompts.db"
)

// Pagination bounds. Search and experiment listing clamp caller-supplied
// offset/limit to these.
const (
	DefaultSearchLimit     = 20
	MaxSearchLimit         = 100
	DefaultExperimentLimit = 10
	MaxExperimentLimit     = 50
)

// Config stores application configuration.
type Config struct {
	// Storage
	DBPath string `mapstructure:"db_path"`

	// Input size limits
	MaxNameLength         int `mapstructure:"max_template_name_length"`
	MaxDescriptionLength  int `mapstructure:"max_description_length"`
	MaxInstructionsLength int `mapstructure:"max_instructions_length"`
	MaxExpectationsLength int `mapstructure:"max_expectations_length"`
	MaxNarrowingLength    int `mapstructure:"max_narrowing_length"`
	MaxStepsCount         int `mapstructure:"max_steps_count"`
	MaxVariablesCount     int `mapstructure:"max_variables_count"`
	MaxTagsCount          int `mapstructure:"max_tags_count"`

	// Response limits
	MaxTemplateSize int `mapstructure:"max_template_size"`
	MaxFieldSize    int `mapstructure:"max_individual_field_size"`
	MaxResponseSize int `mapstructure:"max_response_size"`

	// Diagnostics. ErrorDetails surfaces internal error text to MCP clients
	// and must stay off in production; the generic failure message is a
	// deliberate detail-suppression control.
	Environment  string `mapstructure:"environment"`
	Debug        bool   `mapstructure:"debug"`
	ErrorDetails bool   `mapstructure:"error_details"`

	// Health monitoring thresholds
	MaxHealthyDBSizeKB       int `mapstructure:"max_healthy_db_size_kb"`
	MaxHealthyMemoryMB       int `mapstructure:"max_healthy_memory_mb"`
	MaxHealthyResponseTimeMS int `mapstructure:"max_healthy_response_time_ms"`
	MaxErrorRatePercent      int `mapstructure:"max_error_rate_percent"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".risen")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Fail-fast on invalid values; soft limit concerns are logged only.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	for _, issue := range cfg.LimitWarnings() {
		slog.Warn("configuration limit concern", "issue", issue)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("db_path", DefaultDatabaseFile)

	viper.SetDefault("max_template_name_length", 100)
	viper.SetDefault("max_description_length", 500)
	viper.SetDefault("max_instructions_length", 2000)
	viper.SetDefault("max_expectations_length", 1000)
	viper.SetDefault("max_narrowing_length", 1000)
	viper.SetDefault("max_steps_count", 50)
	viper.SetDefault("max_variables_count", 20)
	viper.SetDefault("max_tags_count", 10)

	viper.SetDefault("max_template_size", 8000)
	viper.SetDefault("max_individual_field_size", 2000)
	viper.SetDefault("max_response_size", 1000)

	viper.SetDefault("environment", EnvDevelopment)
	viper.SetDefault("debug", false)
	viper.SetDefault("error_details", false)

	viper.SetDefault("max_healthy_db_size_kb", 50000)
	viper.SetDefault("max_healthy_memory_mb", 500)
	viper.SetDefault("max_healthy_response_time_ms", 5000)
	viper.SetDefault("max_error_rate_percent", 5)
}

// bindEnvVariables binds environment variables explicitly. The names match
// the documented operator surface, so they are not derived from the
// mapstructure keys.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("db_path", "RISEN_DB_PATH")

	mustBind("max_template_name_length", "MAX_TEMPLATE_NAME_LENGTH")
	mustBind("max_description_length", "MAX_DESCRIPTION_LENGTH")
	mustBind("max_instructions_length", "MAX_INSTRUCTIONS_LENGTH")
	mustBind("max_expectations_length", "MAX_EXPECTATIONS_LENGTH")
	mustBind("max_narrowing_length", "MAX_NARROWING_LENGTH")
	mustBind("max_steps_count", "MAX_STEPS_COUNT")
	mustBind("max_variables_count", "MAX_VARIABLES_COUNT")
	mustBind("max_tags_count", "MAX_TAGS_COUNT")

	mustBind("max_template_size", "MAX_TEMPLATE_SIZE")
	mustBind("max_individual_field_size", "MAX_INDIVIDUAL_FIELD_SIZE")
	mustBind("max_response_size", "MAX_RESPONSE_SIZE")

	mustBind("environment", "RISEN_ENV")
	mustBind("debug", "DEBUG")
	mustBind("error_details", "ENABLE_ERROR_DETAILS")

	mustBind("max_healthy_db_size_kb", "MAX_HEALTHY_DB_SIZE_KB")
	mustBind("max_healthy_memory_mb", "MAX_HEALTHY_MEMORY_MB")
	mustBind("max_healthy_response_time_ms", "MAX_HEALTHY_RESPONSE_TIME_MS")
	mustBind("max_error_rate_percent", "MAX_ERROR_RATE_PERCENT")
}

// Production reports whether the server runs with production hardening,
// which suppresses error detail in client-visible output.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}

// ExposeErrorDetails reports whether internal error text may be surfaced to
// clients. Never true in production regardless of the toggle.
func (c *Config) ExposeErrorDetails() bool {
	return c.ErrorDetails && !c.Production()
}
