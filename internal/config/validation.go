package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration validation. Check with errors.Is().
var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidDBPath indicates the database path is empty.
	ErrInvalidDBPath = errors.New("invalid database path")

	// ErrInvalidLimit indicates a size or count ceiling is not positive.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidEnvironment indicates an unknown environment name.
	ErrInvalidEnvironment = errors.New("invalid environment")
)

// Validate checks the configuration for values the server cannot run with.
// Soft concerns (limits that are legal but unwise) are reported separately
// by LimitWarnings.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidDBPath)
	}

	if c.Environment != EnvProduction && c.Environment != EnvDevelopment {
		return fmt.Errorf("%w: %q (expected %q or %q)",
			ErrInvalidEnvironment, c.Environment, EnvProduction, EnvDevelopment)
	}

	limits := map[string]int{
		"max_template_name_length":     c.MaxNameLength,
		"max_description_length":       c.MaxDescriptionLength,
		"max_instructions_length":      c.MaxInstructionsLength,
		"max_expectations_length":      c.MaxExpectationsLength,
		"max_narrowing_length":         c.MaxNarrowingLength,
		"max_steps_count":              c.MaxStepsCount,
		"max_variables_count":          c.MaxVariablesCount,
		"max_tags_count":               c.MaxTagsCount,
		"max_template_size":            c.MaxTemplateSize,
		"max_individual_field_size":    c.MaxFieldSize,
		"max_response_size":            c.MaxResponseSize,
		"max_healthy_db_size_kb":       c.MaxHealthyDBSizeKB,
		"max_healthy_memory_mb":        c.MaxHealthyMemoryMB,
		"max_healthy_response_time_ms": c.MaxHealthyResponseTimeMS,
		"max_error_rate_percent":       c.MaxErrorRatePercent,
	}
	for name, v := range limits {
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidLimit, name, v)
		}
	}

	return nil
}

// LimitWarnings reports limit settings that are legal but operationally
// questionable. These do not prevent startup; they are logged.
func (c *Config) LimitWarnings() []string {
	var issues []string

	if c.MaxTemplateSize > 50000 {
		issues = append(issues, "max_template_size is dangerously large (>50KB)")
	}
	if c.MaxResponseSize > 10000 {
		issues = append(issues, "max_response_size is dangerously large (>10KB)")
	}
	if c.ErrorDetails && c.Production() {
		issues = append(issues, "error details should not be enabled in production")
	}

	return issues
}
