package config

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
)

// defaultConfig builds a Config straight from the registered defaults,
// bypassing files and environment.
func defaultConfig(t *testing.T) *Config {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal defaults: %v", err)
	}
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	if cfg.DBPath != DefaultDatabaseFile {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.MaxNameLength != 100 {
		t.Errorf("MaxNameLength = %d, want 100", cfg.MaxNameLength)
	}
	if cfg.MaxInstructionsLength != 2000 {
		t.Errorf("MaxInstructionsLength = %d, want 2000", cfg.MaxInstructionsLength)
	}
	if cfg.MaxResponseSize != 1000 {
		t.Errorf("MaxResponseSize = %d, want 1000", cfg.MaxResponseSize)
	}
	if cfg.Production() {
		t.Error("default environment must not be production")
	}
	if cfg.Debug || cfg.ErrorDetails {
		t.Error("diagnostic toggles must default off")
	}
}

func TestEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("RISEN_DB_PATH", "/tmp/test-risen.db")
	t.Setenv("MAX_STEPS_COUNT", "7")
	t.Setenv("ENABLE_ERROR_DETAILS", "true")

	setDefaults()
	bindEnvVariables()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if cfg.DBPath != "/tmp/test-risen.db" {
		t.Errorf("DBPath = %q, want env override", cfg.DBPath)
	}
	if cfg.MaxStepsCount != 7 {
		t.Errorf("MaxStepsCount = %d, want 7", cfg.MaxStepsCount)
	}
	if !cfg.ErrorDetails {
		t.Error("ErrorDetails should be overridden to true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.DBPath = "" },
			wantErr: ErrInvalidDBPath,
		},
		{
			name:    "zero limit",
			mutate:  func(c *Config) { c.MaxTagsCount = 0 },
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "negative limit",
			mutate:  func(c *Config) { c.MaxResponseSize = -1 },
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Environment = "staging" },
			wantErr: ErrInvalidEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("nil config", func(t *testing.T) {
		var cfg *Config
		if err := cfg.Validate(); !errors.Is(err, ErrConfigNil) {
			t.Errorf("Validate() = %v, want ErrConfigNil", err)
		}
	})
}

func TestLimitWarnings(t *testing.T) {
	cfg := defaultConfig(t)
	if issues := cfg.LimitWarnings(); len(issues) != 0 {
		t.Errorf("defaults produced warnings: %v", issues)
	}

	cfg.MaxTemplateSize = 60000
	cfg.MaxResponseSize = 20000
	cfg.Environment = EnvProduction
	cfg.ErrorDetails = true
	if issues := cfg.LimitWarnings(); len(issues) != 3 {
		t.Errorf("LimitWarnings() = %v, want 3 issues", issues)
	}
}

func TestExposeErrorDetails(t *testing.T) {
	cfg := defaultConfig(t)

	if cfg.ExposeErrorDetails() {
		t.Error("details must be suppressed by default")
	}

	cfg.ErrorDetails = true
	if !cfg.ExposeErrorDetails() {
		t.Error("details should be exposed in development when enabled")
	}

	cfg.Environment = EnvProduction
	if cfg.ExposeErrorDetails() {
		t.Error("details must never be exposed in production")
	}
}
