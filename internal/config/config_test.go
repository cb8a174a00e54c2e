package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		LogLevel:    "info",
		LogFormat:   "text",
		DBPath:      "./test.db",
		Workers:     1,
		HouseName:   "Housetub",
		HouseEmail:  "housetub@gmail.com",
		SquareEmail: "cash@square.com",
		GroupEmail:  "housetub@googlegroups.com",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "log level is case insensitive",
			modify:  func(c *Config) { c.LogLevel = "DEBUG" },
			wantErr: false,
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
		{
			name:        "empty database path",
			modify:      func(c *Config) { c.DBPath = "" },
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name:        "zero workers",
			modify:      func(c *Config) { c.Workers = 0 },
			wantErr:     true,
			errorString: "invalid workers 0: must be at least 1",
		},
		{
			name:        "too many workers",
			modify:      func(c *Config) { c.Workers = 1000 },
			wantErr:     true,
			errorString: "invalid workers 1000: must be at most 256",
		},
		{
			name:        "metrics directory missing",
			modify:      func(c *Config) { c.MetricsFile = "/nonexistent/dir/housesplit.prom" },
			wantErr:     true,
			errorString: "metrics file directory does not exist: /nonexistent/dir",
		},
		{
			name:        "invalid email",
			modify:      func(c *Config) { c.GroupEmail = "not an address" },
			wantErr:     true,
			errorString: "invalid GROUP_EMAIL 'not an address'",
		},
		{
			name:    "empty email is allowed",
			modify:  func(c *Config) { c.SquareEmail = "" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "loud"
	cfg.Workers = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want error")
	}
	for _, want := range []string{"invalid log level", "invalid workers -1"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error = %v, want error containing %v", err, want)
		}
	}
}

func TestConfig_ValidateMetricsFile(t *testing.T) {
	cfg := validConfig()
	cfg.MetricsFile = filepath.Join(t.TempDir(), "housesplit.prom")
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() error = %v, want nil", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "DB_PATH", "HOUSE", "WORKERS", "METRICS_FILE", "HOUSE_NAME"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		if cfg.LogLevel != "info" {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
		if cfg.DBPath != "./data/housesplit.db" {
			t.Errorf("Load() DBPath = %v, want ./data/housesplit.db", cfg.DBPath)
		}
		if cfg.Workers != 1 {
			t.Errorf("Load() Workers = %v, want 1", cfg.Workers)
		}
		if cfg.HouseName != "Housetub" {
			t.Errorf("Load() HouseName = %v, want Housetub", cfg.HouseName)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("default config should validate, got %v", err)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("DB_PATH", "/tmp/house.db")
		t.Setenv("HOUSE", "Annex")
		t.Setenv("WORKERS", "8")

		cfg := Load()
		if cfg.LogFormat != "json" {
			t.Errorf("Load() LogFormat = %v, want json", cfg.LogFormat)
		}
		if cfg.DBPath != "/tmp/house.db" {
			t.Errorf("Load() DBPath = %v, want /tmp/house.db", cfg.DBPath)
		}
		if cfg.House != "Annex" {
			t.Errorf("Load() House = %v, want Annex", cfg.House)
		}
		if cfg.Workers != 8 {
			t.Errorf("Load() Workers = %v, want 8", cfg.Workers)
		}
	})

	t.Run("unparsable integer falls back to default", func(t *testing.T) {
		t.Setenv("WORKERS", "many")
		if cfg := Load(); cfg.Workers != 1 {
			t.Errorf("Load() Workers = %v, want 1", cfg.Workers)
		}
	})
}
