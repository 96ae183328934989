package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewViperLoader("", "QUERYKIT")

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Logger.Level != "info" || cfg.Logger.Format != "json" {
		t.Errorf("logger defaults = %+v", cfg.Logger)
	}
	if cfg.Postgres.MaxOpenConns != 25 || cfg.Postgres.MaxIdleConns != 5 {
		t.Errorf("postgres pool defaults = %+v", cfg.Postgres)
	}
	if cfg.Postgres.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 5m", cfg.Postgres.ConnMaxLifetime)
	}
	if cfg.MongoDB.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want 5s", cfg.MongoDB.ConnectTimeout)
	}
	if cfg.OpenSearch.MaxConns != 10 {
		t.Errorf("MaxConns = %d, want 10", cfg.OpenSearch.MaxConns)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
logger:
  level: debug
  format: console
postgres:
  url: postgres://localhost:5432/app
  max_open_conns: 50
mongodb:
  url: mongodb://localhost:27017
  database: app
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewViperLoader(path, "QUERYKIT").Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "console" {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.Postgres.URL != "postgres://localhost:5432/app" {
		t.Errorf("postgres url = %q", cfg.Postgres.URL)
	}
	if cfg.Postgres.MaxOpenConns != 50 {
		t.Errorf("MaxOpenConns = %d, want 50", cfg.Postgres.MaxOpenConns)
	}
	// Untouched keys keep their defaults.
	if cfg.Postgres.MaxIdleConns != 5 {
		t.Errorf("MaxIdleConns = %d, want default 5", cfg.Postgres.MaxIdleConns)
	}
	if cfg.MongoDB.Database != "app" {
		t.Errorf("mongodb database = %q", cfg.MongoDB.Database)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	content := `
logger:
  level: info
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("QUERYKIT_LOG_LEVEL", "warn")
	t.Setenv("QUERYKIT_POSTGRES_URL", "postgres://db:5432/app")
	t.Setenv("QUERYKIT_POSTGRES_MAX_OPEN_CONNS", "100")

	cfg, err := NewViperLoader(path, "QUERYKIT").Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Logger.Level != "warn" {
		t.Errorf("Level = %q, want env override warn", cfg.Logger.Level)
	}
	if cfg.Postgres.URL != "postgres://db:5432/app" {
		t.Errorf("postgres url = %q", cfg.Postgres.URL)
	}
	if cfg.Postgres.MaxOpenConns != 100 {
		t.Errorf("MaxOpenConns = %d, want 100", cfg.Postgres.MaxOpenConns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := NewViperLoader("/nonexistent/config.yaml", "QUERYKIT").Load(); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	loader := NewViperLoader("", "QUERYKIT")

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"warn level", func(c *Config) { c.Logger.Level = "warn" }, false},
		{"unknown level", func(c *Config) { c.Logger.Level = "verbose" }, true},
		{"unknown format", func(c *Config) { c.Logger.Format = "xml" }, true},
		{"negative pool", func(c *Config) { c.Postgres.MaxOpenConns = -1 }, true},
		{"negative mysql pool", func(c *Config) { c.MySQL.MaxIdleConns = -1 }, true},
		{"mongodb url without database", func(c *Config) { c.MongoDB.URL = "mongodb://localhost" }, true},
		{"mongodb url with database", func(c *Config) {
			c.MongoDB.URL = "mongodb://localhost"
			c.MongoDB.Database = "app"
		}, false},
		{"negative opensearch conns", func(c *Config) { c.OpenSearch.MaxConns = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := loader.Validate(&cfg)
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate returned error: %v", err)
			}
		})
	}
}
