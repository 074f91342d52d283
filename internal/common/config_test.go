package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renamer.toml")
	toml := `
[properties]
backend = "redis"
principal = "alice"

[redis]
addr = "redis:6379"

[gemini]
timeout = "30s"
`
	if err := os.WriteFile(path, []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PROPERTIES_PRINCIPAL", "bob")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Properties.Backend != "redis" || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("file values not applied: %+v", cfg.Properties)
	}
	if cfg.Properties.Principal != "bob" {
		t.Fatalf("env override not applied: %s", cfg.Properties.Principal)
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.Gemini.Timeout)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("default driver lost: %s", cfg.Database.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Provider != "local" || cfg.Gemini.BaseURL == "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestValidateRejectsUnknownBackends(t *testing.T) {
	cfg := defaultConfig()
	cfg.Properties.Backend = "etcd"
	cfg.Storage.Provider = "gcs"

	err := cfg.Validate()
	var appErr *AppError
	if !errors.As(err, &appErr) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want AppError wrapping ErrInvalidInput", err)
	}
}

func TestConfigMissingConfiguration(t *testing.T) {
	if err := MissingConfiguration("apiKey"); !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("err = %v", err)
	}
}
