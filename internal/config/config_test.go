package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Fatalf("storage driver = %q, want %q", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.Game.HintThreshold != 3 {
		t.Fatalf("hint threshold = %d, want 3", cfg.Game.HintThreshold)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("shutdown timeout = %s, want 5s", cfg.Server.ShutdownTimeout)
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.Path = "" }},
		{name: "file without path", mutate: func(c *Config) { c.Storage.Driver = DriverFile; c.Storage.Path = "" }},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = -time.Second }},
		{name: "negative hint threshold", mutate: func(c *Config) { c.Game.HintThreshold = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate returned nil error, want error")
			}
		})
	}
}

func TestValidate_MemoryNeedsNoPath(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Storage = Storage{Driver: DriverMemory}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateSettings_AcceptsKnownShape(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"storage": map[string]any{"driver": "file", "path": "state.yaml", "format": "yaml"},
		"server":  map[string]any{"addr": ":9090", "shutdown_timeout": "3s"},
		"game":    map[string]any{"hint_threshold": 2},
		"log":     map[string]any{"format": "json"},
	}
	if err := ValidateSettings(settings); err != nil {
		t.Fatalf("ValidateSettings() error = %v", err)
	}
	if err := ValidateSettings(nil); err != nil {
		t.Fatalf("ValidateSettings(nil) error = %v", err)
	}
}

func TestValidateSettings_RejectsUnknownDriverAndKeys(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]any{
		"unknown driver": {"storage": map[string]any{"driver": "redis"}},
		"unknown key":    {"agents": map[string]any{}},
		"hint too large": {"game": map[string]any{"hint_threshold": 11}},
	}
	for name, settings := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSettings(settings)
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("ValidateSettings() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestValidateSettings_ReportsFieldPaths(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{
		"storage": map[string]any{"driver": "redis"},
		"log":     map[string]any{"format": "xml"},
	})
	require.ErrorIs(t, err, ErrInvalidSettings)
	msg := err.Error()
	assert.Contains(t, msg, "log.format: ")
	assert.Contains(t, msg, "storage.driver: ")
	assert.Less(t, strings.Index(msg, "log.format"), strings.Index(msg, "storage.driver"))
}
