// Package config provides configuration loading and management for bughunt.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// DefaultDir is the per-project state directory.
const DefaultDir = ".bughunt"

// Config is the root configuration.
type Config struct {
	Storage Storage `json:"storage" mapstructure:"storage"`
	Server  Server  `json:"server"  mapstructure:"server"`
	Game    Game    `json:"game"    mapstructure:"game"`
	Log     Log     `json:"log"     mapstructure:"log"`
}

// Storage selects the key-value backend that holds tasks and found defects.
type Storage struct {
	Driver string `json:"driver"           mapstructure:"driver"`
	Path   string `json:"path,omitempty"   mapstructure:"path"`
	Format string `json:"format,omitempty" mapstructure:"format"`
}

// Server configures the HTTP UI.
type Server struct {
	Addr            string        `json:"addr"             mapstructure:"addr"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Game holds exercise tuning.
type Game struct {
	HintThreshold int `json:"hint_threshold" mapstructure:"hint_threshold"`
}

// Log configures the global logger.
type Log struct {
	Format string `json:"format,omitempty" mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver: DriverSQLite,
			Path:   filepath.Join(DefaultDir, "bughunt.db"),
		},
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Game: Game{HintThreshold: 3},
		Log:  Log{Format: "console"},
	}
}

// Validate checks semantic constraints the schema cannot express.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite, DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be >= 0")
	}
	if c.Game.HintThreshold < 0 {
		return fmt.Errorf("game.hint_threshold must be >= 0")
	}
	return nil
}
