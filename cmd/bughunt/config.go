package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/bughunt/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var defaultConfigPath = filepath.Join(config.DefaultDir, "config.yaml")

func resolveConfigPath(repoRoot, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoRoot, path)
}

// loadConfig reads the config file named by the "config" setting, applies
// BUGHUNT_* environment overrides on top of the built-in defaults, and
// validates the result. A missing file yields the defaults.
func loadConfig(repoRoot string) (config.Config, error) {
	path := resolveConfigPath(repoRoot, viper.GetString("config"))

	v := viper.New()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		v.SetConfigType("json")
	default:
		v.SetConfigType("yaml")
	}
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := config.ValidateSettings(v.AllSettings()); err != nil {
			return config.Config{}, err
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("path", path).Msg("config file not found, using defaults")
	} else {
		return config.Config{}, fmt.Errorf("stat config: %w", err)
	}

	setDefaults(v, config.Default())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg config.Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(repoRoot, cfg.Storage.Path)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def config.Config) {
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.format", def.Storage.Format)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout.String())
	v.SetDefault("game.hint_threshold", def.Game.HintThreshold)
	v.SetDefault("log.format", def.Log.Format)
}
