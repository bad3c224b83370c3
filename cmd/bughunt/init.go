package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/bughunt/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new bughunt project",
		Long:  "Initialize a new bughunt project by creating the .bughunt directory and installing a default config.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			configPath, created, err := initProject(repoRoot)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Str("path", configPath).Msg("config already exists, skipping")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "bughunt initialized successfully")
			return nil
		},
	}
}

func initProject(repoRoot string) (string, bool, error) {
	dir := filepath.Join(repoRoot, config.DefaultDir)
	log.Info().Str("dir", dir).Msg("creating bughunt directory")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create bughunt dir: %w", err)
	}

	configPath := filepath.Join(repoRoot, defaultConfigPath)
	if _, err := os.Stat(configPath); err == nil {
		return configPath, false, nil
	}
	log.Info().Str("path", configPath).Msg("installing default config")
	data, err := defaultConfigYAML()
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write default config: %w", err)
	}
	return configPath, true, nil
}

func defaultConfigYAML() ([]byte, error) {
	def := config.Default()
	doc := map[string]any{
		"storage": map[string]any{
			"driver": def.Storage.Driver,
			"path":   def.Storage.Path,
		},
		"server": map[string]any{
			"addr":             def.Server.Addr,
			"shutdown_timeout": def.Server.ShutdownTimeout.String(),
		},
		"game": map[string]any{
			"hint_threshold": def.Game.HintThreshold,
		},
		"log": map[string]any{
			"format": def.Log.Format,
		},
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}
	return data, nil
}
