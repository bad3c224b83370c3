package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/metalagman/bughunt/internal/config"
	"github.com/metalagman/bughunt/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "BUGHUNT"

var (
	cfgFile string
	debug   bool
	appCfg  = config.Default()
	rootCmd = &cobra.Command{
		Use:           "bughunt",
		Short:         "bughunt is a task list with ten planted defects to find",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		repoRoot, err := os.Getwd()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(repoRoot)
		if err != nil {
			logging.Init(debug, "")
			return err
		}
		appCfg = cfg
		logging.Init(debug, cfg.Log.Format)
		return nil
	}
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(bugCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(playCmd())
	return rootCmd.Execute()
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
}
