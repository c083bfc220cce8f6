package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/config"
	"sift/internal/logging"
	"sift/internal/snapshot"
	"sift/internal/version"
)

var (
	// projectRoot is the CLI --root flag value
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "sift - incremental save-analysis loader",
	Long: `sift loads compiler-produced save-analysis artifacts for a multi-unit
codebase and keeps an on-disk freshness snapshot, so repeated scans only
re-read artifacts that changed.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("sift version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".",
		"Project root containing the .sift directory")
}

// mustLoadConfig loads configuration or exits
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the logger configured in cfg
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

// mustOpenStore opens the snapshot store or exits
func mustOpenStore(logger *logging.Logger) *snapshot.Store {
	store, err := snapshot.Open(projectRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening snapshot store: %v\n", err)
		os.Exit(1)
	}
	return store
}
