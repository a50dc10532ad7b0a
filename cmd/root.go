package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"indiamart-etl/config"
)

var rootCmd = &cobra.Command{
	Use:   "indiamart-etl",
	Short: "Scrapes IndiaMART listing pages and builds a cleaned product dataset.",
}

// Execute runs the CLI, exiting non-zero on any fatal error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the application configuration
func loadConfig() (*config.Config, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
