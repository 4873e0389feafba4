package commands

import (
	"fmt"
	"os"

	"bookshare-backend/internal/config"
	"bookshare-backend/internal/logger"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	dbURL      string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookctl",
	Short: "Operator tool for the book redistribution backend",
	Long: `bookctl runs maintenance tasks against the book redistribution database.

The database URL comes from --db when set, otherwise from the config file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		logger.Initialize(level, "text")
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides the config file)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// databaseURL resolves the connection string from --db or the config file.
func databaseURL() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}
	return cfg.GetDatabaseConnectionString(), nil
}
