package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/sessiondb/internal/config"
	"github.com/aretw0/sessiondb/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sessiondb",
	Short: "Relational session store with cross-backend session locking",
	Long: `sessiondb keeps server-side web sessions in a SQL table and serializes
concurrent session reads with the lock primitive of the backend (MySQL named
locks, PostgreSQL advisory locks, a row flag, or Redis).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON configuration file")
	rootCmd.PersistentFlags().String("driver", "", "Database driver (sqlite3, mysql, postgres); overrides the config file")
	rootCmd.PersistentFlags().String("dsn", "", "Database DSN; overrides the config file")
	rootCmd.PersistentFlags().String("backend", "", "Lock backend (named, advisory, rowflag, redis); overrides the config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("driver"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := cmd.Flags().GetString("dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Lock.Backend = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Log.Format), nil
}
