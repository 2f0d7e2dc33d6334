package main

import (
	"fmt"

	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/aretw0/sessiondb/pkg/sqlstore"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or apply the session table DDL",
	Long: `Prints the CREATE TABLE statement for the configured driver and table.
The lock column is included when the row-flag backend is selected.
With --apply the table is created in the configured database instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		apply, _ := cmd.Flags().GetBool("apply")
		if apply {
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			a, err := openApp(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.runtime.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table %q ready\n", cfg.Database.Table)
			return nil
		}

		dialect, err := sqlstore.DialectFor(cfg.Database.Driver)
		if err != nil {
			return err
		}
		b, ok := lock.ParseBackend(cfg.Lock.Backend)
		fmt.Fprintln(cmd.OutOrStdout(), sqlstore.Schema(dialect, cfg.Database.Table, ok && b == lock.BackendRowFlag))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().Bool("apply", false, "Create the table in the configured database")
}
