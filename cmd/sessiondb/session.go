package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored sessions",
	Long:  `List, inspect, remove and expire session rows.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openFromFlags(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.runtime.Store().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("listing sessions: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions found.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Sessions:")
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "- %s  %s\n", e.Key, e.CreatedAt.Format(time.DateOnly))
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-key>",
	Short: "Decrypt and print the data of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openFromFlags(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		rec, err := a.runtime.Store().Read(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("loading session '%s': %w", args[0], err)
		}
		plain, err := a.codec.Decrypt(rec.Data)
		if err != nil {
			return fmt.Errorf("session '%s': %w: %w", args[0], domain.ErrCorruptPayload, err)
		}

		var data map[string]any
		if len(plain) > 0 {
			if err := json.Unmarshal(plain, &data); err != nil {
				return fmt.Errorf("session '%s': %w: %w", args[0], domain.ErrCorruptPayload, err)
			}
		}

		out, err := json.MarshalIndent(map[string]any{
			"key":        rec.Key,
			"created_at": rec.CreatedAt.Format(time.DateOnly),
			"data":       data,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-key>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openFromFlags(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		store := a.runtime.Store()
		var errs []error
		for _, key := range args {
			if err := store.Delete(cmd.Context(), key); err != nil {
				errs = append(errs, fmt.Errorf("removing '%s': %w", key, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", key)
		}
		return errors.Join(errs...)
	},
}

var sessionGCCmd = &cobra.Command{
	Use:   "gc",
	Short: "Delete sessions older than session.max_age",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openFromFlags(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		maxAge := a.cfg.Session.MaxAge
		if v, _ := cmd.Flags().GetDuration("max-age"); v > 0 {
			maxAge = v
		}
		n, err := a.runtime.Store().GC(cmd.Context(), time.Now().Add(-maxAge))
		if err != nil {
			return fmt.Errorf("collecting sessions: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d session(s) older than %s\n", n, maxAge)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionGCCmd)
	sessionGCCmd.Flags().Duration("max-age", 0, "Override session.max_age")
}

// openFromFlags loads the configuration and opens the runtime without metrics.
func openFromFlags(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return openApp(cfg, logger, nil)
}
