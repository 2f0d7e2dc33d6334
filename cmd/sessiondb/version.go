package main

import (
	"fmt"

	"github.com/aretw0/sessiondb"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sessiondb",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sessiondb version %s\n", sessiondb.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
