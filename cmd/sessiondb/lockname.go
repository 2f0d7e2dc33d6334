package main

import (
	"fmt"

	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/spf13/cobra"
)

var locknameCmd = &cobra.Command{
	Use:   "lockname <session-key>",
	Short: "Print the lock name and advisory keys derived from a session key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := lock.Name(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "name:       %s\n", name)
		fmt.Fprintf(cmd.OutOrStdout(), "advisory32: %d\n", lock.AdvisoryKey(name, lock.Width32))
		fmt.Fprintf(cmd.OutOrStdout(), "advisory64: %d\n", lock.AdvisoryKey(name, lock.Width64))
	},
}

func init() {
	rootCmd.AddCommand(locknameCmd)
}
