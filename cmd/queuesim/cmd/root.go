// Package cmd provides the command-line interface of queuesim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// NewRootCmd creates the queuesim command with all its subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "queuesim",
		Short: "Simulate a single-server shop and report its queueing statistics.",
		Long: `queuesim simulates customers arriving at a shop, queueing for a ` +
			`server and leaving once served. The shop closes after its working ` +
			`duration and serves everybody still inside before it stops.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "",
		"YAML file holding the shop configuration")
	rootCmd.PersistentFlags().String("env-file", ".env",
		"file of QUEUESIM_* variables loaded before the environment is read")

	addShopFlags(rootCmd)

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the command line and exits, flushing recorders on the way.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
