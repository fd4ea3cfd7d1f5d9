// Command cachesim drives the container-pool simulator core against a
// catalog and trace, the way a batch experiment runner would: it is the
// external collaborator the core spec explicitly leaves out (trace
// loading, CLI parsing, on-disk logs), wired up as a thin cobra CLI
// over the internal packages.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "cachesim",
		Short: "cachesim - serverless function-cache pool simulator",
		Long:  "Replay a function invocation trace against a bounded-memory warm-container pool under a configurable eviction policy.",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a JSON config file (optional, flags and env override)")

	rootCmd.AddCommand(
		runCmd(),
		replayCmd(),
		sweepCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the cachesim version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "cachesim 1.0.0")
			return nil
		},
	}
}
