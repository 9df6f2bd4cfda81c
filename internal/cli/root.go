// Copyright 2025 ao Authors

// Package cli implements the qlincheck command line tool: verification,
// benchmarking and host inspection for the 6-bit quantized linear kernels.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set by main from ldflags or "dev".
var Version string

var (
	globalJSON  bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "qlincheck",
	Short: "Verify and benchmark the 6-bit quantized linear kernels",
	Long:  "qlincheck exercises the fused 6-bit weight-only quantized matmul kernels on the current host: verify compares every kernel specialization against a float64 reference, bench measures throughput, and system reports what the dispatcher detected.",
	RunE:  runVerify,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			if Version == "" {
				Version = "dev"
			}
			fmt.Println(Version)
			os.Exit(0)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&globalJSON, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Print version and exit")

	rootCmd.AddCommand(verifyCmd, benchCmd, systemCmd)
}

// Execute runs the root command. Returns error for exit code handling.
func Execute() error {
	return rootCmd.Execute()
}
