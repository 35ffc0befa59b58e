// Package cli implements the Bloom command-line interface using Cobra.
// Each subcommand maps to a daemon capability (serve, badges, record, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bloom",
	Short: "Bloom — Your personal wellness companion",
	Long: `Bloom is a local-first wellness tracker.
Mood, meditation, journaling, breathing and sleep — with an achievement
system that celebrates progress instead of nagging about it. All data
stays on your device.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
