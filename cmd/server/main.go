// Package main is the entry point for the encounter API server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "encounter-api",
	Short: "Encounter orchestration and validation engine",
	Long: `encounter-api plans, validates, and adapts tabletop encounters for the
campaign assistant: XP-budgeted generation against a bundled rule dataset,
balance validation, cooldown-gated triggering, and telemetry-driven
difficulty adjustment.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
