// Command dashboard serves the project dashboard API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Project progress dashboard",
	Long: `dashboard tracks features, UI/UX tasks, roadmap phases and the tech stack
of a set of projects, backed by Firestore, Redis, Postgres or process memory.

Running it without a subcommand starts the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedPrintCmd)
}
