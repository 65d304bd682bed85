package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inspect the starter project",
}

var seedPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective seed project as YAML",
	Long: `Print the project that is created when a store is empty.

Examples:
  # Print the built-in demo project
  dashboard seed print

  # Check a custom seed file before pointing DASHBOARD_SEED_FILE at it
  dashboard seed print --file ./seed.yaml`,
	Args: cobra.NoArgs,
	RunE: runSeedPrint,
}

func init() {
	seedPrintCmd.Flags().StringVar(&seedFile, "file", "", "seed file (defaults to DASHBOARD_SEED_FILE, then the built-in project)")
}

func runSeedPrint(cmd *cobra.Command, _ []string) error {
	path := seedFile
	if path == "" {
		_ = godotenv.Load()
		path = os.Getenv("DASHBOARD_SEED_FILE")
	}

	p, err := domain.LoadSeed(path)
	if err != nil {
		return err
	}
	out, err := domain.MarshalSeed(p)
	if err != nil {
		return fmt.Errorf("render seed: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
