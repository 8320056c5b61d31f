package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/delveteams/freshbooks-invoice-summary/internal/config"
	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

var version = "1.0.0"

// cfg holds the environment-backed defaults loaded in main.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "freshbooks-invoice-summary",
	Short: "Combine FreshBooks invoice-detail exports into one report",
	Long: `freshbooks-invoice-summary aggregates per-line-item invoice export
files from FreshBooks into per-invoice totals, merges the currency-segmented
reports and writes a single sorted CSV plus a console summary.

See the "combine" subcommand for the main workflow.`,
	Version: version,
	// Execute prints the single diagnostic line itself; cobra's own error
	// echo and usage dump would repeat it on every failed run.
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute(c *config.Config) {
	cfg = c
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
