package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/delveteams/freshbooks-invoice-summary/internal/invoice"
	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

var combineCmd = &cobra.Command{
	Use:   "combine <file>...",
	Short: "Aggregate invoice-detail exports and combine them into one sorted CSV",
	Long: `Aggregate one or more FreshBooks invoice-detail CSV exports into
per-invoice totals, merge them and write a single combined report sorted by
invoice number (descending).

Each input file is processed independently: line items are grouped by
invoice, monetary columns are summed and rounded to two decimal places, and
the payment status is derived from the Date Paid column. The merged result
is written as one CSV and summarised on the console.

No output file is written if any step fails.`,
	Example: `  # Combine the EUR and USD detail exports
  freshbooks-invoice-summary combine invoice_details_EUR.csv invoice_details_USD.csv

  # Custom output path with tax breakdown columns
  freshbooks-invoice-summary combine invoice_details.csv -o report.csv --tax-breakdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)

	combineCmd.Flags().StringP("output", "o", "combined_invoices.csv", "Path of the combined report CSV")
	combineCmd.Flags().Bool("tax-breakdown", false, "Include amount_pre_tax and tax columns in the output")
}

func runCombine(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("combine")

	output, _ := cmd.Flags().GetString("output")
	taxBreakdown, _ := cmd.Flags().GetBool("tax-breakdown")

	// Env-configured default output path applies when the flag is not given.
	if !cmd.Flags().Changed("output") && cfg != nil && cfg.DefaultOutputFile != "" {
		output = cfg.DefaultOutputFile
	}

	log.Info().
		Strs("inputs", args).
		Str("output", output).
		Bool("tax_breakdown", taxBreakdown).
		Msg("Starting invoice combination")

	loader := invoice.NewLoader()
	aggregator := invoice.NewAggregator()

	groups := make([][]invoice.InvoiceRecord, 0, len(args))
	hasTaxColumns := true
	for _, path := range args {
		fmt.Printf("Processing %s...\n", path)

		result, err := loader.Load(path)
		if err != nil {
			return err
		}
		if !result.HasTaxColumns {
			hasTaxColumns = false
		}

		records := aggregator.Aggregate(result.Items)
		fmt.Printf("Found %d invoices\n", len(records))

		groups = append(groups, records)
	}

	if taxBreakdown && !hasTaxColumns {
		log.Warn().Msg("Tax breakdown requested but some inputs carry no tax columns, missing taxes count as 0")
	}

	merged, err := invoice.NewMerger().Merge(groups...)
	if err != nil {
		return err
	}

	if err := invoice.NewWriter().Write(output, merged, taxBreakdown); err != nil {
		return err
	}
	fmt.Printf("Combined %d invoices saved to %s\n", len(merged), output)

	summary := invoice.Summarize(merged, taxBreakdown)
	summary.Render(os.Stdout)

	log.Info().Int("invoices", len(merged)).Msg("Invoice combination completed successfully")
	return nil
}
