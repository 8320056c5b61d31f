package invoice

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// previewSize is how many invoices the console summary shows as a preview.
const previewSize = 5

// CurrencySummary holds the per-currency rollup of the combined report.
type CurrencySummary struct {
	Currency     string
	Count        int
	AmountPreTax decimal.Decimal
	Tax          decimal.Decimal
	TotalAmount  decimal.Decimal
}

// StatusSummary holds the per-payment-status invoice count.
type StatusSummary struct {
	Status string
	Count  int
}

// Summary is the read-only rollup of a combined report, computed for display.
type Summary struct {
	TotalInvoices int
	TaxBreakdown  bool
	ByCurrency    []CurrencySummary
	ByStatus      []StatusSummary
	Preview       []InvoiceRecord
}

// Summarize computes count and sum statistics over the merged report. It
// never mutates the input; currencies and statuses come back sorted so the
// rendered summary is deterministic.
func Summarize(records []InvoiceRecord, taxBreakdown bool) Summary {
	summary := Summary{
		TotalInvoices: len(records),
		TaxBreakdown:  taxBreakdown,
		Preview:       records[:min(previewSize, len(records))],
	}

	byCurrency := lo.GroupBy(records, func(record InvoiceRecord) string {
		return record.Currency
	})
	for _, currency := range sortedKeys(byCurrency) {
		group := byCurrency[currency]
		rollup := CurrencySummary{Currency: currency, Count: len(group)}
		for _, record := range group {
			rollup.AmountPreTax = rollup.AmountPreTax.Add(record.AmountPreTax)
			rollup.Tax = rollup.Tax.Add(record.Tax)
			rollup.TotalAmount = rollup.TotalAmount.Add(record.TotalAmount)
		}
		rollup.AmountPreTax = rollup.AmountPreTax.Round(2)
		rollup.Tax = rollup.Tax.Round(2)
		rollup.TotalAmount = rollup.TotalAmount.Round(2)
		summary.ByCurrency = append(summary.ByCurrency, rollup)
	}

	byStatus := lo.GroupBy(records, func(record InvoiceRecord) string {
		return record.PaymentStatus
	})
	for _, status := range sortedKeys(byStatus) {
		summary.ByStatus = append(summary.ByStatus, StatusSummary{
			Status: status,
			Count:  len(byStatus[status]),
		})
	}

	return summary
}

// Render prints the human-readable summary block.
func (s Summary) Render(w io.Writer) {
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "Total invoices: %d\n", s.TotalInvoices)

	fmt.Fprintf(w, "\nBy currency:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if s.TaxBreakdown {
		fmt.Fprintln(tw, "currency\tcount\tamount_pre_tax\ttax\ttotal_amount")
		for _, rollup := range s.ByCurrency {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
				rollup.Currency, rollup.Count,
				rollup.AmountPreTax.StringFixed(2),
				rollup.Tax.StringFixed(2),
				rollup.TotalAmount.StringFixed(2))
		}
	} else {
		fmt.Fprintln(tw, "currency\tcount\ttotal_amount")
		for _, rollup := range s.ByCurrency {
			fmt.Fprintf(tw, "%s\t%d\t%s\n",
				rollup.Currency, rollup.Count, rollup.TotalAmount.StringFixed(2))
		}
	}
	tw.Flush()

	fmt.Fprintf(w, "\nBy status:\n")
	for _, status := range s.ByStatus {
		fmt.Fprintf(w, "%s: %d\n", status.Status, status.Count)
	}

	fmt.Fprintf(w, "\nFirst %d invoices:\n", len(s.Preview))
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "client\tinvoice_number\tissued_date\tamount\tcurrency\tpayment_status")
	for _, record := range s.Preview {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			record.Client, record.InvoiceNumber, record.IssuedDate,
			record.TotalAmount.StringFixed(2), record.Currency, record.PaymentStatus)
	}
	tw.Flush()
}

// sortedKeys returns the keys of a grouped map in sorted order.
func sortedKeys[V any](groups map[string][]V) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
