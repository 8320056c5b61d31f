package invoice

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

// Aggregator folds line items into one record per invoice.
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new invoice aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		log: logger.WithComponent("invoice-aggregator"),
	}
}

// runningTotals accumulates the three monetary sums of one invoice.
type runningTotals struct {
	subtotal decimal.Decimal
	tax      decimal.Decimal
	total    decimal.Decimal
}

// Aggregate groups line items by the six-field invoice key and sums their
// monetary columns. Records come back in first-seen key order, so identical
// input always yields identical output.
//
// Sums are rounded to 2 decimal places after summation, half up. Rounding
// per line instead would let sub-cent line amounts drift the invoice total.
func (a *Aggregator) Aggregate(items []LineItem) []InvoiceRecord {
	sums := make(map[groupKey]*runningTotals, len(items))
	order := make([]groupKey, 0, len(items))

	for _, item := range items {
		// A missing Date Paid cell decodes as "", which doubles as the
		// normalized "no value" sentinel for grouping.
		key := groupKey{
			Client:        item.ClientName,
			InvoiceNumber: item.InvoiceNumber,
			DateIssued:    item.DateIssued,
			Status:        item.InvoiceStatus,
			DatePaid:      item.DatePaid,
			Currency:      item.Currency,
		}

		totals, ok := sums[key]
		if !ok {
			totals = &runningTotals{}
			sums[key] = totals
			order = append(order, key)
		}

		totals.subtotal = totals.subtotal.Add(item.Subtotal)
		totals.tax = totals.tax.Add(item.Tax1).Add(item.Tax2)
		totals.total = totals.total.Add(item.LineTotal)
	}

	a.warnSplitInvoices(order)

	records := make([]InvoiceRecord, 0, len(order))
	for _, key := range order {
		totals := sums[key]

		record := InvoiceRecord{
			Client:        key.Client,
			InvoiceNumber: key.InvoiceNumber,
			IssuedDate:    key.DateIssued,
			AmountPreTax:  totals.subtotal.Round(2),
			Tax:           totals.tax.Round(2),
			TotalAmount:   totals.total.Round(2),
			Currency:      key.Currency,
			PaymentStatus: derivePaymentStatus(key.DatePaid, key.Status),
		}
		if key.DatePaid != "" {
			datePaid := key.DatePaid
			record.DatePaid = &datePaid
		}

		records = append(records, record)
	}

	a.log.Info().
		Int("line_items", len(items)).
		Int("invoices", len(records)).
		Msg("Line items aggregated")

	return records
}

// warnSplitInvoices flags invoice numbers that appear under more than one
// grouping key. Inconsistent status or date metadata across rows of the same
// invoice silently splits it into multiple output records, which is almost
// always a data-entry problem in the export.
func (a *Aggregator) warnSplitInvoices(keys []groupKey) {
	seen := make(map[string]int, len(keys))
	for _, key := range keys {
		seen[key.InvoiceNumber]++
	}
	for _, key := range keys {
		if n := seen[key.InvoiceNumber]; n > 1 {
			a.log.Warn().
				Str("invoice_number", key.InvoiceNumber).
				Int("distinct_keys", n).
				Msg("Invoice number appears under multiple grouping keys, records will be split")
			seen[key.InvoiceNumber] = 0 // warn once per invoice number
		}
	}
}
