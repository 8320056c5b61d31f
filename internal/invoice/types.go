package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem represents a single row from a FreshBooks invoice-detail export.
// Several line items share one invoice; the aggregator folds them together.
type LineItem struct {
	ClientName    string          // Client Name
	InvoiceNumber string          // Invoice # (may contain non-digit characters, e.g. "INV-0042")
	DateIssued    string          // Date Issued
	InvoiceStatus string          // Invoice Status ("sent", "overdue", ...)
	DatePaid      string          // Date Paid (empty when unpaid)
	Currency      string          // Currency code (EUR, USD, ...)
	Subtotal      decimal.Decimal // Line Subtotal
	Tax1          decimal.Decimal // Tax 1 Amount (0 when column or cell absent)
	Tax2          decimal.Decimal // Tax 2 Amount (0 when column or cell absent)
	LineTotal     decimal.Decimal // Line Total
}

// InvoiceRecord is one aggregated invoice: the summed monetary fields over
// all line items sharing the same grouping key, plus the derived payment
// status. Records are built once by the aggregator and never mutated.
type InvoiceRecord struct {
	Client        string
	InvoiceNumber string
	IssuedDate    string
	AmountPreTax  decimal.Decimal // sum of line subtotals, rounded to 2 places
	Tax           decimal.Decimal // sum of both tax columns, rounded to 2 places
	TotalAmount   decimal.Decimal // sum of line totals, rounded to 2 places
	Currency      string
	PaymentStatus string
	DatePaid      *string // nil when the invoice is unpaid
}

// groupKey identifies one invoice within a report. Two line items belong to
// the same invoice iff all six fields compare equal. DatePaid is the
// normalized form: absent values map to "" so that rows differing only in
// how "unpaid" was spelled still group together.
type groupKey struct {
	Client        string
	InvoiceNumber string
	DateIssued    string
	Status        string
	DatePaid      string
	Currency      string
}

// derivePaymentStatus returns "paid" when the invoice carries a paid date,
// otherwise the status FreshBooks exported.
func derivePaymentStatus(datePaid, originalStatus string) string {
	if strings.TrimSpace(datePaid) != "" {
		return "paid"
	}
	return originalStatus
}
