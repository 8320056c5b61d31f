package invoice

import (
	"bytes"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

// combinedRow is the default output schema, matching the columns the billing
// team's spreadsheet imports expect.
type combinedRow struct {
	Client        string `csv:"client"`
	InvoiceNumber string `csv:"invoice_number"`
	IssuedDate    string `csv:"issued_date"`
	Amount        string `csv:"amount"`
	Currency      string `csv:"currency"`
	PaymentStatus string `csv:"payment_status"`
	DatePaid      string `csv:"date_paid"`
}

// combinedTaxRow is the tax-breakdown output schema variant.
type combinedTaxRow struct {
	Client        string `csv:"client"`
	InvoiceNumber string `csv:"invoice_number"`
	IssuedDate    string `csv:"issued_date"`
	AmountPreTax  string `csv:"amount_pre_tax"`
	Tax           string `csv:"tax"`
	TotalAmount   string `csv:"total_amount"`
	Currency      string `csv:"currency"`
	PaymentStatus string `csv:"payment_status"`
	DatePaid      string `csv:"date_paid"`
}

// Writer persists the merged report as a CSV file.
type Writer struct {
	log zerolog.Logger
}

// NewWriter creates a new report writer.
func NewWriter() *Writer {
	return &Writer{
		log: logger.WithComponent("report-writer"),
	}
}

// Write renders the merged records and writes them to path in one shot. The
// whole file is rendered in memory first so a failure never leaves a partial
// report on disk.
func (w *Writer) Write(path string, records []InvoiceRecord, taxBreakdown bool) error {
	const op = "Write"

	data, err := Render(records, taxBreakdown)
	if err != nil {
		return NewProcessingError(op, err, path, "failed to render combined report")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewProcessingError(op, err, path, "failed to write combined report")
	}

	w.log.Info().
		Str("file", path).
		Int("invoices", len(records)).
		Bool("tax_breakdown", taxBreakdown).
		Msg("Combined report written")

	return nil
}

// Render produces the CSV bytes for the merged records in the selected
// schema variant. An empty record set still renders the header row.
func Render(records []InvoiceRecord, taxBreakdown bool) ([]byte, error) {
	var buf bytes.Buffer

	if taxBreakdown {
		rows := make([]*combinedTaxRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, &combinedTaxRow{
				Client:        record.Client,
				InvoiceNumber: record.InvoiceNumber,
				IssuedDate:    record.IssuedDate,
				AmountPreTax:  record.AmountPreTax.StringFixed(2),
				Tax:           record.Tax.StringFixed(2),
				TotalAmount:   record.TotalAmount.StringFixed(2),
				Currency:      record.Currency,
				PaymentStatus: record.PaymentStatus,
				DatePaid:      datePaidCell(record.DatePaid),
			})
		}
		if err := gocsv.Marshal(rows, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	rows := make([]*combinedRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, &combinedRow{
			Client:        record.Client,
			InvoiceNumber: record.InvoiceNumber,
			IssuedDate:    record.IssuedDate,
			Amount:        record.TotalAmount.StringFixed(2),
			Currency:      record.Currency,
			PaymentStatus: record.PaymentStatus,
			DatePaid:      datePaidCell(record.DatePaid),
		})
	}
	if err := gocsv.Marshal(rows, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// datePaidCell renders the nullable paid date: unpaid invoices get an empty
// cell.
func datePaidCell(datePaid *string) string {
	if datePaid == nil {
		return ""
	}
	return *datePaid
}
