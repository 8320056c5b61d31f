package invoice

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

// Column headers of a FreshBooks invoice-detail export.
const (
	colClientName    = "Client Name"
	colInvoiceNumber = "Invoice #"
	colDateIssued    = "Date Issued"
	colInvoiceStatus = "Invoice Status"
	colDatePaid      = "Date Paid"
	colCurrency      = "Currency"
	colLineSubtotal  = "Line Subtotal"
	colTax1Amount    = "Tax 1 Amount"
	colTax2Amount    = "Tax 2 Amount"
	colLineTotal     = "Line Total"
)

// requiredColumns must all be present in the header row. The two tax columns
// are optional: exports from accounts without taxes configured omit them.
var requiredColumns = []string{
	colClientName,
	colInvoiceNumber,
	colDateIssued,
	colInvoiceStatus,
	colDatePaid,
	colCurrency,
	colLineSubtotal,
	colLineTotal,
}

// csvLineItem mirrors one raw export row. Amounts stay strings here so that
// empty cells can default to zero instead of failing to decode.
type csvLineItem struct {
	ClientName    string `csv:"Client Name"`
	InvoiceNumber string `csv:"Invoice #"`
	DateIssued    string `csv:"Date Issued"`
	InvoiceStatus string `csv:"Invoice Status"`
	DatePaid      string `csv:"Date Paid"`
	Currency      string `csv:"Currency"`
	Subtotal      string `csv:"Line Subtotal"`
	Tax1          string `csv:"Tax 1 Amount"`
	Tax2          string `csv:"Tax 2 Amount"`
	LineTotal     string `csv:"Line Total"`
}

// LoadResult is the outcome of loading one export file.
type LoadResult struct {
	Items []LineItem

	// HasTaxColumns reports whether the export carried the optional tax
	// columns. It drives which output schema variant is meaningful.
	HasTaxColumns bool
}

// Loader reads FreshBooks invoice-detail CSV exports into typed line items.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new CSV loader.
func NewLoader() *Loader {
	return &Loader{
		log: logger.WithComponent("invoice-loader"),
	}
}

// Load reads and parses a single invoice-detail export file.
func (l *Loader) Load(path string) (*LoadResult, error) {
	const op = "Load"

	l.log.Info().Str("file", path).Msg("Reading invoice details")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewProcessingError(op, ErrFileNotFound, path, err.Error())
	}

	// Excel-exported CSVs may carry a UTF-8 byte order mark.
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	hasTax, err := validateHeader(op, path, data)
	if err != nil {
		return nil, err
	}

	var rows []*csvLineItem
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, NewProcessingError(op, err, path, "failed to decode CSV rows")
	}

	items := make([]LineItem, 0, len(rows))
	for i, row := range rows {
		item, err := l.convertRow(row, i+2) // header occupies line 1
		if err != nil {
			return nil, NewProcessingError(op, err, path, "")
		}
		items = append(items, item)
	}

	l.log.Info().
		Str("file", path).
		Int("line_items", len(items)).
		Bool("tax_columns", hasTax).
		Msg("Invoice details read successfully")

	return &LoadResult{Items: items, HasTaxColumns: hasTax}, nil
}

// validateHeader checks the header row for the required columns and reports
// whether the optional tax columns are present.
func validateHeader(op, path string, data []byte) (bool, error) {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return false, NewProcessingError(op, err, path, "failed to read CSV header")
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[strings.TrimSpace(name)] = true
	}

	for _, col := range requiredColumns {
		if !present[col] {
			return false, NewProcessingError(op, ErrMalformedInput, path,
				fmt.Sprintf("required column %q missing from header", col))
		}
	}

	return present[colTax1Amount] || present[colTax2Amount], nil
}

// convertRow turns a raw CSV row into a typed LineItem.
func (l *Loader) convertRow(row *csvLineItem, lineNum int) (LineItem, error) {
	subtotal, err := parseAmount(row.Subtotal)
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid %s %q on line %d: %w", colLineSubtotal, row.Subtotal, lineNum, err)
	}
	tax1, err := parseAmount(row.Tax1)
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid %s %q on line %d: %w", colTax1Amount, row.Tax1, lineNum, err)
	}
	tax2, err := parseAmount(row.Tax2)
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid %s %q on line %d: %w", colTax2Amount, row.Tax2, lineNum, err)
	}
	total, err := parseAmount(row.LineTotal)
	if err != nil {
		return LineItem{}, fmt.Errorf("invalid %s %q on line %d: %w", colLineTotal, row.LineTotal, lineNum, err)
	}

	return LineItem{
		ClientName:    row.ClientName,
		InvoiceNumber: row.InvoiceNumber,
		DateIssued:    row.DateIssued,
		InvoiceStatus: row.InvoiceStatus,
		DatePaid:      row.DatePaid,
		Currency:      row.Currency,
		Subtotal:      subtotal,
		Tax1:          tax1,
		Tax2:          tax2,
		LineTotal:     total,
	}, nil
}

// parseAmount parses one monetary cell. Empty cells are treated as zero,
// which covers both absent optional tax columns and blank cells.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}
