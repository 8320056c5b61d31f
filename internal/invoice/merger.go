package invoice

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/delveteams/freshbooks-invoice-summary/internal/logger"
)

// digitRun matches the first maximal run of digits in an invoice number.
var digitRun = regexp.MustCompile(`\d+`)

// Merger combines per-report aggregation results into one sorted sequence.
type Merger struct {
	log zerolog.Logger
}

// NewMerger creates a new report merger.
func NewMerger() *Merger {
	return &Merger{
		log: logger.WithComponent("report-merger"),
	}
}

// Merge concatenates the per-file record groups and sorts them by extracted
// numeric invoice key, descending. The sort is stable: records whose numeric
// keys collide (the same number in two currency reports) keep their relative
// input order rather than failing.
func (m *Merger) Merge(groups ...[]InvoiceRecord) ([]InvoiceRecord, error) {
	const op = "Merge"

	var combined []InvoiceRecord
	for _, group := range groups {
		combined = append(combined, group...)
	}

	type keyed struct {
		record InvoiceRecord
		key    int64
	}

	ordered := make([]keyed, 0, len(combined))
	for _, record := range combined {
		key, err := invoiceSortKey(record.InvoiceNumber)
		if err != nil {
			return nil, NewProcessingError(op, err, "", "")
		}
		ordered = append(ordered, keyed{record: record, key: key})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].key > ordered[j].key
	})

	merged := make([]InvoiceRecord, len(ordered))
	for i, entry := range ordered {
		merged[i] = entry.record
	}

	m.log.Info().
		Int("reports", len(groups)).
		Int("invoices", len(merged)).
		Msg("Reports merged and sorted")

	return merged, nil
}

// invoiceSortKey derives the numeric ordering key from a raw invoice number
// by extracting its first digit run ("INV-0042" sorts as 42). The key is
// used for ordering only and never appears in output.
func invoiceSortKey(invoiceNumber string) (int64, error) {
	match := digitRun.FindString(invoiceNumber)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInvoiceNumber, invoiceNumber)
	}

	key, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invoice number %q: digit run out of range: %w", invoiceNumber, err)
	}

	return key, nil
}
