package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func lineItem(t *testing.T, invoiceNumber, datePaid, status, subtotal, tax1, tax2, total string) LineItem {
	t.Helper()
	return LineItem{
		ClientName:    "Acme Corp",
		InvoiceNumber: invoiceNumber,
		DateIssued:    "2024-01-01",
		InvoiceStatus: status,
		DatePaid:      datePaid,
		Currency:      "EUR",
		Subtotal:      dec(t, subtotal),
		Tax1:          dec(t, tax1),
		Tax2:          dec(t, tax2),
		LineTotal:     dec(t, total),
	}
}

func TestAggregate_GroupsByInvoiceKey(t *testing.T) {
	items := []LineItem{
		lineItem(t, "1001", "", "sent", "100.00", "5.00", "0", "105.00"),
		lineItem(t, "1001", "", "sent", "50.00", "2.50", "0", "52.50"),
		lineItem(t, "1002", "", "sent", "10.00", "0", "0", "10.00"),
	}

	records := NewAggregator().Aggregate(items)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "1001", first.InvoiceNumber)
	assert.True(t, first.AmountPreTax.Equal(dec(t, "150.00")), "amount_pre_tax: %s", first.AmountPreTax)
	assert.True(t, first.Tax.Equal(dec(t, "7.50")), "tax: %s", first.Tax)
	assert.True(t, first.TotalAmount.Equal(dec(t, "157.50")), "total: %s", first.TotalAmount)

	assert.Equal(t, "1002", records[1].InvoiceNumber)
}

func TestAggregate_KeyFieldsSplitGroups(t *testing.T) {
	// Any difference in the six key fields puts rows into separate invoices,
	// including the same invoice number under two currencies.
	a := lineItem(t, "1001", "", "sent", "10.00", "0", "0", "10.00")
	b := a
	b.Currency = "USD"

	records := NewAggregator().Aggregate([]LineItem{a, b})
	require.Len(t, records, 2)
	assert.Equal(t, "EUR", records[0].Currency)
	assert.Equal(t, "USD", records[1].Currency)
}

func TestAggregate_RoundsHalfUpAfterSummation(t *testing.T) {
	// Two sub-cent line totals land exactly on the rounding boundary: the sum
	// 20.010 must round to 20.01, not each line to 10.01.
	items := []LineItem{
		lineItem(t, "1001", "", "sent", "10.005", "0", "0", "10.005"),
		lineItem(t, "1001", "", "sent", "10.005", "0", "0", "10.005"),
	}

	records := NewAggregator().Aggregate(items)
	require.Len(t, records, 1)
	assert.Equal(t, "20.01", records[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "20.01", records[0].AmountPreTax.StringFixed(2))

	// A genuine half case rounds up, not to even.
	records = NewAggregator().Aggregate([]LineItem{
		lineItem(t, "1002", "", "sent", "2.125", "0", "0", "2.125"),
	})
	require.Len(t, records, 1)
	assert.Equal(t, "2.13", records[0].TotalAmount.StringFixed(2))
}

func TestAggregate_DerivesPaymentStatus(t *testing.T) {
	tests := []struct {
		name         string
		datePaid     string
		status       string
		wantStatus   string
		wantDatePaid *string
	}{
		{
			name:       "unpaid keeps original status",
			datePaid:   "",
			status:     "overdue",
			wantStatus: "overdue",
		},
		{
			name:         "paid date overrides status",
			datePaid:     "2024-01-05",
			status:       "overdue",
			wantStatus:   "paid",
			wantDatePaid: ptr("2024-01-05"),
		},
		{
			name:         "whitespace-only date is not paid",
			datePaid:     "   ",
			status:       "sent",
			wantStatus:   "sent",
			wantDatePaid: ptr("   "),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []LineItem{lineItem(t, "1001", tt.datePaid, tt.status, "10", "0", "0", "10")}
			records := NewAggregator().Aggregate(items)
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantStatus, records[0].PaymentStatus)
			assert.Equal(t, tt.wantDatePaid, records[0].DatePaid)
		})
	}
}

func TestAggregate_SumsBothTaxColumns(t *testing.T) {
	items := []LineItem{
		lineItem(t, "1001", "", "sent", "100.00", "19.00", "2.50", "121.50"),
		lineItem(t, "1001", "", "sent", "100.00", "0", "0", "100.00"),
	}

	records := NewAggregator().Aggregate(items)
	require.Len(t, records, 1)
	assert.Equal(t, "21.50", records[0].Tax.StringFixed(2))
}

func TestAggregate_FirstSeenOrderIsStable(t *testing.T) {
	items := []LineItem{
		lineItem(t, "1003", "", "sent", "1", "0", "0", "1"),
		lineItem(t, "1001", "", "sent", "1", "0", "0", "1"),
		lineItem(t, "1003", "", "sent", "1", "0", "0", "1"),
		lineItem(t, "1002", "", "sent", "1", "0", "0", "1"),
	}

	want := []string{"1003", "1001", "1002"}
	for i := 0; i < 10; i++ {
		records := NewAggregator().Aggregate(items)
		require.Len(t, records, len(want))
		for j, record := range records {
			assert.Equal(t, want[j], record.InvoiceNumber)
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	records := NewAggregator().Aggregate(nil)
	assert.Empty(t, records)
}

func ptr(s string) *string {
	return &s
}
