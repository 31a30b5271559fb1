package sheets

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
)

func TestDecodeRow(t *testing.T) {
	row, err := decodeRow([]any{"r1", "Paracetamol", "SupplierA", "20", "2026-06-01", "2.50"})

	require.NoError(t, err)
	assert.Equal(t, "r1", row.ID)
	assert.Equal(t, "Paracetamol", row.Medicine)
	assert.Equal(t, "SupplierA", row.Supplier)
	assert.Equal(t, 20, row.Stock)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), row.Expiry)
	assert.True(t, decimal.RequireFromString("2.50").Equal(row.Price))
}

func TestDecodeRow_GeneratesMissingID(t *testing.T) {
	row, err := decodeRow([]any{"", "Paracetamol", "SupplierA", "20", "2026-06-01", "2.50"})

	require.NoError(t, err)
	assert.NotEmpty(t, row.ID)
}

func TestDecodeRow_AlternateDateLayout(t *testing.T) {
	row, err := decodeRow([]any{"r1", "Paracetamol", "SupplierA", "20", "01/06/2026", "2.50"})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), row.Expiry)
}

func TestDecodeRow_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		cells []any
	}{
		{"empty medicine", []any{"r1", "", "S", "20", "2026-06-01", "2.50"}},
		{"bad stock", []any{"r1", "P", "S", "lots", "2026-06-01", "2.50"}},
		{"negative stock", []any{"r1", "P", "S", "-1", "2026-06-01", "2.50"}},
		{"bad date", []any{"r1", "P", "S", "20", "soon", "2.50"}},
		{"bad price", []any{"r1", "P", "S", "20", "2026-06-01", "cheap"}},
		{"negative price", []any{"r1", "P", "S", "20", "2026-06-01", "-2.50"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeRow(tt.cells)
			require.Error(t, err)
		})
	}
}

func TestEncodeDecodeRow(t *testing.T) {
	in := inventory.Row{
		ID:       "r1",
		Medicine: "Paracetamol",
		Supplier: "SupplierA",
		Stock:    15,
		Expiry:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Price:    decimal.RequireFromString("2.50"),
	}

	out, err := decodeRow(encodeRow(in))

	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Stock, out.Stock)
	assert.Equal(t, in.Expiry, out.Expiry)
	assert.True(t, in.Price.Equal(out.Price))
}

func TestEncodeRecord(t *testing.T) {
	rec := payment.Record{
		Medicine:  "Paracetamol",
		Quantity:  5,
		Total:     decimal.RequireFromString("12.5"),
		Supplier:  "SupplierA",
		Method:    "UPI",
		Reference: "ref-1",
		Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	}

	cells := encodeRecord(rec)

	require.Len(t, cells, 7)
	assert.Equal(t, "Paracetamol", cells[0])
	assert.Equal(t, "5", cells[1])
	assert.Equal(t, "12.50", cells[2])
	assert.Equal(t, "2026-08-31T12:00:00Z", cells[6])
}
