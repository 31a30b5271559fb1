package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmadesk/internal/domain/inventory"
)

func TestValidateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		available int
		limit     int
		want      Verdict
	}{
		{"zero quantity ignored", 0, 20, 10, Ignored},
		{"zero quantity ignored even without stock", 0, 0, 10, Ignored},
		{"over cap", 11, 20, 10, RejectedExceedsCap},
		{"no stock", 5, 0, 10, RejectedOutOfStock},
		{"not enough stock", 5, 3, 10, RejectedInsufficientStock},
		{"exact fit", 5, 10, 10, Accepted},
		{"at cap", 10, 10, 10, Accepted},
		{"cap wins over stock", 15, 2, 10, RejectedExceedsCap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateQuantity(tt.requested, tt.available, tt.limit))
		})
	}
}

func testRow(id, medicine, price string, stock int) inventory.Row {
	return inventory.Row{
		ID:       id,
		Medicine: medicine,
		Supplier: "SupplierA",
		Stock:    stock,
		Expiry:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Price:    decimal.RequireFromString(price),
	}
}

func TestBuild_TotalsPerLine(t *testing.T) {
	lines, total := Build([]Selection{
		{Row: testRow("a", "Paracetamol", "2.50", 20), Quantity: 5, Verdict: Accepted},
		{Row: testRow("b", "Ibuprofen", "4.00", 20), Quantity: 2, Verdict: Accepted},
	})

	require.Len(t, lines, 2)
	assert.True(t, decimal.RequireFromString("12.50").Equal(lines[0].Total))
	assert.True(t, decimal.RequireFromString("8.00").Equal(lines[1].Total))
	assert.True(t, decimal.RequireFromString("20.50").Equal(total))
}

func TestBuild_SkipsNonAccepted(t *testing.T) {
	lines, total := Build([]Selection{
		{Row: testRow("a", "Paracetamol", "2.50", 20), Quantity: 5, Verdict: Accepted},
		{Row: testRow("b", "Ibuprofen", "4.00", 0), Quantity: 2, Verdict: RejectedOutOfStock},
		{Row: testRow("c", "Cetirizine", "1.00", 20), Quantity: 0, Verdict: Ignored},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].RowID)
	assert.True(t, decimal.RequireFromString("12.50").Equal(total))
}

func TestBuild_EmptySelection(t *testing.T) {
	lines, total := Build(nil)

	assert.Empty(t, lines)
	assert.True(t, decimal.Zero.Equal(total))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "exceeds_cap", RejectedExceedsCap.String())
	assert.Equal(t, "out_of_stock", RejectedOutOfStock.String())
	assert.Equal(t, "insufficient_stock", RejectedInsufficientStock.String())
	assert.Equal(t, "ignored", Ignored.String())
}
