package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
)

func TestStore_OverwriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()

	rows := []inventory.Row{{
		ID:       "r1",
		Medicine: "Paracetamol",
		Supplier: "SupplierA",
		Stock:    20,
		Expiry:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		Price:    decimal.RequireFromString("2.50"),
	}}
	require.NoError(t, s.OverwriteInventory(ctx, rows))

	got, err := s.ReadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// Snapshot is copied: mutating the returned slice does not leak back.
	got[0].Stock = 0
	again, err := s.ReadInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, again[0].Stock)
}

func TestStore_AppendPayment(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := payment.Record{
		Medicine:  "Paracetamol",
		Quantity:  5,
		Total:     decimal.RequireFromString("12.50"),
		Supplier:  "SupplierA",
		Method:    "UPI",
		Timestamp: time.Now(),
	}
	require.NoError(t, s.AppendPayment(ctx, rec))
	require.NoError(t, s.AppendPayment(ctx, rec))

	assert.Len(t, s.History(), 2)
}

func TestStore_Ping(t *testing.T) {
	assert.NoError(t, New().Ping(context.Background()))
}
