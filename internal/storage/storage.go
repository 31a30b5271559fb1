// Package storage defines the persistence contract shared by the Google
// Sheets, PostgreSQL and in-memory backends.
package storage

import (
	"context"

	"github.com/go-faster/errors"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
)

// ErrUnavailable wraps network, auth or remote-service failures reaching the
// backing store. Callers surface it without retrying.
var ErrUnavailable = errors.New("store unavailable")

// Inventory column headers, in sheet order. The ID column is generated by
// this system; the remaining columns match the source spreadsheet.
var InventoryHeader = []string{
	"ID", "Medicine Name", "Supplier Name", "Stock", "Expiry Date", "Price per Unit",
}

// Payment-history column headers.
var HistoryHeader = []string{
	"Medicine Name", "Quantity", "Total Price", "Supplier Name",
	"Payment Method", "Payment Reference", "Timestamp",
}

// HistorySection is the name of the payment-history section (sheet tab or
// table) created on first append.
const HistorySection = "Payment History"

// Store is the full persistence surface. The inventory operations work on
// whole snapshots: OverwriteInventory replaces everything, so concurrent
// sessions are last-write-wins. AppendPayment creates the history section
// with its header row if it does not exist yet.
type Store interface {
	ReadInventory(ctx context.Context) ([]inventory.Row, error)
	OverwriteInventory(ctx context.Context, rows []inventory.Row) error
	AppendPayment(ctx context.Context, rec payment.Record) error

	// Ping reports whether the backing store is reachable; used by readiness
	// probes.
	Ping(ctx context.Context) error
}
