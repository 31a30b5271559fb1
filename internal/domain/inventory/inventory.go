package inventory

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Row is a single inventory entry: one medicine batch from one supplier.
// Rows carry a generated stable ID so order lines can reference them across
// reloads; positional identity in the backing store is never relied on.
type Row struct {
	ID       string
	Medicine string
	Supplier string
	Stock    int
	Expiry   time.Time
	Price    decimal.Decimal
}

// NegativeStockError reports a stock decrement that would drive a row below
// zero. It should be unreachable when quantities were validated first.
type NegativeStockError struct {
	RowID    string
	Medicine string
	Stock    int
	Quantity int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock for %s (row %s) would go negative: %d - %d",
		e.Medicine, e.RowID, e.Stock, e.Quantity)
}

// RowNotFoundError indicates a referenced inventory row does not exist in the
// current snapshot.
type RowNotFoundError struct {
	RowID string
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("inventory row %s not found", e.RowID)
}

// FilterAndSort returns the rows belonging to the given supplier
// (case-sensitive exact match), ordered by ascending expiry date so the
// soonest-expiring batches are offered first. The sort is stable: rows with
// equal expiry keep their original order. The input is not modified; an
// unknown supplier yields an empty slice.
func FilterAndSort(rows []Row, supplier string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Supplier == supplier {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(a, b Row) int {
		return a.Expiry.Compare(b.Expiry)
	})
	return out
}

// Suppliers returns the distinct supplier names in first-seen order.
func Suppliers(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.Supplier]; ok {
			continue
		}
		seen[r.Supplier] = struct{}{}
		out = append(out, r.Supplier)
	}
	return out
}

// Decrement describes a stock reduction against a single row.
type Decrement struct {
	RowID    string
	Quantity int
}

// Apply returns a copy of the snapshot with each decrement applied. It fails
// with RowNotFoundError when a decrement references a missing row, and with
// NegativeStockError when stock would go below zero. The full snapshot is
// returned because the backing store only supports whole-snapshot overwrite.
func Apply(rows []Row, decs []Decrement) ([]Row, error) {
	out := slices.Clone(rows)
	index := make(map[string]int, len(out))
	for i, r := range out {
		index[r.ID] = i
	}

	for _, d := range decs {
		i, ok := index[d.RowID]
		if !ok {
			return nil, &RowNotFoundError{RowID: d.RowID}
		}
		r := out[i]
		if d.Quantity > r.Stock {
			return nil, &NegativeStockError{
				RowID:    r.ID,
				Medicine: r.Medicine,
				Stock:    r.Stock,
				Quantity: d.Quantity,
			}
		}
		out[i].Stock = r.Stock - d.Quantity
	}
	return out, nil
}
