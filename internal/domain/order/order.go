package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pharmadesk/internal/domain/inventory"
)

// DefaultQuantityCap is the maximum quantity orderable for a single medicine
// line in one submission.
const DefaultQuantityCap = 10

// Verdict is the outcome of validating a requested quantity against a row.
type Verdict int

const (
	// Accepted means the line goes into the order.
	Accepted Verdict = iota
	// Ignored means no quantity was requested; the line is skipped silently.
	Ignored
	// RejectedOutOfStock means the row has no stock at all.
	RejectedOutOfStock
	// RejectedExceedsCap means the requested quantity is over the per-order cap.
	RejectedExceedsCap
	// RejectedInsufficientStock means the request is within the cap but larger
	// than the available stock.
	RejectedInsufficientStock
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Ignored:
		return "ignored"
	case RejectedOutOfStock:
		return "out_of_stock"
	case RejectedExceedsCap:
		return "exceeds_cap"
	case RejectedInsufficientStock:
		return "insufficient_stock"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// ValidateQuantity checks a requested quantity against available stock and the
// per-order cap. The cap check takes precedence over everything else: a
// request that is over the cap AND over the stock reports RejectedExceedsCap.
// A zero request is Ignored, never rejected, regardless of stock.
func ValidateQuantity(requested, available, limit int) Verdict {
	switch {
	case requested > limit:
		return RejectedExceedsCap
	case requested == 0:
		return Ignored
	case available == 0:
		return RejectedOutOfStock
	case requested > available:
		return RejectedInsufficientStock
	default:
		return Accepted
	}
}

// Line is one accepted order line. Lines are transient: only their effects
// (the stock decrement and the payment-history record) are persisted.
type Line struct {
	RowID     string
	Medicine  string
	Supplier  string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Selection pairs a validated quantity with the inventory row it targets.
type Selection struct {
	Row      inventory.Row
	Quantity int
	Verdict  Verdict
}

// Build constructs order lines from the accepted selections and returns them
// with the exact total. Non-accepted selections contribute nothing. The total
// is left unrounded; callers round to two decimals for display only.
func Build(selections []Selection) ([]Line, decimal.Decimal) {
	lines := make([]Line, 0, len(selections))
	total := decimal.Zero
	for _, s := range selections {
		if s.Verdict != Accepted {
			continue
		}
		qty := decimal.NewFromInt(int64(s.Quantity))
		lineTotal := s.Row.Price.Mul(qty)
		lines = append(lines, Line{
			RowID:     s.Row.ID,
			Medicine:  s.Row.Medicine,
			Supplier:  s.Row.Supplier,
			Quantity:  s.Quantity,
			UnitPrice: s.Row.Price,
			Total:     lineTotal,
		})
		total = total.Add(lineTotal)
	}
	return lines, total
}
