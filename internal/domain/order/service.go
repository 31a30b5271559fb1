package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
)

// Sentinel errors for order submissions.
var (
	ErrEmptySelection   = errors.New("no items selected")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// SupplierMismatchError indicates an order line references a row that does
// not belong to the selected supplier.
type SupplierMismatchError struct {
	RowID    string
	Supplier string
}

func (e *SupplierMismatchError) Error() string {
	return "row " + e.RowID + " does not belong to supplier " + e.Supplier
}

// Store is the persistence collaborator. Implementations provide no
// transactions: OverwriteInventory replaces the whole snapshot
// (last-write-wins across sessions) and AppendPayment appends a single
// history row, creating the history section if it does not exist yet.
type Store interface {
	ReadInventory(ctx context.Context) ([]inventory.Row, error)
	OverwriteInventory(ctx context.Context, rows []inventory.Row) error
	AppendPayment(ctx context.Context, rec payment.Record) error
}

// Item is one requested line in an order submission.
type Item struct {
	RowID    string
	Quantity int
}

// PlaceOrderRequest holds the input for a single order submission.
type PlaceOrderRequest struct {
	Supplier  string
	Items     []Item
	Method    string
	Reference string
}

// Rejection reports a per-line validation outcome that kept the line out of
// the order. Rejections are advisory: the rest of the order proceeds.
type Rejection struct {
	RowID    string
	Medicine string
	Verdict  Verdict
}

// PlaceOrderResult is the outcome of a confirmed order.
type PlaceOrderResult struct {
	Lines      []Line
	Rejections []Rejection
	// Total is the exact sum of line totals; round to two decimals for display.
	Total decimal.Decimal
	// PaymentURI is the UPI payment request for Total; empty when no line was
	// accepted.
	PaymentURI string
	// Inventory is the post-order snapshot as persisted.
	Inventory []inventory.Row
	// HistoryFailures counts payment-history rows that could not be appended
	// after the stock snapshot was already written. The stock change is not
	// rolled back; failures are logged.
	HistoryFailures int
}

// Service processes order submissions: validation, line construction, stock
// reconciliation and the two-step commit against the store.
type Service struct {
	store Store
	payee payment.Payee
	limit int
	now   func() time.Time
}

// NewService creates an order Service. limit is the per-line quantity cap;
// values below 1 fall back to DefaultQuantityCap.
func NewService(store Store, payee payment.Payee, limit int) *Service {
	if limit < 1 {
		limit = DefaultQuantityCap
	}
	return &Service{
		store: store,
		payee: payee,
		limit: limit,
		now:   time.Now,
	}
}

// PlaceOrder runs one full submission pass: it loads the inventory snapshot,
// validates every requested line, builds the order, applies the stock
// decrements, and commits.
//
// Commit order is fixed: the inventory snapshot is overwritten first, then
// one payment record per line is appended. If the overwrite fails nothing is
// appended and the error is surfaced without retry. If an individual append
// fails the remaining appends still run; failures are logged and counted in
// the result but the stock change stands.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptySelection
	}

	rows, err := s.store.ReadInventory(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read inventory")
	}

	byID := make(map[string]inventory.Row, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	selections := make([]Selection, 0, len(req.Items))
	var rejections []Rejection
	for _, item := range req.Items {
		if item.Quantity < 0 {
			return nil, ErrNegativeQuantity
		}
		row, ok := byID[item.RowID]
		if !ok {
			return nil, &inventory.RowNotFoundError{RowID: item.RowID}
		}
		if req.Supplier != "" && row.Supplier != req.Supplier {
			return nil, &SupplierMismatchError{RowID: item.RowID, Supplier: req.Supplier}
		}

		verdict := ValidateQuantity(item.Quantity, row.Stock, s.limit)
		sel := Selection{Row: row, Quantity: item.Quantity, Verdict: verdict}
		selections = append(selections, sel)

		switch verdict {
		case Accepted, Ignored:
		default:
			rejections = append(rejections, Rejection{
				RowID:    row.ID,
				Medicine: row.Medicine,
				Verdict:  verdict,
			})
		}
	}

	lines, total := Build(selections)
	result := &PlaceOrderResult{
		Lines:      lines,
		Rejections: rejections,
		Total:      total,
		Inventory:  rows,
	}
	if len(lines) == 0 {
		// Nothing accepted: no store writes, zero total.
		return result, nil
	}

	decs := make([]inventory.Decrement, len(lines))
	for i, l := range lines {
		decs[i] = inventory.Decrement{RowID: l.RowID, Quantity: l.Quantity}
	}
	updated, err := inventory.Apply(rows, decs)
	if err != nil {
		// Unreachable after validation; surfaced as an internal error.
		return nil, errors.Wrap(err, "apply order")
	}

	if err := s.store.OverwriteInventory(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "overwrite inventory")
	}
	result.Inventory = updated

	lg := zctx.From(ctx)
	now := s.now()
	for _, l := range lines {
		rec := payment.Record{
			Medicine:  l.Medicine,
			Quantity:  l.Quantity,
			Total:     l.Total,
			Supplier:  l.Supplier,
			Method:    req.Method,
			Reference: req.Reference,
			Timestamp: now,
		}
		if err := s.store.AppendPayment(ctx, rec); err != nil {
			result.HistoryFailures++
			lg.Error("append payment record",
				zap.String("medicine", l.Medicine),
				zap.String("row_id", l.RowID),
				zap.Error(err),
			)
		}
	}

	result.PaymentURI = payment.URI(s.payee, total)
	return result, nil
}
