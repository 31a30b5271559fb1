package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
)

// Date layouts accepted when reading expiry cells. Dates are always written
// back in the first layout.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

const timestampLayout = time.RFC3339

func headerCells(header []string) []any {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

// cell returns the trimmed string value of column i, or "" when the row is
// shorter than that (the Sheets API truncates trailing empty cells).
func cell(cells []any, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(cells[i]))
}

// decodeRow maps one sheet row to an inventory.Row. A missing ID cell gets a
// generated UUID so every row is addressable.
func decodeRow(cells []any) (inventory.Row, error) {
	row := inventory.Row{
		ID:       cell(cells, 0),
		Medicine: cell(cells, 1),
		Supplier: cell(cells, 2),
	}
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Medicine == "" {
		return inventory.Row{}, errors.New("empty medicine name")
	}

	stock, err := strconv.Atoi(cell(cells, 3))
	if err != nil {
		return inventory.Row{}, errors.Wrap(err, "parse stock")
	}
	if stock < 0 {
		return inventory.Row{}, errors.Errorf("negative stock %d", stock)
	}
	row.Stock = stock

	expiry, err := parseDate(cell(cells, 4))
	if err != nil {
		return inventory.Row{}, errors.Wrap(err, "parse expiry date")
	}
	row.Expiry = expiry

	price, err := decimal.NewFromString(cell(cells, 5))
	if err != nil {
		return inventory.Row{}, errors.Wrap(err, "parse price")
	}
	if price.IsNegative() {
		return inventory.Row{}, errors.Errorf("negative price %s", price)
	}
	row.Price = price

	return row, nil
}

func encodeRow(r inventory.Row) []any {
	return []any{
		r.ID,
		r.Medicine,
		r.Supplier,
		strconv.Itoa(r.Stock),
		r.Expiry.Format(dateLayouts[0]),
		r.Price.String(),
	}
}

func encodeRecord(rec payment.Record) []any {
	return []any{
		rec.Medicine,
		strconv.Itoa(rec.Quantity),
		rec.Total.StringFixed(2),
		rec.Supplier,
		rec.Method,
		rec.Reference,
		rec.Timestamp.UTC().Format(timestampLayout),
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized date %q", s)
}
