package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"pharmadesk/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

// listSuppliers returns the distinct supplier names present in the inventory.
func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ReadInventory(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}

	suppliers := inventory.Suppliers(rows)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("suppliers", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, s := range suppliers {
						e.Str(s)
					}
				})
			})
		})
	})
}

// listInventory returns inventory rows. With ?supplier=S the rows are
// filtered to that supplier and sorted by ascending expiry (soonest-expiring
// batches first); without it the full snapshot is returned in stored order.
func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ReadInventory(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}

	supplier := r.URL.Query().Get("supplier")
	if supplier != "" {
		rows = inventory.FilterAndSort(rows, supplier)
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("rows", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, row := range rows {
						encodeInventoryRow(e, row)
					}
				})
			})
		})
	})
}

func encodeInventoryRow(e *jx.Encoder, row inventory.Row) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(row.ID) })
		e.Field("medicine_name", func(e *jx.Encoder) { e.Str(row.Medicine) })
		e.Field("supplier_name", func(e *jx.Encoder) { e.Str(row.Supplier) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(row.Stock) })
		e.Field("expiry_date", func(e *jx.Encoder) { e.Str(row.Expiry.Format(dateLayout)) })
		e.Field("price_per_unit", func(e *jx.Encoder) { e.Str(row.Price.StringFixed(2)) })
	})
}
