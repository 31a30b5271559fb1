package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"

	"pharmadesk/internal/domain/order"
)

// maxOrderBody caps the order request body size.
const maxOrderBody = 1 << 20

// placeOrder runs one order submission: validation, stock reconciliation and
// commit. Per-line rejections do not fail the request; they are reported in
// the response next to the accepted lines.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxOrderBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	req, err := decodePlaceOrder(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeOrderResult(e, result)
	})
}

func decodePlaceOrder(body []byte) (order.PlaceOrderRequest, error) {
	var req order.PlaceOrderRequest
	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "supplier":
			v, err := d.Str()
			req.Supplier = v
			return err
		case "payment_method":
			v, err := d.Str()
			req.Method = v
			return err
		case "payment_reference":
			v, err := d.Str()
			req.Reference = v
			return err
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				var item order.Item
				if err := d.Obj(func(d *jx.Decoder, key string) error {
					switch key {
					case "row_id":
						v, err := d.Str()
						item.RowID = v
						return err
					case "quantity":
						v, err := d.Int()
						item.Quantity = v
						return err
					default:
						return d.Skip()
					}
				}); err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return req, err
}

func encodeOrderResult(e *jx.Encoder, result *order.PlaceOrderResult) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range result.Lines {
					encodeOrderLine(e, l)
				}
			})
		})
		e.Field("rejections", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, rej := range result.Rejections {
					e.Obj(func(e *jx.Encoder) {
						e.Field("row_id", func(e *jx.Encoder) { e.Str(rej.RowID) })
						e.Field("medicine_name", func(e *jx.Encoder) { e.Str(rej.Medicine) })
						e.Field("reason", func(e *jx.Encoder) { e.Str(rej.Verdict.String()) })
					})
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { e.Str(result.Total.StringFixed(2)) })
		if result.PaymentURI != "" {
			e.Field("payment_uri", func(e *jx.Encoder) { e.Str(result.PaymentURI) })
		}
		if result.HistoryFailures > 0 {
			e.Field("history_failures", func(e *jx.Encoder) { e.Int(result.HistoryFailures) })
		}
	})
}

func encodeOrderLine(e *jx.Encoder, l order.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("row_id", func(e *jx.Encoder) { e.Str(l.RowID) })
		e.Field("medicine_name", func(e *jx.Encoder) { e.Str(l.Medicine) })
		e.Field("supplier_name", func(e *jx.Encoder) { e.Str(l.Supplier) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("price_per_unit", func(e *jx.Encoder) { e.Str(l.UnitPrice.StringFixed(2)) })
		e.Field("total_price", func(e *jx.Encoder) { e.Str(l.Total.StringFixed(2)) })
	})
}
