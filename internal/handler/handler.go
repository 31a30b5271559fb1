// Package handler exposes the ordering desk over HTTP: supplier and
// inventory listings, order placement, and payment QR rendering.
package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/order"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/storage"
)

// Handler serves the desk API, delegating business logic to the order
// service and reading inventory through the store.
type Handler struct {
	store  storage.Store
	orders *order.Service
	payee  payment.Payee
}

// New constructs a Handler with the required dependencies.
func New(store storage.Store, orders *order.Service, payee payment.Payee) *Handler {
	return &Handler{
		store:  store,
		orders: orders,
		payee:  payee,
	}
}

// Register installs all API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/suppliers", h.listSuppliers)
	mux.HandleFunc("GET /api/inventory", h.listInventory)
	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/payments/qr", h.paymentQR)
}

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard error body {"code":..,"message":..}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}

// mapError converts domain and storage errors to HTTP responses. Store
// failures become 503, invariant violations 500, everything request-shaped
// becomes a 4xx.
func mapError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrEmptySelection),
		errors.Is(err, order.ErrNegativeQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, storage.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	var nfErr *inventory.RowNotFoundError
	if errors.As(err, &nfErr) {
		writeError(w, http.StatusUnprocessableEntity, nfErr.Error())
		return
	}
	var smErr *order.SupplierMismatchError
	if errors.As(err, &smErr) {
		writeError(w, http.StatusUnprocessableEntity, smErr.Error())
		return
	}

	// Includes inventory.NegativeStockError: an internal invariant breach.
	writeError(w, http.StatusInternalServerError, "internal error")
}
