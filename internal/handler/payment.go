package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"pharmadesk/internal/domain/payment"
)

// paymentQR renders a UPI payment QR code PNG for the configured payee and
// the requested amount.
func (h *Handler) paymentQR(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "amount query parameter is required")
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	png, err := payment.QRCode(payment.URI(h.payee, amount))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
