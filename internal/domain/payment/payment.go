// Package payment holds the payment-history record model and the UPI
// payment-request formatting used at order confirmation.
package payment

import (
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// Record is one immutable payment-history entry, appended per order line at
// confirmation. Records are never updated or deleted.
type Record struct {
	Medicine  string
	Quantity  int
	Total     decimal.Decimal
	Supplier  string
	Method    string
	Reference string
	Timestamp time.Time
}

// Payee identifies the UPI account that receives order payments. The name,
// merchant category and transaction id are fixed per deployment so the
// resulting URI is deterministic for a given amount.
type Payee struct {
	// ID is the UPI VPA, e.g. "shop@upi".
	ID string
	// Name is the display name embedded in the payment request.
	Name string
	// MerchantCode is the UPI merchant category code.
	MerchantCode string
	// TransactionID is a fixed terminal/transaction identifier.
	TransactionID string
}

// URI formats a upi://pay payment-request deep link for the given amount.
// The amount is rendered with exactly two decimal places and the currency is
// fixed to INR. The output is deterministic for identical inputs.
func URI(p Payee, amount decimal.Decimal) string {
	q := url.Values{}
	q.Set("pa", p.ID)
	q.Set("pn", p.Name)
	if p.MerchantCode != "" {
		q.Set("mc", p.MerchantCode)
	}
	if p.TransactionID != "" {
		q.Set("tid", p.TransactionID)
	}
	q.Set("am", amount.StringFixed(2))
	q.Set("cu", "INR")
	return "upi://pay?" + q.Encode()
}

// qrSize is the pixel width and height of generated payment QR images.
const qrSize = 256

// QRCode encodes the payment URI into a PNG image. Encoding only fails on
// degenerate input (empty or too long to fit a QR code).
func QRCode(uri string) ([]byte, error) {
	if uri == "" {
		return nil, errors.New("empty payment URI")
	}
	png, err := qrcode.Encode(uri, qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "encode payment QR")
	}
	return png, nil
}
