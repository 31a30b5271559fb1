package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPayee = Payee{
	ID:            "shop@upi",
	Name:          "City Pharmacy",
	MerchantCode:  "5912",
	TransactionID: "PHARMADESK01",
}

func TestURI_Deterministic(t *testing.T) {
	amount := decimal.RequireFromString("12.50")

	first := URI(testPayee, amount)
	second := URI(testPayee, amount)

	assert.Equal(t, first, second)
}

func TestURI_ContainsPayeeAndAmount(t *testing.T) {
	uri := URI(testPayee, decimal.RequireFromString("12.50"))

	assert.Contains(t, uri, "12.50")
	assert.Contains(t, uri, "shop%40upi")
	assert.Contains(t, uri, "cu=INR")
	assert.True(t, len(uri) > len("upi://pay?"))
	assert.Equal(t, "upi://pay?", uri[:len("upi://pay?")])
}

func TestURI_AmountAlwaysTwoDecimals(t *testing.T) {
	uri := URI(testPayee, decimal.RequireFromString("7"))

	assert.Contains(t, uri, "am=7.00")
}

func TestURI_OmitsEmptyOptionalFields(t *testing.T) {
	uri := URI(Payee{ID: "shop@upi", Name: "Shop"}, decimal.RequireFromString("1.00"))

	assert.NotContains(t, uri, "mc=")
	assert.NotContains(t, uri, "tid=")
}

func TestQRCode_EncodesPNG(t *testing.T) {
	uri := URI(testPayee, decimal.RequireFromString("12.50"))

	png, err := QRCode(uri)

	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestQRCode_EmptyURI(t *testing.T) {
	_, err := QRCode("")
	require.Error(t, err)
}
