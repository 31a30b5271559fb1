package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/order"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/storage/memory"
)

// Response types are defined locally so the tests only depend on the wire
// format, not on internal encoders.

type inventoryRowResponse struct {
	ID       string `json:"id"`
	Medicine string `json:"medicine_name"`
	Supplier string `json:"supplier_name"`
	Stock    int    `json:"stock"`
	Expiry   string `json:"expiry_date"`
	Price    string `json:"price_per_unit"`
}

type orderResponse struct {
	Lines []struct {
		RowID    string `json:"row_id"`
		Medicine string `json:"medicine_name"`
		Quantity int    `json:"quantity"`
		Total    string `json:"total_price"`
	} `json:"lines"`
	Rejections []struct {
		RowID  string `json:"row_id"`
		Reason string `json:"reason"`
	} `json:"rejections"`
	Total           string `json:"total"`
	PaymentURI      string `json:"payment_uri"`
	HistoryFailures int    `json:"history_failures"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var testPayee = payment.Payee{ID: "shop@upi", Name: "City Pharmacy"}

func seedRows() []inventory.Row {
	return []inventory.Row{
		{
			ID:       "r1",
			Medicine: "Paracetamol",
			Supplier: "SupplierA",
			Stock:    20,
			Expiry:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Price:    decimal.RequireFromString("2.50"),
		},
		{
			ID:       "r2",
			Medicine: "Cetirizine",
			Supplier: "SupplierA",
			Stock:    5,
			Expiry:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Price:    decimal.RequireFromString("1.00"),
		},
		{
			ID:       "r3",
			Medicine: "Ibuprofen",
			Supplier: "SupplierB",
			Stock:    10,
			Expiry:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			Price:    decimal.RequireFromString("4.00"),
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewWithRows(seedRows())
	svc := order.NewService(store, testPayee, order.DefaultQuantityCap)

	mux := http.NewServeMux()
	New(store, svc, testPayee).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestListSuppliers(t *testing.T) {
	srv, _ := newTestServer(t)

	var got struct {
		Suppliers []string `json:"suppliers"`
	}
	status := getJSON(t, srv.URL+"/api/suppliers", &got)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"SupplierA", "SupplierB"}, got.Suppliers)
}

func TestListInventory_FilteredAndSorted(t *testing.T) {
	srv, _ := newTestServer(t)

	var got struct {
		Rows []inventoryRowResponse `json:"rows"`
	}
	status := getJSON(t, srv.URL+"/api/inventory?supplier=SupplierA", &got)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, got.Rows, 2)
	// Soonest expiry first.
	assert.Equal(t, "r2", got.Rows[0].ID)
	assert.Equal(t, "2026-03-01", got.Rows[0].Expiry)
	assert.Equal(t, "r1", got.Rows[1].ID)
	assert.Equal(t, "2.50", got.Rows[1].Price)
}

func TestListInventory_AllRowsWithoutSupplier(t *testing.T) {
	srv, _ := newTestServer(t)

	var got struct {
		Rows []inventoryRowResponse `json:"rows"`
	}
	status := getJSON(t, srv.URL+"/api/inventory", &got)

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, got.Rows, 3)
}

func TestPlaceOrder_Success(t *testing.T) {
	srv, store := newTestServer(t)

	var got orderResponse
	status := postJSON(t, srv.URL+"/api/orders", `{
		"supplier": "SupplierA",
		"payment_method": "UPI",
		"payment_reference": "ref-42",
		"items": [{"row_id": "r1", "quantity": 5}]
	}`, &got)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "12.50", got.Lines[0].Total)
	assert.Equal(t, "12.50", got.Total)
	assert.Contains(t, got.PaymentURI, "am=12.50")
	assert.Empty(t, got.Rejections)

	rows, err := store.ReadInventory(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 15, rows[0].Stock)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, "Paracetamol", history[0].Medicine)
	assert.Equal(t, 5, history[0].Quantity)
	assert.Equal(t, "ref-42", history[0].Reference)
}

func TestPlaceOrder_ReportsRejections(t *testing.T) {
	srv, _ := newTestServer(t)

	var got orderResponse
	status := postJSON(t, srv.URL+"/api/orders", `{
		"supplier": "SupplierA",
		"items": [
			{"row_id": "r1", "quantity": 11},
			{"row_id": "r2", "quantity": 3}
		]
	}`, &got)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "r2", got.Lines[0].RowID)
	require.Len(t, got.Rejections, 1)
	assert.Equal(t, "r1", got.Rejections[0].RowID)
	assert.Equal(t, "exceeds_cap", got.Rejections[0].Reason)
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	srv, _ := newTestServer(t)

	var got errorResponse
	status := postJSON(t, srv.URL+"/api/orders", `{"supplier": "SupplierA", "items": []}`, &got)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestPlaceOrder_UnknownRow(t *testing.T) {
	srv, _ := newTestServer(t)

	var got errorResponse
	status := postJSON(t, srv.URL+"/api/orders", `{
		"supplier": "SupplierA",
		"items": [{"row_id": "missing", "quantity": 1}]
	}`, &got)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, got.Message, "missing")
}

func TestPlaceOrder_SupplierMismatch(t *testing.T) {
	srv, _ := newTestServer(t)

	var got errorResponse
	status := postJSON(t, srv.URL+"/api/orders", `{
		"supplier": "SupplierB",
		"items": [{"row_id": "r1", "quantity": 1}]
	}`, &got)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestPlaceOrder_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	var got errorResponse
	status := postJSON(t, srv.URL+"/api/orders", `{"items": [`, &got)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPaymentQR(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/payments/qr?amount=12.50")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestPaymentQR_BadAmount(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, amount := range []string{"", "free", "-1", "0"} {
		resp, err := http.Get(srv.URL + "/api/payments/qr?amount=" + amount)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "amount=%q", amount)
	}
}
