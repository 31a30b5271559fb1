// Package sheets implements the store contract on top of a Google Sheet.
// The inventory lives on one tab read and rewritten as a whole; payment
// history is appended to a second tab created on demand.
package sheets

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/storage"
)

// Config holds the connection settings for the spreadsheet backend.
type Config struct {
	// SpreadsheetID is the document id from the sheet URL.
	SpreadsheetID string
	// InventorySheet is the tab holding inventory rows.
	InventorySheet string
	// CredentialsFile is the path to a service-account JSON key. When empty,
	// application default credentials are used.
	CredentialsFile string
}

var _ storage.Store = (*Store)(nil)

// Store is a Google Sheets-backed storage.Store.
type Store struct {
	svc            *sheets.Service
	spreadsheetID  string
	inventorySheet string

	mu           sync.Mutex
	historyReady bool
}

// New creates a Store talking to the configured spreadsheet.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.InventorySheet == "" {
		cfg.InventorySheet = "Inventory"
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create sheets client")
	}

	return &Store{
		svc:            svc,
		spreadsheetID:  cfg.SpreadsheetID,
		inventorySheet: cfg.InventorySheet,
	}, nil
}

// unavailable marks a remote failure as storage.ErrUnavailable so callers can
// distinguish it from data errors.
func unavailable(err error, op string) error {
	return errors.Wrapf(storage.ErrUnavailable, "%s: %v", op, err)
}

// ReadInventory fetches all inventory rows. Rows without an ID (a sheet
// predating this system, or rows added by hand) get one generated here; the
// generated ids become durable on the next snapshot overwrite.
func (s *Store) ReadInventory(ctx context.Context) ([]inventory.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.inventorySheet+"!A:F").
		Context(ctx).Do()
	if err != nil {
		return nil, unavailable(err, "read inventory values")
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}

	rows := make([]inventory.Row, 0, len(resp.Values)-1)
	for i, cells := range resp.Values[1:] { // skip header
		row, err := decodeRow(cells)
		if err != nil {
			return nil, errors.Wrapf(err, "decode inventory row %d", i+2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// OverwriteInventory replaces the whole inventory tab with the given
// snapshot: clear, then write header plus rows. Any remote error fails the
// whole operation; the Sheets API exposes no partial write to the caller.
func (s *Store) OverwriteInventory(ctx context.Context, rows []inventory.Row) error {
	_, err := s.svc.Spreadsheets.Values.
		Clear(s.spreadsheetID, s.inventorySheet+"!A:F", &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "clear inventory")
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, headerCells(storage.InventoryHeader))
	for _, r := range rows {
		values = append(values, encodeRow(r))
	}

	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.inventorySheet+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "write inventory")
	}
	return nil
}

// AppendPayment appends one history row, creating the history tab with its
// header row on first use.
func (s *Store) AppendPayment(ctx context.Context, rec payment.Record) error {
	if err := s.ensureHistorySheet(ctx); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]any{encodeRecord(rec)}}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, "'"+storage.HistorySection+"'!A:G", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "append payment record")
	}
	return nil
}

// ensureHistorySheet creates the payment-history tab and header row if the
// spreadsheet does not have them yet. Idempotent; the result is cached for
// the lifetime of the Store.
func (s *Store) ensureHistorySheet(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.historyReady {
		return nil
	}

	doc, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "list sheet tabs")
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == storage.HistorySection {
			s.historyReady = true
			return nil
		}
	}

	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: storage.HistorySection},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return unavailable(err, "create history tab")
	}

	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, "'"+storage.HistorySection+"'!A1",
			&sheets.ValueRange{Values: [][]any{headerCells(storage.HistoryHeader)}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "write history header")
	}

	s.historyReady = true
	return nil
}

// Ping verifies the spreadsheet is reachable with the current credentials.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("spreadsheetId").
		Context(ctx).Do()
	if err != nil {
		return unavailable(err, "ping spreadsheet")
	}
	return nil
}
