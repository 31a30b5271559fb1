// Command seed-inventory loads an inventory CSV into the configured store,
// replacing the current snapshot. Gzipped files (.gz) are decompressed on the
// fly.
//
// The CSV columns are: Medicine Name, Supplier Name, Stock, Expiry Date
// (YYYY-MM-DD), Price per Unit. A header row is skipped when present. Row ids
// are generated on import.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	appkg "pharmadesk/internal/app"
	"pharmadesk/internal/domain/inventory"
)

const dateLayout = "2006-01-02"

func main() {
	var (
		csvFile string
		store   appkg.StoreConfig
	)

	flag.StringVar(&csvFile, "csv", "db/seed/inventory.csv", "path to inventory CSV file (.csv or .csv.gz)")
	flag.StringVar(&store.Backend, "backend", "sheets", "inventory backend: sheets, postgres or memory")
	flag.StringVar(&store.SpreadsheetID, "spreadsheet-id", "", "Google Sheets spreadsheet id (or PHARMADESK_STORE_SPREADSHEET_ID env)")
	flag.StringVar(&store.InventorySheet, "inventory-sheet", "Inventory", "sheet tab holding the inventory table")
	flag.StringVar(&store.CredentialsFile, "credentials-file", "", "Google service account credentials JSON file")
	flag.StringVar(&store.DatabaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if store.SpreadsheetID == "" {
		store.SpreadsheetID = os.Getenv("PHARMADESK_STORE_SPREADSHEET_ID")
	}
	if store.DatabaseURL == "" {
		store.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, csvFile, store); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, csvFile string, cfg appkg.StoreConfig) error {
	rows, err := readInventoryCSV(csvFile)
	if err != nil {
		return errors.Wrapf(err, "read %s", csvFile)
	}

	slog.Info("parsed inventory rows", slog.Int("count", len(rows)))

	store, cleanup, err := appkg.NewStore(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "create store")
	}
	defer cleanup()

	if err := store.OverwriteInventory(ctx, rows); err != nil {
		return errors.Wrap(err, "write inventory snapshot")
	}

	slog.Info("inventory snapshot replaced",
		slog.String("backend", cfg.Backend),
		slog.Int("rows", len(rows)),
	)
	return nil
}

func readInventoryCSV(path string) ([]inventory.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		reader = gz
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	var rows []inventory.Row
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(record[0], "Medicine Name") {
			continue
		}

		row, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.New("no inventory rows found")
	}
	return rows, nil
}

func parseRecord(record []string) (inventory.Row, error) {
	stock, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return inventory.Row{}, errors.Wrapf(err, "stock %q", record[2])
	}
	if stock < 0 {
		return inventory.Row{}, errors.Errorf("negative stock %d", stock)
	}

	expiry, err := time.Parse(dateLayout, strings.TrimSpace(record[3]))
	if err != nil {
		return inventory.Row{}, errors.Wrapf(err, "expiry date %q", record[3])
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil {
		return inventory.Row{}, errors.Wrapf(err, "price %q", record[4])
	}
	if price.IsNegative() {
		return inventory.Row{}, errors.Errorf("negative price %s", price)
	}

	medicine := strings.TrimSpace(record[0])
	supplier := strings.TrimSpace(record[1])
	if medicine == "" || supplier == "" {
		return inventory.Row{}, errors.New("medicine and supplier names are required")
	}

	return inventory.Row{
		ID:       uuid.NewString(),
		Medicine: medicine,
		Supplier: supplier,
		Stock:    stock,
		Expiry:   expiry,
		Price:    price,
	}, nil
}
