// Package postgres implements the store contract on PostgreSQL, for
// deployments that outgrow the spreadsheet backend.
package postgres

import (
	"context"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmadesk/db"
	"pharmadesk/internal/domain/inventory"
	"pharmadesk/internal/domain/payment"
	"pharmadesk/internal/storage"
)

// NewPool creates a pgxpool.Pool with shopspring/decimal support registered
// for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database config")
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create connection pool")
	}
	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, db.Schema); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

var _ storage.Store = (*Store)(nil)

// Store is a PostgreSQL-backed storage.Store. The inventory table mirrors the
// snapshot semantics of the spreadsheet backend: OverwriteInventory replaces
// all rows, keeping the original row order in a position column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store using the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func unavailable(err error, op string) error {
	return errors.Wrapf(storage.ErrUnavailable, "%s: %v", op, err)
}

const readInventorySQL = `SELECT id, medicine_name, supplier_name, stock, expiry_date, price_per_unit
	FROM inventory ORDER BY position`

// ReadInventory returns the full snapshot in stored order.
func (s *Store) ReadInventory(ctx context.Context) ([]inventory.Row, error) {
	rows, err := s.pool.Query(ctx, readInventorySQL)
	if err != nil {
		return nil, unavailable(err, "read inventory")
	}
	defer rows.Close()

	var out []inventory.Row
	for rows.Next() {
		var r inventory.Row
		if err := rows.Scan(&r.ID, &r.Medicine, &r.Supplier, &r.Stock, &r.Expiry, &r.Price); err != nil {
			return nil, errors.Wrap(err, "scan inventory row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "read inventory")
	}
	return out, nil
}

const insertInventorySQL = `INSERT INTO inventory
	(id, position, medicine_name, supplier_name, stock, expiry_date, price_per_unit)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// OverwriteInventory replaces the whole table with the given snapshot. The
// replace itself is atomic (a single transaction) so no partial snapshot is
// ever visible, matching the spreadsheet backend's clear-then-write contract.
func (s *Store) OverwriteInventory(ctx context.Context, rows []inventory.Row) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return unavailable(err, "begin overwrite")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM inventory`); err != nil {
		return unavailable(err, "clear inventory")
	}

	batch := &pgx.Batch{}
	for i, r := range rows {
		batch.Queue(insertInventorySQL, r.ID, i, r.Medicine, r.Supplier, r.Stock, r.Expiry, r.Price)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return unavailable(err, "write inventory")
	}

	if err := tx.Commit(ctx); err != nil {
		return unavailable(err, "commit overwrite")
	}
	return nil
}

const appendPaymentSQL = `INSERT INTO payment_history
	(medicine_name, quantity, total_price, supplier_name, payment_method, payment_reference, recorded_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// AppendPayment inserts one history row. The table is created by migrations,
// so unlike the spreadsheet backend there is no section to create lazily.
func (s *Store) AppendPayment(ctx context.Context, rec payment.Record) error {
	_, err := s.pool.Exec(ctx, appendPaymentSQL,
		rec.Medicine, rec.Quantity, rec.Total, rec.Supplier,
		rec.Method, rec.Reference, rec.Timestamp,
	)
	if err != nil {
		return unavailable(err, "append payment record")
	}
	return nil
}

// Ping reports database reachability.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable(err, "ping database")
	}
	return nil
}
