package archive

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tornadohq/posreport/internal/models"
)

// PostgresSink copies the run's records into two append-only tables so they
// can be queried after the nightly backup rotates away.
type PostgresSink struct {
	db *sql.DB
}

const createArchiveTables = `
CREATE TABLE IF NOT EXISTS archived_invoices (
	run_id         TEXT NOT NULL,
	inv_no         TEXT,
	date           TIMESTAMPTZ,
	amount         NUMERIC(12,2),
	vat            NUMERIC(12,2),
	discount       NUMERIC(12,2),
	service        NUMERIC(12,2),
	payment_method TEXT,
	service_type   TEXT,
	table_no       TEXT,
	waiter         TEXT
);
CREATE TABLE IF NOT EXISTS archived_line_items (
	run_id    TEXT NOT NULL,
	inv_no    TEXT,
	item_name TEXT,
	category  TEXT,
	quantity  NUMERIC(12,3),
	amount    NUMERIC(12,2),
	cost      NUMERIC(12,2)
);`

func NewPostgresSink(dsn string) (*PostgresSink, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	if _, err := db.Exec(createArchiveTables); err != nil {
		return nil, fmt.Errorf("error creating archive tables: %w", err)
	}
	return &PostgresSink{db: db}, nil
}

func (s *PostgresSink) ArchiveInvoices(ctx context.Context, runID string, invoices []models.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO archived_invoices
		(run_id, inv_no, date, amount, vat, discount, service, payment_method, service_type, table_no, waiter)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, inv := range invoices {
		if _, err := stmt.ExecContext(ctx,
			runID, inv.InvoiceID, inv.Date,
			inv.Amount, inv.VAT, inv.Discount, inv.Service,
			inv.PaymentMethod, inv.ServiceType, inv.TableNo, inv.Waiter,
		); err != nil {
			return fmt.Errorf("failed to insert invoice %s: %w", inv.InvoiceID, err)
		}
	}
	return tx.Commit()
}

func (s *PostgresSink) ArchiveLineItems(ctx context.Context, runID string, items []models.LineItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO archived_line_items
		(run_id, inv_no, item_name, category, quantity, amount, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, li := range items {
		if _, err := stmt.ExecContext(ctx,
			runID, li.InvoiceID, li.ItemName, li.Category,
			li.Quantity, li.Amount, li.Cost,
		); err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresSink) Close() error {
	return s.db.Close()
}
