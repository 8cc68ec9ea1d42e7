package archive

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tornadohq/posreport/internal/models"
)

// CSVSink writes one directory per run containing INVOICE.csv and SALE.csv
// in the same layout mdb-export emits, so an archived run can be re-read by
// the CSV record source.
type CSVSink struct {
	baseDir string
}

func NewCSVSink(baseDir string) *CSVSink {
	return &CSVSink{baseDir: baseDir}
}

func (s *CSVSink) ArchiveInvoices(_ context.Context, runID string, invoices []models.Invoice) error {
	rows := make([][]string, 0, len(invoices)+1)
	rows = append(rows, []string{"INV_NO", "DATE", "TIME", "AMOUNT", "VAT", "DISCOUNT", "SERVICE", "SALE_INFO", "C_NO", "TABLE_NO", "WAITOR"})
	for _, inv := range invoices {
		ts := inv.Date.Format("1/2/06 15:04:05")
		rows = append(rows, []string{
			inv.InvoiceID, ts, ts,
			inv.Amount.String(), inv.VAT.String(), inv.Discount.String(), inv.Service.String(),
			inv.PaymentMethod, inv.ServiceType, inv.TableNo, inv.Waiter,
		})
	}
	return s.writeFile(runID, "INVOICE.csv", rows)
}

func (s *CSVSink) ArchiveLineItems(_ context.Context, runID string, items []models.LineItem) error {
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, []string{"INV_NO", "ITEMS", "CATOGERY", "QTY", "AMOUNT", "COST"})
	for _, li := range items {
		rows = append(rows, []string{
			li.InvoiceID, li.ItemName, li.Category,
			li.Quantity.String(), li.Amount.String(), li.Cost.String(),
		})
	}
	return s.writeFile(runID, "SALE.csv", rows)
}

func (s *CSVSink) writeFile(runID, name string, rows [][]string) error {
	dir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVSink) Close() error { return nil }
