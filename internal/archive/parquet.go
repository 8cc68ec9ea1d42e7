package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/tornadohq/posreport/internal/models"
)

// ParquetSink writes the run's records as Parquet files, one directory per
// run, for downstream analytics tooling.
type ParquetSink struct {
	baseDir string
}

type parquetInvoice struct {
	InvoiceID     string  `parquet:"name=inv_no, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date          int64   `parquet:"name=date, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Amount        float64 `parquet:"name=amount, type=DOUBLE"`
	VAT           float64 `parquet:"name=vat, type=DOUBLE"`
	Discount      float64 `parquet:"name=discount, type=DOUBLE"`
	Service       float64 `parquet:"name=service, type=DOUBLE"`
	PaymentMethod string  `parquet:"name=payment_method, type=BYTE_ARRAY, convertedtype=UTF8"`
	ServiceType   string  `parquet:"name=service_type, type=BYTE_ARRAY, convertedtype=UTF8"`
	TableNo       string  `parquet:"name=table_no, type=BYTE_ARRAY, convertedtype=UTF8"`
	Waiter        string  `parquet:"name=waiter, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type parquetLineItem struct {
	InvoiceID string  `parquet:"name=inv_no, type=BYTE_ARRAY, convertedtype=UTF8"`
	ItemName  string  `parquet:"name=item_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category  string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8"`
	Quantity  float64 `parquet:"name=quantity, type=DOUBLE"`
	Amount    float64 `parquet:"name=amount, type=DOUBLE"`
	Cost      float64 `parquet:"name=cost, type=DOUBLE"`
}

func NewParquetSink(baseDir string) *ParquetSink {
	return &ParquetSink{baseDir: baseDir}
}

func (s *ParquetSink) ArchiveInvoices(_ context.Context, runID string, invoices []models.Invoice) error {
	rows := make([]interface{}, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, parquetInvoice{
			InvoiceID:     inv.InvoiceID,
			Date:          inv.Date.UnixMilli(),
			Amount:        inv.Amount.InexactFloat64(),
			VAT:           inv.VAT.InexactFloat64(),
			Discount:      inv.Discount.InexactFloat64(),
			Service:       inv.Service.InexactFloat64(),
			PaymentMethod: inv.PaymentMethod,
			ServiceType:   inv.ServiceType,
			TableNo:       inv.TableNo,
			Waiter:        inv.Waiter,
		})
	}
	return s.writeFile(runID, "invoices.parquet", new(parquetInvoice), rows)
}

func (s *ParquetSink) ArchiveLineItems(_ context.Context, runID string, items []models.LineItem) error {
	rows := make([]interface{}, 0, len(items))
	for _, li := range items {
		rows = append(rows, parquetLineItem{
			InvoiceID: li.InvoiceID,
			ItemName:  li.ItemName,
			Category:  li.Category,
			Quantity:  li.Quantity.InexactFloat64(),
			Amount:    li.Amount.InexactFloat64(),
			Cost:      li.Cost.InexactFloat64(),
		})
	}
	return s.writeFile(runID, "line_items.parquet", new(parquetLineItem), rows)
}

func (s *ParquetSink) writeFile(runID, name string, schema interface{}, rows []interface{}) error {
	dir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}

	fw, err := local.NewLocalFileWriter(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, schema, 2)
	if err != nil {
		fw.Close()
		return fmt.Errorf("creating parquet writer: %w", err)
	}

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			pw.WriteStop()
			fw.Close()
			return fmt.Errorf("writing parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("finalizing parquet file: %w", err)
	}
	return fw.Close()
}

func (s *ParquetSink) Close() error { return nil }
