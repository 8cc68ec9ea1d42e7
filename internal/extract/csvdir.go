package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tornadohq/posreport/internal/models"
)

// CSVDirSource reads INVOICE.csv and SALE.csv from a directory instead of
// shelling out to mdb-export. The files use the same layout mdb-export
// emits, so demo data and tests exercise the identical decode path.
type CSVDirSource struct {
	dir string
}

func NewCSVDirSource(dir string) *CSVDirSource {
	return &CSVDirSource{dir: dir}
}

func (s *CSVDirSource) Fetch(ctx context.Context, window Window) ([]models.Invoice, []models.LineItem, error) {
	invoices, err := decodeFile(s.dir, InvoiceTable, window, decodeInvoices)
	if err != nil {
		return nil, nil, err
	}
	items, err := decodeFile(s.dir, SaleTable, window, decodeLineItems)
	if err != nil {
		return nil, nil, err
	}
	return invoices, items, nil
}

func decodeFile[T any](dir, tableName string, window Window, decode func(r io.Reader, w Window) ([]T, error)) ([]T, error) {
	path := filepath.Join(dir, tableName+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	records, err := decode(f, window)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}
