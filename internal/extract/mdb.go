package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/models"
)

// MDBSource extracts records by running the mdb-export utility against the
// POS backup file, one invocation per table.
type MDBSource struct {
	backupPath string
	filename   string
	tool       string
	logger     *zap.Logger
}

// NewMDBSource builds a source from the configured backup location. The
// backup file is checked lazily on Fetch so a run reports a fresh error each
// time the nightly backup is late.
func NewMDBSource(cfg *models.Config, logger *zap.Logger) *MDBSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	tool := cfg.ExportTool
	if tool == "" {
		tool = "mdb-export"
	}
	return &MDBSource{
		backupPath: cfg.BackupPath,
		filename:   cfg.MDBFilename,
		tool:       tool,
		logger:     logger,
	}
}

func (s *MDBSource) Fetch(ctx context.Context, window Window) ([]models.Invoice, []models.LineItem, error) {
	mdbFile := filepath.Join(s.backupPath, s.filename)
	if _, err := os.Stat(mdbFile); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrBackupNotFound, mdbFile)
	}

	s.logger.Info("using backup", zap.String("file", mdbFile))

	rawInvoices, err := s.exportTable(ctx, mdbFile, InvoiceTable)
	if err != nil {
		return nil, nil, err
	}
	rawSales, err := s.exportTable(ctx, mdbFile, SaleTable)
	if err != nil {
		return nil, nil, err
	}

	invoices, err := decodeInvoices(bytes.NewReader(rawInvoices), window)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s export: %w", InvoiceTable, err)
	}
	items, err := decodeLineItems(bytes.NewReader(rawSales), window)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding %s export: %w", SaleTable, err)
	}

	s.logger.Info("extracted records",
		zap.Int("invoices", len(invoices)),
		zap.Int("line_items", len(items)))

	return invoices, items, nil
}

func (s *MDBSource) exportTable(ctx context.Context, mdbFile, tableName string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.tool, mdbFile, tableName)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: install mdbtools or put %s on PATH", ErrExportToolMissing, s.tool)
		}
		return nil, fmt.Errorf("%s %s failed: %w: %s", s.tool, tableName, err, stderr.String())
	}
	return stdout.Bytes(), nil
}
