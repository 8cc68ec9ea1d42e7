// Package archive mirrors the raw records extracted for a run into optional
// sinks (CSV, Parquet, Postgres) and publishes run-summary events to Kafka.
// Every sink is off unless its piece of the configuration is set; archiving
// failures never block report delivery, the runner only logs them.
package archive

import (
	"context"

	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/models"
)

// Sink persists one run's extracted records.
type Sink interface {
	ArchiveInvoices(ctx context.Context, runID string, invoices []models.Invoice) error
	ArchiveLineItems(ctx context.Context, runID string, items []models.LineItem) error
	Close() error
}

// BuildSinks assembles every sink the configuration enables.
func BuildSinks(cfg models.ArchiveConfig, logger *zap.Logger) ([]Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var sinks []Sink
	if cfg.CSVDir != "" {
		sinks = append(sinks, NewCSVSink(cfg.CSVDir))
	}
	if cfg.ParquetDir != "" {
		sinks = append(sinks, NewParquetSink(cfg.ParquetDir))
	}
	if cfg.PostgresDSN != "" {
		pg, err := NewPostgresSink(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, pg)
	}

	if len(sinks) > 0 {
		logger.Info("record archiving enabled", zap.Int("sinks", len(sinks)))
	}
	return sinks, nil
}
