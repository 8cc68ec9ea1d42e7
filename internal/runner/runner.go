// Package runner wires one report run end to end: resolve window, extract,
// aggregate, render, archive, deliver. It owns the failure handling; the
// engine and renderer below it never recover locally.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/analyze"
	"github.com/tornadohq/posreport/internal/archive"
	"github.com/tornadohq/posreport/internal/cloudwriter"
	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/models"
	"github.com/tornadohq/posreport/internal/report"
)

// ErrNoData means the requested window contained zero invoices and the
// request asked to fail rather than send a "no sales" document.
var ErrNoData = errors.New("no invoice data found for this period")

// Renderer is what the runner needs from the document stage.
type Renderer interface {
	Render(ctx context.Context, doc *report.Document) ([]byte, error)
}

// Mailer is what the runner needs from the delivery stage.
type Mailer interface {
	SendReport(document []byte, periodLabel, kind string) error
}

// Request describes one report run.
type Request struct {
	// Kind is "daily" or "monthly"; it drives subject and filename wording.
	Kind string
	// Window is the extraction span.
	Window extract.Window
	// PeriodLabel is the human period name, e.g. "November 2025".
	PeriodLabel string
	// Filename is the PDF name written under the reports directory.
	Filename string
	// GrowthWindow, when set, is extracted and aggregated to feed the
	// growth comparison.
	GrowthWindow *extract.Window
	// IncludeDetails appends the per-invoice listing to the document.
	IncludeDetails bool
	// SkipEmail generates and archives without delivering.
	SkipEmail bool
	// FailOnEmpty aborts with ErrNoData instead of producing the
	// "no sales" document.
	FailOnEmpty bool
}

// Runner executes report requests against a fixed set of collaborators.
type Runner struct {
	cfg       *models.Config
	source    extract.Source
	renderer  Renderer
	mailer    Mailer
	sinks     []archive.Sink
	publisher *archive.KafkaPublisher
	uploader  *cloudwriter.Uploader
	logger    *zap.Logger
	now       func() time.Time
}

func New(cfg *models.Config, source extract.Source, renderer Renderer, mailer Mailer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// WithArchive attaches optional record sinks and the run event publisher.
func (r *Runner) WithArchive(sinks []archive.Sink, publisher *archive.KafkaPublisher) *Runner {
	r.sinks = sinks
	r.publisher = publisher
	return r
}

// WithUploader attaches the optional report document uploader.
func (r *Runner) WithUploader(uploader *cloudwriter.Uploader) *Runner {
	r.uploader = uploader
	return r
}

// Run executes the pipeline for one request. The returned snapshot is nil
// only on error.
func (r *Runner) Run(ctx context.Context, req Request) (*models.Snapshot, error) {
	bar := progressbar.NewOptions(4,
		progressbar.OptionSetDescription("extracting data"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	invoices, items, err := r.source.Fetch(ctx, req.Window)
	if err != nil {
		return nil, err
	}
	bar.Add(1)

	if len(invoices) == 0 && req.FailOnEmpty {
		r.logger.Warn("no invoice data found", zap.String("period", req.PeriodLabel))
		return nil, fmt.Errorf("%w: %s", ErrNoData, req.PeriodLabel)
	}

	bar.Describe("analyzing sales")
	previous, err := r.previousSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}
	snap := analyze.BuildSnapshot(invoices, items, r.cfg.TopItemsCount, previous)
	snap.RunID = cuid.New()
	bar.Add(1)

	r.logger.Info("snapshot built",
		zap.String("run_id", snap.RunID),
		zap.String("period", req.PeriodLabel),
		zap.String("total_revenue", snap.Invoices.TotalRevenue.StringFixed(2)),
		zap.Int("transactions", snap.Invoices.TransactionCount))

	bar.Describe("rendering report")
	doc := &report.Document{
		RestaurantName: r.cfg.RestaurantName,
		Title:          r.cfg.ReportTitle,
		PeriodLabel:    req.PeriodLabel,
		Snapshot:       snap,
		GeneratedAt:    r.now(),
	}
	if req.IncludeDetails && snap.HasActivity() {
		doc.DetailRows = invoices
	}

	pdf, err := r.renderer.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := r.savePDF(req.Filename, pdf); err != nil {
		return nil, err
	}
	bar.Add(1)

	r.archiveRun(ctx, snap, req, invoices, items, pdf)

	if req.SkipEmail {
		bar.Describe("skipping email")
		bar.Add(1)
		return snap, nil
	}

	bar.Describe("sending email")
	if err := r.mailer.SendReport(pdf, req.PeriodLabel, req.Kind); err != nil {
		return nil, err
	}
	bar.Add(1)

	return snap, nil
}

// previousSnapshot extracts and aggregates the growth comparison window.
func (r *Runner) previousSnapshot(ctx context.Context, req Request) (*models.Snapshot, error) {
	if req.GrowthWindow == nil {
		return nil, nil
	}
	invoices, items, err := r.source.Fetch(ctx, *req.GrowthWindow)
	if err != nil {
		// A missing older backup only loses the growth row.
		if errors.Is(err, extract.ErrBackupNotFound) {
			r.logger.Warn("previous period unavailable, skipping growth", zap.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return analyze.BuildSnapshot(invoices, items, r.cfg.TopItemsCount, nil), nil
}

func (r *Runner) savePDF(filename string, pdf []byte) error {
	if err := os.MkdirAll(r.cfg.ReportsDir, 0o755); err != nil {
		return fmt.Errorf("creating reports dir: %w", err)
	}
	path := filepath.Join(r.cfg.ReportsDir, filename)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	r.logger.Info("report written", zap.String("path", path), zap.Int("bytes", len(pdf)))
	return nil
}

// archiveRun runs every optional sink. Archive failures are logged, never
// fatal: the report still has to go out.
func (r *Runner) archiveRun(ctx context.Context, snap *models.Snapshot, req Request, invoices []models.Invoice, items []models.LineItem, pdf []byte) {
	for _, sink := range r.sinks {
		if err := sink.ArchiveInvoices(ctx, snap.RunID, invoices); err != nil {
			r.logger.Error("archiving invoices failed", zap.Error(err))
		}
		if err := sink.ArchiveLineItems(ctx, snap.RunID, items); err != nil {
			r.logger.Error("archiving line items failed", zap.Error(err))
		}
	}

	if r.uploader != nil {
		if _, err := r.uploader.Upload(req.Filename, pdf); err != nil {
			r.logger.Error("report upload failed", zap.Error(err))
		}
	}

	if r.publisher != nil {
		event := archive.NewRunEvent(snap, req.Kind, req.PeriodLabel, r.now())
		if err := r.publisher.Publish(event); err != nil {
			r.logger.Error("run event publish failed", zap.Error(err))
		}
	}
}

// Close releases the optional collaborators.
func (r *Runner) Close() error {
	var firstErr error
	for _, sink := range r.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
