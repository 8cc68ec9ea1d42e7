package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/archive"
	"github.com/tornadohq/posreport/internal/cloudwriter"
	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/mailer"
	"github.com/tornadohq/posreport/internal/models"
	"github.com/tornadohq/posreport/internal/report"
	"github.com/tornadohq/posreport/internal/runner"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "posreport",
	Short: "Generates and emails restaurant sales reports from POS backups",
	Long: `posreport extracts invoice and line-item records from a point-of-sale
database backup, aggregates them into sales and financial metrics, renders a
paginated PDF report, and delivers it by email. Designed to run from cron:
'posreport daily' after close of business and 'posreport monthly' on the 1st.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./posreport.yaml)")

	rootCmd.PersistentFlags().String("backup-path", "./backups", "Directory holding the POS backup file")
	rootCmd.PersistentFlags().String("reports-dir", "./reports", "Directory for generated PDF reports")
	rootCmd.PersistentFlags().String("csv-source-dir", "", "Read records from CSV exports in this directory instead of the MDB backup")
	rootCmd.PersistentFlags().Int("top-items-count", 10, "Number of items in the ranked selling items table")
	rootCmd.PersistentFlags().String("restaurant-name", "TORNADO RESTAURANT", "Display name on reports and emails")

	viper.BindPFlag("backup_path", rootCmd.PersistentFlags().Lookup("backup-path"))
	viper.BindPFlag("reports_dir", rootCmd.PersistentFlags().Lookup("reports-dir"))
	viper.BindPFlag("csv_source_dir", rootCmd.PersistentFlags().Lookup("csv-source-dir"))
	viper.BindPFlag("top_items_count", rootCmd.PersistentFlags().Lookup("top-items-count"))
	viper.BindPFlag("restaurant_name", rootCmd.PersistentFlags().Lookup("restaurant-name"))
}

// pipeline bundles everything a report subcommand needs.
type pipeline struct {
	cfg      *models.Config
	logger   *zap.Logger
	runner   *runner.Runner
	renderer *report.Renderer
}

func (p *pipeline) Close() {
	p.runner.Close()
	p.renderer.Close()
	p.logger.Sync()
}

func buildPipeline() (*pipeline, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	var source extract.Source
	if cfg.CSVSourceDir != "" {
		source = extract.NewCSVDirSource(cfg.CSVSourceDir)
	} else {
		source = extract.NewMDBSource(cfg, logger)
	}

	renderer := report.NewRenderer(cfg.Render, logger)
	m := mailer.New(cfg.SMTP, cfg.RestaurantName, cfg.ReportTitle, logger)

	sinks, err := archive.BuildSinks(cfg.Archive, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := archive.NewKafkaPublisher(cfg.Archive, logger)
	if err != nil {
		return nil, err
	}
	uploader, err := cloudwriter.NewUploader(cfg.Cloud, logger)
	if err != nil {
		return nil, err
	}

	run := runner.New(cfg, source, renderer, m, logger).
		WithArchive(sinks, publisher).
		WithUploader(uploader)

	return &pipeline{cfg: cfg, logger: logger, runner: run, renderer: renderer}, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %s\n", describeFailure(err))
		os.Exit(1)
	}
}

// describeFailure maps the error taxonomy to operator-facing messages.
func describeFailure(err error) string {
	var authErr *mailer.AuthError
	var transportErr *mailer.TransportError
	var renderErr *report.RenderError

	switch {
	case errors.Is(err, extract.ErrBackupNotFound):
		return fmt.Sprintf("%v - check the backup path in the configuration", err)
	case errors.Is(err, extract.ErrExportToolMissing):
		return err.Error()
	case errors.Is(err, runner.ErrNoData):
		return err.Error()
	case errors.Is(err, mailer.ErrIncompleteConfig):
		return fmt.Sprintf("%v - set smtp.sender, smtp.password and smtp.recipient", err)
	case errors.As(err, &authErr):
		return fmt.Sprintf("%v - check the sender address and password", err)
	case errors.As(err, &transportErr):
		return err.Error()
	case errors.As(err, &renderErr):
		return err.Error()
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}
