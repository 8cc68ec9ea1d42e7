package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/runner"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Generate and email the monthly sales report",
	Long: `Generates the report for the previous calendar month (run it on the 1st)
and emails it to the configured recipient. The month-over-month growth figure
compares against the month before the reported one. An empty month aborts with
a warning rather than emailing an empty report; --current reports the month in
progress instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		current, _ := cmd.Flags().GetBool("current")
		details, _ := cmd.Flags().GetBool("details")
		noEmail, _ := cmd.Flags().GetBool("no-email")

		now := time.Now()
		year, month := now.Year(), now.Month()
		failOnEmpty := true
		if !current {
			year, month = extract.PreviousMonth(now)
		} else {
			// An in-progress month legitimately starts empty.
			failOnEmpty = false
		}

		window := extract.Month(year, month)
		growthYear, growthMonth := extract.PreviousMonth(window.Start)
		growthWindow := extract.Month(growthYear, growthMonth)
		label := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Format("January 2006")

		p.logger.Info("generating monthly report", zap.String("period", label))

		snap, err := p.runner.Run(cmd.Context(), runner.Request{
			Kind:           "monthly",
			Window:         window,
			PeriodLabel:    label,
			Filename:       fmt.Sprintf("monthly-report-%d.pdf", int(month)),
			GrowthWindow:   &growthWindow,
			IncludeDetails: details,
			SkipEmail:      noEmail,
			FailOnEmpty:    failOnEmpty,
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ MONTHLY REPORT COMPLETE - revenue %s across %d transactions\n",
			snap.Invoices.TotalRevenue.StringFixed(2), snap.Invoices.TransactionCount)
		return nil
	},
}

func init() {
	monthlyCmd.Flags().Bool("current", false, "Report the month in progress instead of the previous month")
	monthlyCmd.Flags().Bool("details", false, "Include the detailed per-invoice listing")
	monthlyCmd.Flags().Bool("no-email", false, "Generate the report without sending it")
	rootCmd.AddCommand(monthlyCmd)
}
