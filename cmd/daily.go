package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/runner"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Generate and email yesterday's sales report",
	Long: `Generates the report for yesterday's business day (14:00 through 04:00
the following morning), including the detailed per-invoice listing, and emails
it to the configured recipient. A day with zero transactions still produces
and sends the "no sales" document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		yesterday := time.Now().AddDate(0, 0, -1)
		window := extract.BusinessDay(yesterday.Year(), yesterday.Month(), yesterday.Day())
		label := yesterday.Format("January 2, 2006")

		noEmail, _ := cmd.Flags().GetBool("no-email")
		details, _ := cmd.Flags().GetBool("details")

		p.logger.Info("generating daily report", zap.String("period", label))

		snap, err := p.runner.Run(cmd.Context(), runner.Request{
			Kind:           "daily",
			Window:         window,
			PeriodLabel:    label,
			Filename:       fmt.Sprintf("daily-report-%d-%d.pdf", yesterday.Month(), yesterday.Day()),
			IncludeDetails: details,
			SkipEmail:      noEmail,
		})
		if err != nil {
			return err
		}

		if !snap.HasActivity() {
			fmt.Printf("No sales recorded for %s\n", label)
		}
		fmt.Println("✓ DAILY REPORT COMPLETE")
		return nil
	},
}

func init() {
	dailyCmd.Flags().Bool("details", true, "Include the detailed per-invoice listing")
	dailyCmd.Flags().Bool("no-email", false, "Generate the report without sending it")
	rootCmd.AddCommand(dailyCmd)
}
