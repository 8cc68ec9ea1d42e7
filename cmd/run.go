package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tornadohq/posreport/internal/extract"
	"github.com/tornadohq/posreport/internal/runner"
)

const windowTimeLayout = "2006-01-02 15:04"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a report for an arbitrary time window",
	Long: `Generates a report covering an explicit start and end timestamp, useful
for backfilling or auditing a specific span. Times use the local timezone in
the form "2006-01-02 15:04".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")

		start, err := time.ParseInLocation(windowTimeLayout, startStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.ParseInLocation(windowTimeLayout, endStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		if !end.After(start) {
			return fmt.Errorf("--end must be after --start")
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.Close()

		details, _ := cmd.Flags().GetBool("details")
		noEmail, _ := cmd.Flags().GetBool("no-email")

		label := fmt.Sprintf("%s to %s", start.Format("January 2, 2006"), end.Format("January 2, 2006"))
		filename := fmt.Sprintf("report-%s-%s.pdf", start.Format("20060102"), end.Format("20060102"))

		_, err = p.runner.Run(cmd.Context(), runner.Request{
			Kind:           "custom",
			Window:         extract.Window{Start: start, End: end},
			PeriodLabel:    label,
			Filename:       filename,
			IncludeDetails: details,
			SkipEmail:      noEmail,
		})
		if err != nil {
			return err
		}

		fmt.Println("✓ REPORT COMPLETE")
		return nil
	},
}

func init() {
	runCmd.Flags().String("start", "", "Window start, e.g. \"2025-11-19 14:00\"")
	runCmd.Flags().String("end", "", "Window end, e.g. \"2025-11-20 04:00\"")
	runCmd.Flags().Bool("details", false, "Include the detailed per-invoice listing")
	runCmd.Flags().Bool("no-email", true, "Generate the report without sending it")
	runCmd.MarkFlagRequired("start")
	runCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(runCmd)
}
