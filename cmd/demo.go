package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tornadohq/posreport/internal/demo"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate sample POS exports for trying the pipeline",
	Long: `Writes faker-generated INVOICE.csv and SALE.csv files that the CSV
record source can read, so the full pipeline can be exercised without an MDB
backup:

    posreport demo --dir ./demo-data
    posreport daily --csv-source-dir ./demo-data --no-email`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		days, _ := cmd.Flags().GetInt("days")
		perDay, _ := cmd.Flags().GetInt("invoices-per-day")
		seed, _ := cmd.Flags().GetInt64("seed")

		gen := demo.NewGenerator(seed)
		if err := gen.Generate(dir, days, perDay); err != nil {
			return err
		}

		fmt.Printf("✓ Demo export written to %s (%d days, %d invoices/day)\n", dir, days, perDay)
		return nil
	},
}

func init() {
	demoCmd.Flags().String("dir", "./demo-data", "Output directory for the CSV exports")
	demoCmd.Flags().Int("days", 35, "Number of business days to generate")
	demoCmd.Flags().Int("invoices-per-day", 40, "Invoices per business day")
	demoCmd.Flags().Int64("seed", 42, "Random seed")
	rootCmd.AddCommand(demoCmd)
}
