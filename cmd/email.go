package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tornadohq/posreport/internal/mailer"
	"github.com/tornadohq/posreport/internal/models"
)

var emailTestCmd = &cobra.Command{
	Use:   "email-test",
	Short: "Verify the SMTP configuration without sending a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		fmt.Printf("Testing connection to %s:%d...\n", cfg.SMTP.Host, cfg.SMTP.Port)

		m := mailer.New(cfg.SMTP, cfg.RestaurantName, cfg.ReportTitle, nil)
		if err := m.TestConnection(); err != nil {
			return err
		}

		fmt.Println("✓ Email configuration is valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(emailTestCmd)
}
