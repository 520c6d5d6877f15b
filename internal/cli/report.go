package cli

import (
	"time"

	"github.com/spf13/cobra"

	"crypto-buy-alerts/internal/app"
)

var (
	reportWindow time.Duration
	reportLimit  int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise recorded signals over a window",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Report(cmd.Context(), app.ReportOptions{
			Window: reportWindow,
			Limit:  reportLimit,
		})
	},
}

func init() {
	reportCmd.Flags().DurationVar(&reportWindow, "window", 0, "Report window (defaults to config)")
	reportCmd.Flags().IntVar(&reportLimit, "limit", 0, "Maximum records to read (defaults to config)")
}
