package cli

import (
	"github.com/spf13/cobra"

	"crypto-buy-alerts/internal/app"
)

var (
	exportCSVPath string
	exportPNGPath string
	exportLimit   int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the signal log as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			CSVPath: exportCSVPath,
			PNGPath: exportPNGPath,
			Limit:   exportLimit,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum records to export (defaults to config)")
}
