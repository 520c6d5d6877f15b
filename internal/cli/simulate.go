package cli

import "github.com/spf13/cobra"

var simulateSymbol string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Send a synthetic buy signal through the alert channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SimulateAlert(cmd.Context(), simulateSymbol)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateSymbol, "symbol", "TEST", "Symbol to use in the simulated alert")
}
