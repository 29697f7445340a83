package main

import (
	"github.com/spf13/cobra"

	"launchdash/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print per-site launch statistics and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, l, ds, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer l.Sync()

		return report.Write(cmd.OutOrStdout(), ds)
	},
}
