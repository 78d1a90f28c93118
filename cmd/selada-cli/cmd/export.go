package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"selada/internal/export"
)

func newExportCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := opts.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(opts, ledger)

			snap, err := ledger.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			data, err := export.Workbook(export.ReportSheets(snap)...)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printf(cmd.OutOrStdout(), "Reports written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", export.ReportsFileName, "output file")
	return cmd
}
