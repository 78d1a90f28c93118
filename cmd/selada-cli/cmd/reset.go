package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("reset deletes all data permanently, pass --yes to confirm")

func newResetCmd(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all sales, purchases and stored reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errResetNotConfirmed
			}

			ledger, err := opts.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(opts, ledger)

			if err := ledger.Reset(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "All data deleted\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
