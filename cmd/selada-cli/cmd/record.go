package cmd

import (
	"github.com/spf13/cobra"

	"selada/internal/core"
)

func newSaleCmd(opts *options) *cobra.Command {
	var date, kg string

	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record a sale priced at Rp 32,000 per kg",
		Example: `  selada-cli sale --date 2024-01-01 --kg 10
  selada-cli sale --kg 2,5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.parseDate(date)
			if err != nil {
				return err
			}
			qty, err := core.ParseKilograms(kg)
			if err != nil {
				return err
			}

			ledger, err := opts.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(opts, ledger)

			sale, err := ledger.RecordSale(cmd.Context(), d, qty)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Sale #%d recorded: %s, %s kg, %s\n",
				sale.ID, sale.Date, sale.Kilograms, core.FormatRupiah(sale.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "sale date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&kg, "kg", "", "quantity sold in kilograms")
	_ = cmd.MarkFlagRequired("kg")
	return cmd
}

func newPurchaseCmd(opts *options) *cobra.Command {
	var date, category, amount string

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record a purchase (air, listrik, bibit, plastik, lainnya)",
		Example: `  selada-cli purchase --date 2024-01-02 --category air --amount 50000
  selada-cli purchase --category listrik --amount "Rp 125.000"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := opts.parseDate(date)
			if err != nil {
				return err
			}
			c, err := core.ParseCategory(category)
			if err != nil {
				return err
			}
			amt, err := core.ParseRupiah(amount)
			if err != nil {
				return err
			}

			ledger, err := opts.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(opts, ledger)

			p, err := ledger.RecordPurchase(cmd.Context(), d, c, amt)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Purchase #%d recorded: %s, %s, %s\n",
				p.ID, p.Date, p.Category.Label(), core.FormatRupiah(p.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "purchase date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "purchase category")
	cmd.Flags().StringVar(&amount, "amount", "", "amount in Rupiah")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
