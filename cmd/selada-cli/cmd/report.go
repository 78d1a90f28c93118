package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"selada/internal/core"
	"selada/internal/services"
	"selada/internal/view"
)

var reportKinds = []string{"dashboard", "monthly", "ledger", "income", "balance"}

func newReportCmd(opts *options) *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:       "report [dashboard|monthly|ledger|income|balance]",
		Short:     "Print a financial report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: reportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, err := time.Parse(core.MonthLayout, month); err != nil {
					return fmt.Errorf("%w: month must be YYYY-MM", core.ErrInvalidDate)
				}
			}

			ledger, err := opts.openLedger()
			if err != nil {
				return err
			}
			defer closeLedger(opts, ledger)

			report, err := buildReport(cmd, ledger, args[0], month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				v, err := view.Of(report)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}
			return printReport(out, report)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "dashboard month YYYY-MM (default current month)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func buildReport(cmd *cobra.Command, ledger *services.LedgerService, kind, month string) (any, error) {
	ctx := cmd.Context()
	switch kind {
	case "dashboard":
		return ledger.Dashboard(ctx, month)
	case "monthly":
		return ledger.MonthlySummaries(ctx)
	case "ledger":
		return ledger.GeneralLedger(ctx)
	case "income":
		return ledger.IncomeStatement(ctx)
	case "balance":
		return ledger.BalanceSheet(ctx)
	}
	return nil, fmt.Errorf("unknown report %q", kind)
}

func printReport(w io.Writer, report any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rp := core.FormatRupiah

	switch r := report.(type) {
	case core.Dashboard:
		status := "rugi"
		if r.Current.Profitable {
			status = "untung"
		}
		printf(tw, "Bulan\t%s\n", r.Current.Month)
		printf(tw, "Pendapatan\t%s\n", rp(r.Current.Revenue))
		printf(tw, "Beban\t%s\n", rp(r.Current.Expense))
		printf(tw, "Laba\t%s (%s)\n\n", rp(r.Current.Profit), status)
		printMonthly(tw, r.Trend)
	case []core.MonthlySummary:
		printMonthly(tw, r)
	case []core.LedgerEntry:
		printf(tw, "Tanggal\tKeterangan\tKategori\tDebit\tKredit\n")
		for _, e := range r {
			printf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Description, e.Category.Label(), rp(e.Debit), rp(e.Credit))
		}
	case core.IncomeStatement:
		printf(tw, "Pendapatan\t%s\n", rp(r.Revenue))
		printf(tw, "Beban\t%s\n", rp(r.Expense))
		printf(tw, "Laba Bersih\t%s\n", rp(r.NetProfit))
	case core.BalanceSheet:
		printf(tw, "Aset\t\tEkuitas\t\n")
		printf(tw, "Kas\t%s\tLaba Ditahan\t%s\n", rp(r.Cash), rp(r.RetainedEarnings))
	default:
		return fmt.Errorf("cannot print %T", report)
	}
	return tw.Flush()
}

func printMonthly(w io.Writer, months []core.MonthlySummary) {
	printf(w, "Bulan\tPendapatan\tBeban\tLaba\n")
	for _, m := range months {
		printf(w, "%s\t%s\t%s\t%s\n", m.Month, core.FormatRupiah(m.Revenue), core.FormatRupiah(m.Expense), core.FormatRupiah(m.Profit))
	}
}
