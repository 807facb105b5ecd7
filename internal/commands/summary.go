package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"networth/internal/core"
)

func newTotalsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show total assets, total liabilities and net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.svc.Totals(cmd.Context())
			if err != nil {
				return err
			}
			rec := totalsRecord{
				TotalAssets:      t.TotalAssets.StringFixed(2),
				TotalLiabilities: t.TotalLiabilities.StringFixed(2),
				NetWorth:         t.NetWorth.StringFixed(2),
			}
			return render(cmd.OutOrStdout(), a.output, rec, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "Total assets:\t%s\n", core.FormatAmount(t.TotalAssets, a.currency))
				fmt.Fprintf(tw, "Total liabilities:\t%s\n", core.FormatAmount(t.TotalLiabilities, a.currency))
				fmt.Fprintf(tw, "Net worth:\t%s\n", core.FormatAmount(t.NetWorth, a.currency))
			})
		},
	}
}

func newSharesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shares",
		Short: "Show each line item's share of the composition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shares, err := a.svc.CompositionShares(cmd.Context())
			if err != nil {
				return err
			}

			records := make([]shareRecord, 0, len(shares))
			for _, sh := range shares {
				records = append(records, shareRecord{
					ID:     sh.ID,
					Name:   sh.Name,
					Status: sh.Status.String(),
					Amount: core.CanonicalAmount(sh.Amount),
				})
			}

			total := core.SumShares(shares)
			hundred := decimal.NewFromInt(100)
			return render(cmd.OutOrStdout(), a.output, records, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "NAME\tSTATUS\tAMOUNT\tSHARE")
				for _, sh := range shares {
					pct := decimal.Zero
					if total.IsPositive() {
						pct = sh.Amount.Mul(hundred).Div(total)
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\n", sh.Name, sh.Status, core.FormatAmount(sh.Amount, a.currency), pct.StringFixed(1))
				}
			})
		},
	}
}
