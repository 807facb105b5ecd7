package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"networth/internal/core"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid line item id %q", arg)
	}
	return id, nil
}

func (a *app) displayAmount(amount string) string {
	d, err := core.ParseAmount(amount)
	if err != nil {
		return amount
	}
	return core.FormatAmount(d, a.currency)
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List line items sorted by name",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.svc.ListAll(cmd.Context())
			if err != nil {
				return err
			}
			sort.SliceStable(items, func(i, j int) bool {
				return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
			})

			records := make([]itemRecord, 0, len(items))
			for _, li := range items {
				records = append(records, newItemRecord(li))
			}
			return render(cmd.OutOrStdout(), a.output, records, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tAMOUNT")
				for _, r := range records {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Type, r.Status, a.displayAmount(r.Amount))
				}
			})
		},
	}
}

func newAddCommand(a *app) *cobra.Command {
	var in core.LineItemInput
	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a line item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Status = core.Status(status)
			li, err := a.svc.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printItem(cmd, li)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&in.Type, "type", "", "free-text category")
	cmd.Flags().StringVar(&status, "status", string(core.Asset), "Asset or Liability")
	cmd.Flags().StringVar(&in.Amount, "amount", "", "non-negative amount, e.g. 1234.56 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one line item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			li, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printItem(cmd, li)
		},
	}
}

func newEditCommand(a *app) *cobra.Command {
	var name, typ, status, amount string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a line item; flags not given keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := current.Input()
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("type") {
				in.Type = typ
			}
			if flags.Changed("status") {
				in.Status = core.Status(status)
			}
			if flags.Changed("amount") {
				in.Amount = amount
			}

			if err := a.svc.Update(cmd.Context(), id, in); err != nil {
				return err
			}
			li, err := a.svc.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printItem(cmd, li)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&typ, "type", "", "free-text category")
	cmd.Flags().StringVar(&status, "status", "", "Asset or Liability")
	cmd.Flags().StringVar(&amount, "amount", "", "non-negative amount")

	return cmd
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a line item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted line item %d\n", id)
			return nil
		},
	}
}

func (a *app) printItem(cmd *cobra.Command, li core.LineItem) error {
	rec := newItemRecord(li)
	return render(cmd.OutOrStdout(), a.output, rec, func(tw *tabwriter.Writer) {
		fmt.Fprintf(tw, "ID:\t%d\n", rec.ID)
		fmt.Fprintf(tw, "Name:\t%s\n", rec.Name)
		fmt.Fprintf(tw, "Type:\t%s\n", rec.Type)
		fmt.Fprintf(tw, "Status:\t%s\n", rec.Status)
		fmt.Fprintf(tw, "Amount:\t%s (%s)\n", rec.Amount, a.displayAmount(rec.Amount))
	})
}
