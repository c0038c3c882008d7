package cli

import (
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finanze/internal/report"
)

type filterFlags struct {
	c report.Criteria
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.c.Start, "start", "", "first date to include, YYYY-MM-DD")
	fs.StringVar(&f.c.End, "end", "", "last date to include, YYYY-MM-DD")
	fs.StringVarP(&f.c.Account, "account", "a", report.All, "account name or All")
	fs.StringVarP(&f.c.Category, "category", "c", report.All, "category name or All")
	fs.StringVarP(&f.c.Type, "type", "t", report.All, "Income, Expense or All")
}

func newBalancesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show the balance of every account and the total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := a.svc.Balances()
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
			for _, name := range a.svc.Accounts() {
				printf(w, "%s\t%s\t\n", name, a.money(b.Of(name)))
			}
			printf(w, "Total\t%s\t\n", a.money(b.Total))
			return w.Flush()
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, err := a.svc.FilterTransactions(cmd.Context(), f.c)
			if err != nil {
				printf(a.errOut, "warning: %v; showing all transactions\n", err)
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			printf(w, "ID\tDATE\tACCOUNT\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\n")
			for _, t := range txs {
				printf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date, t.Account, t.Type, t.Category, a.money(t.Amount), t.Description)
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	return cmd
}

func newSummaryCommand(a *app) *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Total income, expenses and spending by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.svc.Summarize(cmd.Context(), f.c)
			if err != nil {
				printf(a.errOut, "warning: %v; summarizing all transactions\n", err)
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', tabwriter.AlignRight)
			printf(w, "Transactions\t%d\t\n", s.Count)
			printf(w, "Income\t%s\t\n", a.money(s.TotalIncome))
			printf(w, "Expenses\t%s\t\n", a.money(s.TotalExpense))
			printf(w, "Net\t%s\t\n", a.money(s.Net))
			if len(s.ByCategory) > 0 {
				printf(w, "\t\t\n")
				for _, c := range s.ByCategory {
					printf(w, "%s\t%s\t\n", c.Name, a.money(c.Amount))
				}
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	return cmd
}

func printNames(a *app, names []string) {
	for _, n := range slices.Sorted(slices.Values(names)) {
		printf(a.out, "%s\n", n)
	}
}
