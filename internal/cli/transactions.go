package cli

import (
	"time"

	"github.com/spf13/cobra"

	"finanze/internal/core"
)

type transactionFlags struct {
	date        string
	account     string
	description string
	amount      string
	typ         string
	category    string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	fs.StringVarP(&f.account, "account", "a", "", "account name")
	fs.StringVarP(&f.description, "description", "d", "", "free text description")
	fs.StringVarP(&f.amount, "amount", "m", "", "positive amount, e.g. 12.50")
	fs.StringVarP(&f.typ, "type", "t", "", "income or expense")
	fs.StringVarP(&f.category, "category", "c", "", "expense category (default Uncategorized)")
}

func today() string {
	return time.Now().Format(time.DateOnly)
}

func newAddCommand(a *app) *cobra.Command {
	var f transactionFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amount, err := core.ParseMoney(f.amount)
			if err != nil {
				return err
			}
			typ := core.Expense
			if f.typ != "" {
				if typ, err = core.ParseType(f.typ); err != nil {
					return err
				}
			}
			date := f.date
			if date == "" {
				date = today()
			}
			t, err := a.svc.AddTransaction(cmd.Context(), core.TransactionInput{
				Date:        date,
				Account:     f.account,
				Description: f.description,
				Amount:      amount,
				Type:        typ,
				Category:    f.category,
			}, a.confirmer())
			if err != nil {
				return err
			}
			if err := a.commit(cmd.Context()); err != nil {
				return err
			}
			printf(a.out, "Added %s: %s %s on %s (%s)\n", t.ID, t.Type, a.money(t.Amount), t.Account, t.Date)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var f transactionFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing transaction",
		Long:  "Change fields of an existing transaction. Flags that are not given keep their current value. Transfer legs cannot be edited.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.svc.Transaction(args[0])
			if err != nil {
				return err
			}
			in := core.TransactionInput{
				Date:        cur.Date.String(),
				Account:     cur.Account,
				Description: cur.Description,
				Amount:      cur.Amount,
				Type:        cur.Type,
				Category:    cur.Category,
			}
			changed := cmd.Flags().Changed
			if changed("date") {
				in.Date = f.date
			}
			if changed("account") {
				in.Account = f.account
			}
			if changed("description") {
				in.Description = f.description
			}
			if changed("amount") {
				if in.Amount, err = core.ParseMoney(f.amount); err != nil {
					return err
				}
			}
			if changed("type") {
				if in.Type, err = core.ParseType(f.typ); err != nil {
					return err
				}
				if in.Type != cur.Type && !changed("category") {
					in.Category = ""
				}
			}
			if changed("category") {
				in.Category = f.category
			}

			t, err := a.svc.EditTransaction(cmd.Context(), args[0], in, a.confirmer())
			if err != nil {
				return err
			}
			if err := a.commit(cmd.Context()); err != nil {
				return err
			}
			printf(a.out, "Updated %s: %s %s on %s (%s)\n", t.ID, t.Type, a.money(t.Amount), t.Account, t.Date)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.DeleteTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.commit(cmd.Context()); err != nil {
				return err
			}
			printf(a.out, "Deleted %s\n", res.Removed.ID)
			if res.OrphanedLeg {
				printf(a.errOut, "warning: %q was one leg of a transfer; delete the matching leg in the other account by hand\n", res.Removed.Description)
			}
			return nil
		},
	}
}

func newTransferCommand(a *app) *cobra.Command {
	var date, from, to, amount string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := core.ParseMoney(amount)
			if err != nil {
				return err
			}
			if date == "" {
				date = today()
			}
			tr, err := a.svc.TransferFunds(cmd.Context(), core.TransferInput{
				Date:   date,
				From:   from,
				To:     to,
				Amount: m,
			}, a.confirmer())
			if err != nil {
				return err
			}
			if err := a.commit(cmd.Context()); err != nil {
				return err
			}
			printf(a.out, "Transferred %s from %s to %s (%s, %s)\n",
				a.money(tr.Out.Amount), tr.Out.Account, tr.In.Account, tr.Out.ID, tr.In.ID)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	fs.StringVar(&from, "from", "", "source account")
	fs.StringVar(&to, "to", "", "destination account")
	fs.StringVarP(&amount, "amount", "m", "", "positive amount")
	for _, name := range []string{"from", "to", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
