package cli

import (
	"github.com/spf13/cobra"
)

func newAccountCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List accounts",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				printNames(a, a.svc.Accounts())
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.AddAccount(cmd.Context(), args[0]); err != nil {
					return err
				}
				if err := a.commit(cmd.Context()); err != nil {
					return err
				}
				printf(a.out, "Added account %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete an account with no transactions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.DeleteAccount(cmd.Context(), args[0], a.confirmer()); err != nil {
					return err
				}
				if err := a.commit(cmd.Context()); err != nil {
					return err
				}
				printf(a.out, "Deleted account %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newCategoryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage expense categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				printNames(a, a.svc.Categories())
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.AddCategory(cmd.Context(), args[0]); err != nil {
					return err
				}
				if err := a.commit(cmd.Context()); err != nil {
					return err
				}
				printf(a.out, "Added category %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <name>",
			Short: "Delete a category no transaction uses",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.svc.DeleteCategory(cmd.Context(), args[0]); err != nil {
					return err
				}
				if err := a.commit(cmd.Context()); err != nil {
					return err
				}
				printf(a.out, "Deleted category %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
