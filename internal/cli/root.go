package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"finanze/internal/backend"
	"finanze/internal/core"
)

// Execute runs the finanze command line and returns the process exit code.
func Execute() int {
	LoadEnvFile()

	a := newApp(os.Stdout, os.Stderr, os.Stdin)
	root := newRootCommand(a)
	err := root.ExecuteContext(context.Background())
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, core.ErrDeclined):
		return 3
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrIntegrity), errors.Is(err, core.ErrNotEditable):
		return 2
	default:
		return 1
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "finanze",
		Short:         "Track income, expenses and transfers across accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.backendFlag, "backend", "",
		"storage backend, one of "+strings.Join(backend.GetBackendTypeStrings(), ", ")+" (overrides FINANZE_BACKEND)")
	flags.StringVarP(&a.fileFlag, "file", "f", "", "ledger document for the json backend (overrides FINANZE_DATA_FILE)")
	flags.BoolVarP(&a.assumeYes, "yes", "y", false, "accept warnings without prompting")

	root.AddCommand(
		newBalancesCommand(a),
		newAddCommand(a),
		newEditCommand(a),
		newDeleteCommand(a),
		newTransferCommand(a),
		newListCommand(a),
		newSummaryCommand(a),
		newAccountCommand(a),
		newCategoryCommand(a),
		newWatchCommand(a),
	)
	return root
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
