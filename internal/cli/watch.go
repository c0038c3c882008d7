package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"finanze/internal/amqp"
)

var errNoBroker = errors.New("watch needs a reachable broker, set AMQP_URL")

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print ledger change events published by other finanze processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.notifier == nil {
				return errNoBroker
			}
			ctx, stop := ShutdownContext(cmd.Context())
			defer stop()

			err := a.notifier.Consume(ctx, func(ev *amqp.LedgerEvent) error {
				line, err := ev.ToJSON()
				if err != nil {
					return err
				}
				printf(a.out, "%s\n", line)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
