package main

import (
	"errors"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events <aggregate-id>",
		Short: "Show the logged events of a cart or order",
		Long: `Show the events recorded for a cart session or an order id.
Requires the postgres event log (EVENT_LOG=postgres).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if e.stores.PostgresLog == nil {
				return errors.New("events can only be read from the postgres event log")
			}
			events, err := e.stores.PostgresLog.Events(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return opts.printJSON(out, events)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fprintf(tw, "VERSION\tTYPE\tTIME\tDATA\n")
			for _, ev := range events {
				fprintf(tw, "%d\t%s\t%s\t%s\n", ev.Version, ev.EventType, ev.Timestamp.Format(time.RFC3339), ev.Data)
			}
			return tw.Flush()
		},
	}
}
