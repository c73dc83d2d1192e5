package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"capsule-labeling-be/internal/config"
	"capsule-labeling-be/pkg/events"
	pktNats "capsule-labeling-be/pkg/nats"

	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var natsURL string

	cmd := &cobra.Command{
		Use:           "watch",
		Short:         "Print labeling events from NATS as they happen",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				natsURL = config.Load().App.NatsURL
			}
			if natsURL == "" {
				return NewExitError(ExitCommandError, "no NATS server: set NATS_URL or --nats-url")
			}
			return runWatch(cmd.Context(), rootOpts, cmd, natsURL)
		},
	}
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server (defaults to NATS_URL)")

	return cmd
}

func runWatch(ctx context.Context, opts *RootOptions, cmd *cobra.Command, natsURL string) error {
	formatter := newFormatter(opts, cmd)

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to connect to NATS", err)
	}
	defer sub.Close()

	err = sub.Subscribe(ctx, pktNats.SubjectPrefix+".>", "", func(_ context.Context, evt events.Event) error {
		return printEvent(formatter, evt)
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to subscribe", err)
	}
	formatter.VerboseLog("watching %s on %s", pktNats.SubjectPrefix+".>", natsURL)

	<-ctx.Done()
	return nil
}

func printEvent(f *OutputFormatter, evt events.Event) error {
	if f.Format == "json" {
		raw, err := events.Marshal(evt)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.Writer, string(raw))
		return err
	}
	details, _ := json.Marshal(evt.Payload())
	dimColor.Fprintf(f.Writer, "%s ", evt.Timestamp().Format("15:04:05"))
	warnColor.Fprintf(f.Writer, "%-18s ", evt.EventType())
	_, err := fmt.Fprintln(f.Writer, string(details))
	return err
}
