package cli

import (
	"context"
	"fmt"
	"io"

	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/service"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report registry consistency problems",
		Long: `Reports frames listed in both registries, duplicated rows, class
strings that disagree with the label flags and rows without an image.
Nothing is repaired. Exits with status 1 when problems are found.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), rootOpts, cmd)
		},
	}
}

func runCheck(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var res *dto.AnomaliesResponse
	err := withSession(ctx, opts, func(svc service.ISessionService, sess *dto.SessionResponse) error {
		var err error
		res, err = svc.Anomalies(ctx, sess.Id)
		return err
	})
	if err != nil {
		formatter.Error(err)
		return err
	}

	if err := formatter.Success(res, func(w io.Writer) {
		if res.Count == 0 {
			okColor.Fprintln(w, "✓ Registries are consistent")
			return
		}
		warnColor.Fprintf(w, "%d problem(s) found\n", res.Count)
		for _, a := range res.Anomalies {
			fmt.Fprintf(w, "  %-20s %s", a.Kind, a.Frame)
			if a.Detail != "" {
				dimColor.Fprintf(w, "  (%s)", a.Detail)
			}
			fmt.Fprintln(w)
		}
	}); err != nil {
		return err
	}

	if res.Count > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d consistency problem(s)", res.Count))
	}
	return nil
}
