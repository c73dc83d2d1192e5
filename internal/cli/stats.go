package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/service"

	"github.com/spf13/cobra"
)

const barWidth = 30

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show label counts and registry sizes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), rootOpts, cmd)
		},
	}
}

func runStats(ctx context.Context, opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var (
		stats *dto.StatsResponse
		vocab []string
	)
	err := withSession(ctx, opts, func(svc service.ISessionService, sess *dto.SessionResponse) error {
		vocab = sess.Vocabulary
		var err error
		stats, err = svc.Stats(ctx, sess.Id)
		return err
	})
	if err != nil {
		formatter.Error(err)
		return err
	}

	return formatter.Success(stats, func(w io.Writer) {
		fmt.Fprintf(w, "Labeled frames:   %d\n", stats.LabeledCount)
		fmt.Fprintf(w, "Unlabeled frames: %d\n", stats.UnlabeledCount)
		fmt.Fprintln(w)

		peak := 0
		for _, n := range stats.LabelCounts {
			if n > peak {
				peak = n
			}
		}
		for _, name := range vocab {
			n := stats.LabelCounts[name]
			width := 0
			if peak > 0 {
				width = n * barWidth / peak
			}
			fmt.Fprintf(w, "%-12s %6d ", name, n)
			okColor.Fprintln(w, strings.Repeat("█", width))
		}
	})
}
