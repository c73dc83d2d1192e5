package cli

import (
	"context"
	"fmt"
	"io"

	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/service"

	"github.com/spf13/cobra"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Find frames in the image folder that neither registry lists",
		Long: `Lists the frame folder and reconciles it against the labeled and
unlabeled registries. New frames are reported; with --write they are appended
to the unlabeled registry.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd.Context(), rootOpts, cmd, write)
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "append discovered frames to the unlabeled registry")

	return cmd
}

func runSync(ctx context.Context, opts *RootOptions, cmd *cobra.Command, write bool) error {
	formatter := newFormatter(opts, cmd)

	var res *dto.SyncResponse
	err := withSession(ctx, opts, func(svc service.ISessionService, sess *dto.SessionResponse) error {
		formatter.VerboseLog("labeled=%d unlabeled=%d images=%d", sess.LabeledCount, sess.UnlabeledCount, sess.ImageCount)
		if !write {
			res = &dto.SyncResponse{
				LabeledCount:   sess.LabeledCount,
				UnlabeledCount: sess.UnlabeledCount,
				Discovered:     sess.Discovered,
			}
			return nil
		}
		var err error
		res, err = svc.PersistDiscovered(ctx, sess.Id)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to write unlabeled registry", err)
		}
		return nil
	})
	if err != nil {
		formatter.Error(err)
		return err
	}

	return formatter.Success(res, func(w io.Writer) {
		if len(res.Discovered) == 0 {
			okColor.Fprintln(w, "✓ Registries cover every frame in the folder")
			return
		}
		warnColor.Fprintf(w, "%d new frame(s) found\n", len(res.Discovered))
		for _, frame := range res.Discovered {
			fmt.Fprintf(w, "  + %s\n", frame)
		}
		if res.Written {
			okColor.Fprintln(w, "✓ Unlabeled registry updated")
		} else {
			dimColor.Fprintln(w, "Run with --write to append them to the unlabeled registry")
		}
	})
}
