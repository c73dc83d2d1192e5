package cli

import (
	"context"
	"fmt"

	"capsule-labeling-be/internal/bootstrap"
	"capsule-labeling-be/internal/config"
	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/service"
	"capsule-labeling-be/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const cliAnnotator = "labelctl"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Open builds the session service; replaced in tests.
	Open ServiceOpener
}

// ServiceOpener returns a session service and a function releasing it.
type ServiceOpener func(ctx context.Context) (service.ISessionService, func(), error)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for labelctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Open: openFromEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labelctl",
		Short: "Operate the capsule endoscopy frame registries",
		Long: `labelctl reconciles the frame folder with the labeled and unlabeled
registries, reports label statistics and checks registry consistency using
the same configuration as the REST service.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func openFromEnv(ctx context.Context) (service.ISessionService, func(), error) {
	cfg := config.Load()

	var db *gorm.DB
	if cfg.Storage.TableBackend == config.BackendPostgres {
		var err error
		db, err = database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Debug)
		if err != nil {
			return nil, nil, err
		}
	}

	container, err := bootstrap.NewContainer(ctx, db, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := container.ConsumerService.Consume(ctx); err != nil {
		container.Close()
		return nil, nil, err
	}
	return container.SessionService, container.Close, nil
}

// withSession opens the service, starts a session and ends it when fn returns.
func withSession(ctx context.Context, opts *RootOptions, fn func(svc service.ISessionService, sess *dto.SessionResponse) error) error {
	svc, closeFn, err := opts.Open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open registries", err)
	}
	defer closeFn()

	sess, err := svc.Start(ctx, cliAnnotator)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load registries", err)
	}
	defer svc.End(ctx, sess.Id)

	return fn(svc, sess)
}
