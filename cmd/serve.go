package cmd

import (
	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/bootstrap"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			comps, err := opts.components(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := comps.Close(); closeErr != nil {
					comps.Logger.Warn("Failed to close components", infralogger.Error(closeErr))
				}
				_ = comps.Logger.Sync()
			}()

			if _, err = comps.StartWatcher(ctx); err != nil {
				return err
			}
			if _, err = comps.StartScheduler(ctx); err != nil {
				return err
			}

			comps.Logger.Info("Starting trendboard",
				infralogger.Int("port", comps.Config.Service.Port),
				infralogger.Int("documents", len(comps.Dashboard.Documents())),
				infralogger.Int("categories", len(comps.Dashboard.Categories())),
			)
			return bootstrap.NewServer(comps).Run(ctx)
		},
	}
}
