// Package cmd implements the trendboard command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/bootstrap"
	"github.com/jonesrussell/trendboard/internal/config"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

// options holds the global flags.
type options struct {
	configPath string
	debug      bool
}

// NewRootCommand builds the trendboard command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "trendboard",
		Short:         "Gifting trends dashboard and keyword relevance engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug mode")

	root.AddCommand(
		newServeCommand(opts),
		newRankCommand(opts),
		newCategoriesCommand(opts),
		newExportCommand(opts),
		newIndexCommand(opts),
		newTokenCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads configuration and the logger honoring --config and --debug.
func (o *options) setup() (*config.Config, infralogger.Logger, error) {
	cfg, err := bootstrap.LoadConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.debug {
		cfg.Service.Debug = true
	}
	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// components loads configuration and builds the dashboard. Callers close the result.
func (o *options) components(ctx context.Context) (*bootstrap.Components, error) {
	cfg, logger, err := o.setup()
	if err != nil {
		return nil, err
	}
	comps, err := bootstrap.NewComponents(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return comps, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trendboard version %s\n", Version)
		},
	}
}
