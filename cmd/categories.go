package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/bootstrap"
	"github.com/jonesrussell/trendboard/internal/classifier"
)

const (
	viewMetrics = "metrics"
	viewList    = "list"
	viewTopics  = "topics"
	viewThemes  = "themes"
)

func newCategoriesCommand(opts *options) *cobra.Command {
	var (
		sample int
		view   string
	)

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Classify articles against the configured categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			comps, err := opts.components(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = comps.Close() }()

			out := cmd.OutOrStdout()
			switch view {
			case viewMetrics:
				renderMetrics(out, comps.Dashboard.CategoryMetrics(ctx, sample))
			case viewList:
				renderCategories(out, comps.Dashboard.Categories())
			case viewTopics:
				renderMetrics(out, comps.Dashboard.Topics(ctx))
			case viewThemes:
				renderMetrics(out, comps.Dashboard.Themes(ctx))
			default:
				return fmt.Errorf("unknown view %q (want %s, %s, %s or %s)", view, viewMetrics, viewList, viewTopics, viewThemes)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 0, "sample articles per category (0 for the configured default)")
	cmd.Flags().StringVar(&view, "view", viewMetrics, "what to show: metrics, list, topics or themes")
	cmd.AddCommand(newSeedCommand(opts))
	return cmd
}

func newSeedCommand(opts *options) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store a built-in category set in Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := classifier.Builtin(set)
			if err != nil {
				return err
			}

			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := bootstrap.SetupDatabase(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err = db.CategoryRepo.Seed(ctx, categories); err != nil {
				return err
			}
			logger.Info("Seeded categories", infralogger.String("set", set), infralogger.Int("count", len(categories)))
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories from %s\n", len(categories), set)
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", classifier.SetGifts, "built-in category set to store")
	return cmd
}
