package cmd

import (
	"github.com/spf13/cobra"
)

const defaultRankLimit = 20

func newRankCommand(opts *options) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Filter and rank articles",
		Example: `  trendboard rank --sort relevance --terms eco-friendly,sustainable
  trendboard rank --source PPAI --date-range last90 --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := flags.query()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			comps, err := opts.components(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = comps.Close() }()

			page := comps.Dashboard.Articles(ctx, q)
			rows := make([]scoredRow, 0, len(page.Articles))
			for i := range page.Articles {
				doc := page.Articles[i]
				row := scoredRow{doc: doc}
				if len(q.Terms) > 0 {
					report, scoreErr := comps.Dashboard.Score(ctx, doc.ID, q.Terms)
					if scoreErr != nil {
						return scoreErr
					}
					row.score = report.Weighted.Score
				}
				rows = append(rows, row)
			}

			renderArticles(cmd.OutOrStdout(), rows, page.Total)
			return nil
		},
	}
	flags.register(cmd, defaultRankLimit)
	return cmd
}
