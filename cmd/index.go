package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/bootstrap"
	"github.com/jonesrussell/trendboard/internal/ingest"
)

func newIndexCommand(opts *options) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Load the data file and bulk index it into Elasticsearch",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.setup()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Documents.Path
			}

			ctx := cmd.Context()
			docs, err := ingest.NewFileSource(path, logger).Load(ctx)
			if err != nil {
				return err
			}

			store, err := bootstrap.SetupElasticsearch(ctx, cfg, logger)
			if err != nil {
				return err
			}
			if err = store.BulkIndex(ctx, docs); err != nil {
				return err
			}

			logger.Info("Indexed documents",
				infralogger.String("index", store.Index()),
				infralogger.Int("count", len(docs)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into %s\n", len(docs), store.Index())
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "data file (default is documents.path)")
	return cmd
}
