package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/trendboard/internal/export"
)

func newExportCommand(opts *options) *cobra.Command {
	flags := &queryFlags{}
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the selected articles to an Excel workbook",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
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

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer func() {
				err = errors.Join(err, f.Close())
			}()

			if err = comps.Dashboard.Export(ctx, f, q); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	flags.register(cmd, 0)
	cmd.Flags().StringVarP(&out, "out", "o", export.FileName, "output file")
	return cmd
}
