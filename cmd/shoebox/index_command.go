package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Archive index utilities",
	}
	indexCmd.AddCommand(newIndexStatsCommand(ctx))
	return indexCmd
}

func newIndexStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Scan the archive and report index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			index, err := ctx.newArchiveIndex(logger)
			if err != nil {
				return err
			}
			if err := index.Build(cmd.Context()); err != nil {
				return fmt.Errorf("build index: %w", err)
			}

			stats := index.Stats()
			rows := [][]string{
				{"Files", counts.Sprintf("%d", stats.Files)},
				{"Identity keys", counts.Sprintf("%d", stats.Keys)},
				{"Capture stamps", counts.Sprintf("%d", stats.Stamps)},
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}
