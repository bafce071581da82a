package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shoebox/internal/journal"
	"shoebox/internal/metadata"
	"shoebox/internal/organizer"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <source-dir>",
		Short: "Import media from a source tree into the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if !dryRun {
				release, err := ctx.acquireArchiveLock()
				if err != nil {
					return err
				}
				defer release()
			}

			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			index, err := ctx.newArchiveIndex(logger)
			if err != nil {
				return err
			}

			org := organizer.New(cfg, store, index, metadata.NewExiftool(cfg, logger), logger)
			org.SetDryRun(dryRun)

			summary, err := org.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were moved.")
			}
			fmt.Fprintln(out, renderSummary(summary.BatchID, summary.Total, summary.Counts))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report decisions without moving anything")
	return cmd
}

func renderSummary(batchID string, total int, statusCounts map[journal.Status]int) string {
	rows := make([][]string, 0, len(statusCounts)+1)
	for _, status := range journal.AllStatuses() {
		if n, ok := statusCounts[status]; ok && n > 0 {
			rows = append(rows, []string{string(status), counts.Sprintf("%d", n)})
		}
	}
	rows = append(rows, []string{"total", counts.Sprintf("%d", total)})

	return fmt.Sprintf("Batch %s\n%s", batchID,
		renderTable([]string{"Outcome", "Files"}, rows, []columnAlignment{alignLeft, alignRight}))
}
