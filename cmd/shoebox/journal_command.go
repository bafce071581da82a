package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"shoebox/internal/journal"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Run journal utilities",
	}
	journalCmd.AddCommand(newJournalListCommand(ctx))
	journalCmd.AddCommand(newJournalBatchesCommand(ctx))
	journalCmd.AddCommand(newJournalClearCommand(ctx))
	return journalCmd
}

func newJournalListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		statusFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent per-file outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []journal.Status
			if strings.TrimSpace(statusFlag) != "" {
				status, ok := journal.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				statuses = append(statuses, status)
			}

			items, err := store.List(cmd.Context(), limit, statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Journal is empty.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.CreatedAt.Format("2006-01-02 15:04"),
					string(item.Operation),
					string(item.Status),
					item.SourcePath,
					item.Detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"When", "Op", "Outcome", "Source", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows to show")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Filter by outcome (organized, converted, duplicate, skipped, review, failed)")
	return cmd
}

func newJournalBatchesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Summarize recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			batches, err := store.Batches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(batches))
			for _, batch := range batches {
				rows = append(rows, []string{
					batch.StartedAt.Format("2006-01-02 15:04"),
					string(batch.Operation),
					batch.BatchID,
					counts.Sprintf("%d", batch.Total),
					formatBatchCounts(batch),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Started", "Op", "Batch", "Files", "Outcomes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum batches to show")
	return cmd
}

func formatBatchCounts(batch journal.BatchSummary) string {
	parts := make([]string, 0, len(batch.Counts))
	for _, status := range journal.AllStatuses() {
		if n, ok := batch.Counts[status]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", status, n))
		}
	}
	return strings.Join(parts, " ")
}

func newJournalClearCommand(ctx *commandContext) *cobra.Command {
	var (
		batchID string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete journal rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && strings.TrimSpace(batchID) == "" {
				return fmt.Errorf("specify --batch <id> or --all")
			}

			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if all {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d journal rows\n", removed)
				return nil
			}

			removed, err := store.ClearBatch(cmd.Context(), batchID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Removed %d rows for batch %s\n", removed, batchID)
			return nil
		},
	}

	cmd.Flags().StringVar(&batchID, "batch", "", "Batch identifier to clear")
	cmd.Flags().BoolVar(&all, "all", false, "Clear the entire journal")
	return cmd
}
