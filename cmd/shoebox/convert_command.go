package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"shoebox/internal/converter"
	"shoebox/internal/encoding"
	"shoebox/internal/ledger"
	"shoebox/internal/probecache"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		dryRun        bool
		keepOriginal  bool
		forceSoftware bool
	)

	cmd := &cobra.Command{
		Use:   "convert <source-dir>",
		Short: "Re-encode legacy video into archival H.265",
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

			if keepOriginal {
				cfg.Convert.KeepOriginal = true
			}
			if forceSoftware {
				cfg.Convert.ForceHighComplexity = true
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

			led := ledger.Open(cfg.Paths.LedgerPath, logger)
			cache := probecache.NewCache(filepath.Join(cfg.Paths.CacheDir, "probe_cache.json"), logger)

			conv := converter.New(cfg, store, index, led, cache, encoding.NewFFmpeg(cfg, logger), logger)
			conv.SetDryRun(dryRun)

			summary, err := conv.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintln(out, "Dry run: nothing was encoded.")
			}
			fmt.Fprintln(out, renderSummary(summary.BatchID, summary.Total, summary.Counts))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report decisions without encoding anything")
	cmd.Flags().BoolVar(&keepOriginal, "keep-original", false, "Leave source files in place after conversion")
	cmd.Flags().BoolVar(&forceSoftware, "force-software", false, "Always use the software encoder profile")
	return cmd
}
