package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/internal/async"
	"github.com/joseph-ayodele/einvoice/internal/batch"
	"github.com/joseph-ayodele/einvoice/internal/ingest"
)

func newBatchCmd(c *cli) *cobra.Command {
	var dir, out string
	var workers int
	var skipHidden bool
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Extract every supported file in a directory and write XML plus report.xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = filepath.Join(dir, "out")
			}
			if workers <= 0 {
				workers = c.cfg.Batch.Workers
			}
			files, stats, err := ingest.Scan(dir, ingest.ScanOptions{SkipHidden: skipHidden})
			if err != nil {
				return err
			}
			c.logger.Info("batch.scan", "dir", dir, "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

			app, err := c.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			paths := make([]string, len(files))
			for i, f := range files {
				paths[i] = f.Path
			}
			runner := batch.NewRunner(app.Service, out, workers, c.logger)
			rows, err := runner.Run(cmd.Context(), paths)
			if err != nil {
				return err
			}
			report, err := runner.WriteReport(rows)
			if err != nil {
				return err
			}
			ok := 0
			for _, r := range rows {
				if r.XMLPath != "" {
					ok++
				}
			}
			fmt.Fprintf(c.out, "%d/%d invoices extracted, report: %s\n", ok, len(rows), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to process (required)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default <dir>/out)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel extractions (default BATCH_WORKERS)")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dot files and directories")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func newWatchCmd(c *cli) *cobra.Command {
	var dir, out string
	var workers int
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process existing and newly added files in a directory until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if out == "" {
				out = filepath.Join(dir, "out")
			}
			if workers <= 0 {
				workers = c.cfg.Batch.Workers
			}
			outAbs, _ := filepath.Abs(out)

			app, err := c.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			runner := batch.NewRunner(app.Service, out, workers, c.logger)
			var rows batch.Collector
			seen := ingest.NewDedup()

			queue := async.NewWorkerQueue(func(ctx context.Context, job async.Job) error {
				row, err := runner.ProcessFile(ctx, job.Path)
				rows.Add(row)
				return err
			}, c.logger, async.WithWorkers(workers))

			events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
				Roots:       []string{dir},
				InitialScan: true,
				Debounce:    debounce,
				Logger:      c.logger,
			})
			if err != nil {
				return err
			}
			c.logger.Info("watching", "dir", dir, "out", out)

		loop:
			for {
				select {
				case p, ok := <-events:
					if !ok {
						break loop
					}
					if abs, _ := filepath.Abs(p); outAbs != "" && isWithin(outAbs, abs) {
						continue
					}
					first, err := seen.FirstSeen(p)
					if err != nil {
						c.logger.Warn("watch.hash_failed", "path", p, "error", err)
						continue
					}
					if !first {
						c.logger.Debug("watch.duplicate", "path", p)
						continue
					}
					if err := queue.Enqueue(ctx, async.Job{Path: p}); err != nil {
						c.logger.Warn("watch.enqueue_failed", "path", p, "error", err)
					}
				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					c.logger.Warn("watch.error", "error", err)
				case <-ctx.Done():
					break loop
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			queue.Shutdown(shutdownCtx)

			report, err := runner.WriteReport(rows.Rows())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "processed %d file(s), report: %s\n", len(rows.Rows()), report)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to watch (required)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default <dir>/out)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel extractions (default BATCH_WORKERS)")
	cmd.Flags().DurationVar(&debounce, "debounce", 750*time.Millisecond, "coalesce bursts of file events")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
