package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-cli/internal/events"
	"github.com/sells-group/lead-cli/internal/ingest"
	"github.com/sells-group/lead-cli/internal/store"
)

var (
	batchAgent       string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Import leads from multiple spreadsheet files",
	Long:  "Imports several files concurrently. Files are isolated from each other the same way rows are isolated within a file: one bad file never aborts the rest.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		bus, flush := initBus()
		defer flush()

		return processFiles(ctx, st, bus, args, batchConcurrency)
	},
}

func processFiles(ctx context.Context, st store.Store, bus events.Bus, paths []string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("files", len(paths)),
		zap.Int("concurrency", concurrency),
	)

	importer := ingest.NewImporter(st, bus, cfg.Import.DefaultAgent)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var imported, failedRows, failedFiles atomic.Int64

	for _, path := range paths {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", path))

			data, err := os.ReadFile(path)
			if err != nil {
				failedFiles.Add(1)
				log.Error("read failed", zap.Error(err))
				return nil // one bad file never aborts the batch
			}

			summary, err := importer.Import(gctx, data, filepath.Base(path), batchAgent)
			if err != nil {
				failedFiles.Add(1)
				log.Error("import failed", zap.Error(err))
				return nil
			}

			imported.Add(int64(summary.Imported))
			failedRows.Add(int64(summary.Errors))
			printSummary(path, summary)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch import")
	}

	fmt.Printf("batch complete: %d leads imported, %d rows failed, %d files failed\n",
		imported.Load(), failedRows.Load(), failedFiles.Load())

	zap.L().Info("batch complete",
		zap.Int64("imported", imported.Load()),
		zap.Int64("failed_rows", failedRows.Load()),
		zap.Int64("failed_files", failedFiles.Load()),
	)
	return nil
}

func init() {
	batchCmd.Flags().StringVar(&batchAgent, "agent", "", "acting agent (default from config)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max files processed at once")
	rootCmd.AddCommand(batchCmd)
}
