package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/parsescope/parsescope/internal/model"
)

// DefaultConcurrency is the number of files loaded at once when no limit
// is configured.
const DefaultConcurrency = 4

// BatchProcessor loads several file views concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each file, so that
	// pipeline state doesn't leak between files.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent loads.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent loads.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch loads the given files concurrently and returns their views
// in input order. A file whose pipeline fails still has a view with the
// error recorded in it; the returned error is only set when ctx ends first,
// in which case unstarted files have nil views.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, ids []int64) ([]*model.FileView, error) {
	results := make([]*model.FileView, len(ids))
	err := bp.ProcessBatchWithCallback(ctx, ids, func(view *model.FileView, index int) {
		results[index] = view
	})
	return results, err
}

// ProcessBatchWithCallback loads the files and calls callback for each
// finished view with its index in ids. The callback runs on the worker
// goroutine and must be safe for concurrent use; writing to distinct slice
// elements is.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	ids []int64,
	callback func(view *model.FileView, index int),
) error {
	bp.logger.Debug("starting batch processing",
		"total_files", len(ids),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			view := model.NewFileView(id)
			if err := bp.pipelineFactory().Execute(ctx, view); err != nil {
				bp.logger.Warn("file failed",
					"file_id", id,
					"error", err,
				)
			}

			callback(view, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_files", len(ids),
		"elapsed", time.Since(startTime),
	)

	return err
}
