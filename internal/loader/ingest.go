package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/geofeed/internal/metrics"
)

// progressEvery is the row interval between progress log lines.
const progressEvery = 10000

// Stats summarizes one dataset load.
type Stats struct {
	Dataset  Dataset
	Loaded   int64
	Skipped  int64
	Batches  int64
	Duration time.Duration
}

type pipelineOptions struct {
	dataset     Dataset
	workers     int
	batchSize   int
	skipInvalid bool
	metrics     *metrics.LoaderMetrics
	logger      *zap.Logger
}

// pipeline feeds parsed items from a single producer to a pool of insert workers.
// reject decides whether an invalid row aborts the run.
type pipeline[T any] struct {
	produce func(ctx context.Context, emit func(T) error, reject func(error) error) error
	insert  func(ctx context.Context, items []T) (int, error)
}

func runPipeline[T any](ctx context.Context, opts pipelineOptions, p pipeline[T]) (Stats, error) {
	start := time.Now()
	dataset := string(opts.dataset)

	var loaded, skipped, batchCount atomic.Int64
	batches := make(chan []T, opts.workers*2)

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < opts.workers; i++ {
		g.Go(func() error {
			for batch := range batches {
				n, err := insertBatch(gctx, opts, p.insert, batch)
				batchCount.Add(1)
				if err != nil {
					return err
				}
				total := loaded.Add(int64(n))
				if total%progressEvery < int64(n) {
					opts.logger.Info("load progress",
						zap.String("dataset", dataset),
						zap.Int64("loaded", total),
						zap.Int64("skipped", skipped.Load()),
					)
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(batches)

		batch := make([]T, 0, opts.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			select {
			case batches <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
			batch = make([]T, 0, opts.batchSize)
			return nil
		}
		emit := func(item T) error {
			batch = append(batch, item)
			if len(batch) >= opts.batchSize {
				return flush()
			}
			return nil
		}
		reject := func(err error) error {
			if !opts.skipInvalid || !errors.Is(err, ErrInvalidRow) {
				return err
			}
			skipped.Add(1)
			if opts.metrics != nil {
				opts.metrics.RowsFailed.WithLabelValues(dataset, metrics.ReasonInvalidRow).Inc()
			}
			opts.logger.Warn("skipping invalid row", zap.String("dataset", dataset), zap.Error(err))
			return nil
		}

		if err := p.produce(gctx, emit, reject); err != nil {
			return err
		}
		return flush()
	})

	err := g.Wait()
	stats := Stats{
		Dataset:  opts.dataset,
		Loaded:   loaded.Load(),
		Skipped:  skipped.Load(),
		Batches:  batchCount.Load(),
		Duration: time.Since(start),
	}
	if err != nil {
		return stats, fmt.Errorf("load %s: %w", dataset, err)
	}
	return stats, nil
}

func insertBatch[T any](
	ctx context.Context,
	opts pipelineOptions,
	insert func(context.Context, []T) (int, error),
	batch []T,
) (int, error) {
	dataset := string(opts.dataset)
	start := time.Now()

	n, err := insert(ctx, batch)

	if opts.metrics != nil {
		opts.metrics.BatchDuration.WithLabelValues(dataset).Observe(time.Since(start).Seconds())
		opts.metrics.BatchesTotal.WithLabelValues(dataset).Inc()
		opts.metrics.RowsLoaded.WithLabelValues(dataset).Add(float64(n))
		if err != nil {
			opts.metrics.RowsFailed.WithLabelValues(dataset, metrics.ReasonBatchError).Add(float64(len(batch) - n))
		}
	}
	if err != nil {
		return n, fmt.Errorf("insert batch of %d: %w", len(batch), err)
	}
	return n, nil
}

// scanRows parses every non-blank line of files. Rows failing with
// ErrInvalidRow are located and handed to reject.
func (l *Loader) scanRows(ctx context.Context, files []string, reject func(error) error, parse func(line string) error) error {
	for _, file := range files {
		err := scanFile(ctx, file, l.cfg.Header, func(lineNo int, line string) error {
			if strings.TrimSpace(line) == "" {
				return nil
			}
			err := parse(line)
			if err != nil && errors.Is(err, ErrInvalidRow) {
				return reject(&RowError{File: file, Line: lineNo, Err: err})
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}
