// Package loader rebuilds the places, tweets and census collections from
// raw extracts. Every run drops the target collections first.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofeed/internal/db"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/metrics"
)

// Dataset names a group of collections rebuilt together.
type Dataset string

// Supported datasets.
const (
	DatasetPlaces Dataset = "places"
	DatasetTweets Dataset = "tweets"
	DatasetCensus Dataset = "census"

	// DatasetCensusFilters labels the census metadata stage in stats and metrics.
	DatasetCensusFilters Dataset = "census_filters"
)

// AllDatasets lists every dataset in load order.
var AllDatasets = []Dataset{DatasetPlaces, DatasetTweets, DatasetCensus}

// ParseDatasets parses a comma separated dataset list. "all" selects every dataset.
func ParseDatasets(raw string) ([]Dataset, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return AllDatasets, nil
	}

	var out []Dataset
	seen := make(map[Dataset]struct{})
	for _, part := range strings.Split(raw, ",") {
		d := Dataset(strings.ToLower(strings.TrimSpace(part)))
		switch d {
		case DatasetPlaces, DatasetTweets, DatasetCensus:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, part)
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out, nil
}

// Config holds loader settings.
type Config struct {
	PlacesDir   string
	TweetsDir   string
	CensusDir   string
	Header      bool // places and tweets files start with a header row
	BatchSize   int
	Workers     int
	SkipInvalid bool
	LockKey     string
	LockTTL     time.Duration
	Bounds      domcensus.Bounds
}

// Report is the outcome of a loader run.
type Report struct {
	RunID    string
	Stats    []Stats
	Duration time.Duration
}

// Loaded returns the number of stored records across datasets.
func (r Report) Loaded() int64 {
	var n int64
	for _, s := range r.Stats {
		n += s.Loaded
	}
	return n
}

// Loader runs dataset loads against the store.
type Loader struct {
	cfg     Config
	places  PlaceStore
	tweets  TweetStore
	census  CensusStore
	scorer  Scorer
	locker  db.Locker
	metrics *metrics.LoaderMetrics
	logger  *zap.Logger
}

// New creates a Loader.
func New(cfg Config, places PlaceStore, tweets TweetStore, census CensusStore, scorer Scorer, logger *zap.Logger) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		cfg:    cfg,
		places: places,
		tweets: tweets,
		census: census,
		scorer: scorer,
		logger: logger,
	}
}

// WithLocker guards runs with an exclusive lock.
func (l *Loader) WithLocker(locker db.Locker) *Loader {
	l.locker = locker
	return l
}

// WithMetrics enables loader metrics.
func (l *Loader) WithMetrics(m *metrics.LoaderMetrics) *Loader {
	l.metrics = m
	return l
}

// Run loads datasets in order and stops at the first failure.
func (l *Loader) Run(ctx context.Context, datasets []Dataset) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString()}
	log := l.logger.With(zap.String("run_id", report.RunID))

	if l.locker != nil {
		token, err := l.locker.Acquire(ctx, l.cfg.LockKey, l.cfg.LockTTL)
		if err != nil {
			if errors.Is(err, db.ErrLockHeld) {
				return report, fmt.Errorf("another loader run holds %s: %w", l.cfg.LockKey, err)
			}
			return report, fmt.Errorf("acquire lock: %w", err)
		}
		defer func() {
			relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := l.locker.Release(relCtx, l.cfg.LockKey, token); err != nil {
				log.Warn("release lock", zap.Error(err))
			}
		}()
	}

	for _, d := range datasets {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, fmt.Errorf("load %s: %w", d, err)
		}
		log.Info("loading dataset", zap.String("dataset", string(d)))

		stats, err := l.load(ctx, d)
		report.Stats = append(report.Stats, stats...)
		for _, s := range stats {
			l.record(log, s)
		}
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	log.Info("loader run finished",
		zap.Int64("loaded", report.Loaded()),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

func (l *Loader) load(ctx context.Context, d Dataset) ([]Stats, error) {
	switch d {
	case DatasetPlaces:
		s, err := l.loadPlaces(ctx)
		return []Stats{s}, err
	case DatasetTweets:
		s, err := l.loadTweets(ctx)
		return []Stats{s}, err
	case DatasetCensus:
		return l.loadCensus(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, d)
	}
}

func (l *Loader) record(log *zap.Logger, s Stats) {
	if s.Dataset == "" {
		return
	}
	if l.metrics != nil {
		l.metrics.LastRunRows.WithLabelValues(string(s.Dataset)).Set(float64(s.Loaded))
	}
	log.Info("dataset loaded",
		zap.String("dataset", string(s.Dataset)),
		zap.Int64("loaded", s.Loaded),
		zap.Int64("skipped", s.Skipped),
		zap.Int64("batches", s.Batches),
		zap.Duration("duration", s.Duration),
	)
}

func (l *Loader) pipeline(d Dataset) pipelineOptions {
	return pipelineOptions{
		dataset:     d,
		workers:     l.cfg.Workers,
		batchSize:   l.cfg.BatchSize,
		skipInvalid: l.cfg.SkipInvalid,
		metrics:     l.metrics,
		logger:      l.logger,
	}
}
