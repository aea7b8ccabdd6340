// Batch loader for geofeed. Drops and rebuilds the places, tweets and
// census collections from the directories configured under loader.*.
//
// Usage:
//
//	geofeed-loader -datasets places,tweets,census [-skip-invalid] [-metrics-port 9091]
//
// Env vars:
//
//	ENV          config environment (default: local)
//	MONGO_URI    document store URI
//	PLACES_DIR, TWEETS_DIR, CENSUS_DIR  input directories
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofeed/internal/config"
	dbMongo "github.com/kailas-cloud/geofeed/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/geofeed/internal/db/redis"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/loader"
	logpkg "github.com/kailas-cloud/geofeed/internal/logger"
	"github.com/kailas-cloud/geofeed/internal/metrics"
	censusrepo "github.com/kailas-cloud/geofeed/internal/repository/census"
	placerepo "github.com/kailas-cloud/geofeed/internal/repository/place"
	tweetrepo "github.com/kailas-cloud/geofeed/internal/repository/tweet"
	"github.com/kailas-cloud/geofeed/internal/sentiment"
	"github.com/kailas-cloud/geofeed/internal/version"
)

type flags struct {
	datasets    string
	skipInvalid bool
	metricsPort int
	workers     int
	batchSize   int
	version     bool
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.datasets, "datasets", "all", "comma separated datasets: places, tweets, census or all")
	flag.BoolVar(&f.skipInvalid, "skip-invalid", false, "log and count malformed rows instead of failing")
	flag.IntVar(&f.metricsPort, "metrics-port", -1, "Prometheus metrics port (0=disabled, -1=from config)")
	flag.IntVar(&f.workers, "workers", 0, "parallel insert workers (0=from config)")
	flag.IntVar(&f.batchSize, "batch-size", 0, "documents per insert batch (0=from config)")
	flag.BoolVar(&f.version, "version", false, "print build version and exit")
	flag.Parse()
	return f
}

func main() {
	_ = godotenv.Load()
	f := parseFlags()
	if f.version {
		fmt.Println("geofeed-loader", version.String())
		return
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, "geofeed-loader")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err = run(ctx, cfg, f, logger)
	cancel()
	_ = logger.Sync()
	if err != nil {
		logger.Error("loader failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, f flags, logger *zap.Logger) error {
	datasets, err := loader.ParseDatasets(f.datasets)
	if err != nil {
		return err
	}

	logger.Info("Starting geofeed loader",
		zap.String("commit", version.Commit),
		zap.String("datasets", f.datasets),
		zap.Bool("skip_invalid", f.skipInvalid),
	)

	reg := prometheus.NewRegistry()
	m := metrics.NewLoaderMetrics(reg)

	port := cfg.Loader.MetricsPort
	if f.metricsPort >= 0 {
		port = f.metricsPort
	}
	if port > 0 {
		srv := serveMetrics(port, reg, logger)
		defer func() {
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
	}

	store, err := dbMongo.NewStore(ctx, dbMongo.Config{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Name,
		Timeout:  time.Duration(cfg.Database.TimeoutSec) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = store.Close(closeCtx)
	}()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	lc := loaderConfig(cfg, f)
	ld := loader.New(lc,
		placerepo.New(store),
		tweetrepo.New(store),
		censusrepo.New(store),
		sentiment.Default(),
		logger,
	).WithMetrics(m)

	if cfg.Loader.Lock.Enabled() {
		lockStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Loader.Lock.Addrs,
			Password: cfg.Loader.Lock.Password,
		})
		if err != nil {
			return fmt.Errorf("create lock store: %w", err)
		}
		defer lockStore.Close()

		if err := lockStore.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("lock store not ready: %w", err)
		}
		ld.WithLocker(lockStore)
	}

	report, err := ld.Run(ctx, datasets)
	if err != nil {
		return err
	}

	for _, s := range report.Stats {
		fmt.Printf("%-15s loaded=%d skipped=%d batches=%d duration=%s\n",
			s.Dataset, s.Loaded, s.Skipped, s.Batches, s.Duration.Round(time.Millisecond))
	}
	fmt.Printf("Finished in %s\n", report.Duration.Round(time.Millisecond))
	return nil
}

func loaderConfig(cfg config.Config, f flags) loader.Config {
	lc := loader.Config{
		PlacesDir:   cfg.Loader.PlacesDir,
		TweetsDir:   cfg.Loader.TweetsDir,
		CensusDir:   cfg.Loader.CensusDir,
		Header:      cfg.Loader.Header,
		BatchSize:   cfg.Loader.BatchSize,
		Workers:     cfg.Loader.Workers,
		SkipInvalid: f.skipInvalid,
		LockKey:     cfg.Loader.Lock.Key,
		LockTTL:     time.Duration(cfg.Loader.Lock.TTLSec) * time.Second,
		Bounds:      domcensus.Bounds{Min: cfg.Census.MinAge, Max: cfg.Census.MaxAge},
	}
	if f.workers > 0 {
		lc.Workers = f.workers
	}
	if f.batchSize > 0 {
		lc.BatchSize = f.batchSize
	}
	return lc
}

func serveMetrics(port int, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}
