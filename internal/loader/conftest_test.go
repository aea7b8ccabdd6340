package loader

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
)

type fakePlaceStore struct {
	mu      sync.Mutex
	resets  int
	places  []domplace.Place
	insertE error
}

func (f *fakePlaceStore) Reset(_ context.Context) error {
	f.resets++
	return nil
}

func (f *fakePlaceStore) InsertBatch(_ context.Context, places []domplace.Place) (int, error) {
	if f.insertE != nil {
		return 0, f.insertE
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.places = append(f.places, places...)
	return len(places), nil
}

type fakeTweetStore struct {
	mu     sync.Mutex
	resets int
	tweets []domtweet.Tweet
}

func (f *fakeTweetStore) Reset(_ context.Context) error {
	f.resets++
	return nil
}

func (f *fakeTweetStore) InsertBatch(_ context.Context, tweets []domtweet.Tweet) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tweets = append(f.tweets, tweets...)
	return len(tweets), nil
}

type fakeCensusStore struct {
	mu      sync.Mutex
	resets  int
	filters []domcensus.Filter
	regions []domcensus.Region
	geoms   []domcensus.Geometry
}

func (f *fakeCensusStore) Reset(_ context.Context) error {
	f.resets++
	return nil
}

func (f *fakeCensusStore) InsertFilters(_ context.Context, filters []domcensus.Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filters...)
	return len(filters), nil
}

func (f *fakeCensusStore) InsertRegions(_ context.Context, regions []domcensus.Region) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regions = append(f.regions, regions...)
	return len(regions), nil
}

func (f *fakeCensusStore) InsertGeometries(_ context.Context, geoms []domcensus.Geometry) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geoms = append(f.geoms, geoms...)
	return len(geoms), nil
}

// fixedScorer returns the same polarity for every text.
type fixedScorer domtweet.Sentiment

func (s fixedScorer) Polarity(string) domtweet.Sentiment { return domtweet.Sentiment(s) }

type fakeLocker struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (f *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.acquireErr != nil {
		return "", f.acquireErr
	}
	f.acquired = append(f.acquired, key)
	return "token-1", nil
}

func (f *fakeLocker) Release(_ context.Context, key, _ string) error {
	f.released = append(f.released, key)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

type harness struct {
	places *fakePlaceStore
	tweets *fakeTweetStore
	census *fakeCensusStore
	cfg    Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	cfg := Config{
		PlacesDir: filepath.Join(root, "places"),
		TweetsDir: filepath.Join(root, "tweets"),
		CensusDir: filepath.Join(root, "census"),
		Header:    true,
		BatchSize: 2,
		Workers:   2,
		LockKey:   "geofeed:loader:lock",
		LockTTL:   time.Minute,
		Bounds:    domcensus.DefaultBounds,
	}
	for _, dir := range []string{cfg.PlacesDir, cfg.TweetsDir, cfg.CensusDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	return &harness{
		places: &fakePlaceStore{},
		tweets: &fakeTweetStore{},
		census: &fakeCensusStore{},
		cfg:    cfg,
	}
}

func (h *harness) loader() *Loader {
	return New(h.cfg, h.places, h.tweets, h.census, fixedScorer(domtweet.Positive), nil)
}
