package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geofeed/internal/domain"
	domcensus "github.com/kailas-cloud/geofeed/internal/domain/census"
	"github.com/kailas-cloud/geofeed/internal/domain/filter"
	domplace "github.com/kailas-cloud/geofeed/internal/domain/place"
	domtweet "github.com/kailas-cloud/geofeed/internal/domain/tweet"
	"github.com/kailas-cloud/geofeed/internal/domain/tweet/patch"
	censusuc "github.com/kailas-cloud/geofeed/internal/usecase/census"
	healthuc "github.com/kailas-cloud/geofeed/internal/usecase/health"
	placeuc "github.com/kailas-cloud/geofeed/internal/usecase/place"
	tweetuc "github.com/kailas-cloud/geofeed/internal/usecase/tweet"
)

// --- Fake repositories ---

type fakePlaceRepo struct {
	places  []domplace.Place
	types   []string
	names   []string
	lastExp filter.Expression
	err     error
}

func (f *fakePlaceRepo) Find(_ context.Context, expr filter.Expression) ([]domplace.Place, error) {
	f.lastExp = expr
	return f.places, f.err
}

func (f *fakePlaceRepo) Types(context.Context) ([]string, error) { return f.types, f.err }

func (f *fakePlaceRepo) Names(context.Context) ([]string, error) { return f.names, f.err }

type fakeTweetRepo struct {
	tweets    map[string]domtweet.Tweet
	lastExp   filter.Expression
	lastPatch *patch.Patch
}

func (f *fakeTweetRepo) Find(_ context.Context, expr filter.Expression) ([]domtweet.Tweet, error) {
	f.lastExp = expr
	out := make([]domtweet.Tweet, 0, len(f.tweets))
	for _, t := range f.tweets {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTweetRepo) Get(_ context.Context, id string) (domtweet.Tweet, error) {
	if len(id) != 24 {
		return domtweet.Tweet{}, domain.ErrInvalidID
	}
	t, ok := f.tweets[id]
	if !ok {
		return domtweet.Tweet{}, domain.ErrTweetNotFound
	}
	return t, nil
}

func (f *fakeTweetRepo) Update(ctx context.Context, id string, p *patch.Patch) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	f.lastPatch = p
	return nil
}

func (f *fakeTweetRepo) Delete(ctx context.Context, id string) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	delete(f.tweets, id)
	return nil
}

type fakeCensusRepo struct {
	filters    []domcensus.Filter
	regions    []domcensus.Region
	geometries []domcensus.Geometry
	filterExp  filter.Expression
	regionExp  filter.Expression
	geomExp    filter.Expression
	calls      int
}

func (f *fakeCensusRepo) FindFilters(_ context.Context, expr filter.Expression) ([]domcensus.Filter, error) {
	f.calls++
	f.filterExp = expr
	return f.filters, nil
}

func (f *fakeCensusRepo) FindRegions(
	_ context.Context, expr filter.Expression, _ []string,
) ([]domcensus.Region, error) {
	f.calls++
	f.regionExp = expr
	return f.regions, nil
}

func (f *fakeCensusRepo) FindGeometries(_ context.Context, expr filter.Expression) ([]domcensus.Geometry, error) {
	f.geomExp = expr
	return f.geometries, nil
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

// --- Harness ---

type harness struct {
	places *fakePlaceRepo
	tweets *fakeTweetRepo
	census *fakeCensusRepo
	pinger *fakePinger
	router chi.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		places: &fakePlaceRepo{},
		tweets: &fakeTweetRepo{tweets: map[string]domtweet.Tweet{}},
		census: &fakeCensusRepo{},
		pinger: &fakePinger{},
	}
	srv := NewServer(
		placeuc.New(h.places),
		tweetuc.New(h.tweets),
		censusuc.New(h.census, domcensus.DefaultBounds),
		healthuc.New(h.pinger),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Register(r)
	h.router = r
	return h
}

func (h *harness) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}
